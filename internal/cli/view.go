package cli

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/observability"
	"github.com/matzehuels/kgview/pkg/source"
	"github.com/matzehuels/kgview/pkg/view"
	"github.com/matzehuels/kgview/pkg/watch"
)

type viewOptions struct {
	source  sourceFlags
	loop    loopFlags
	watch   bool
	logFile string
}

// viewCommand creates the interactive terminal view.
func (c *CLI) viewCommand() *cobra.Command {
	opts := viewOptions{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore the graph interactively in the terminal",
		Long: `Explore the graph in a full-screen terminal view.

Nodes settle under the force simulation and the view fits itself to the
graph shortly after loading. Drag a node to pin it while held, drag the
background to pan and use the mouse wheel or +/- to zoom. n and p step
through the loops found by the backend (or --loops-file), c clears the
highlight, f fits and 0 resets the view.

With --file and --watch the graph reloads whenever the file changes.`,
		Example: `  kgview view
  kgview view --center Inflation --radius 2 --direction out
  kgview view -f graph.json --watch --loops-file loops.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), opts)
		},
	}

	opts.source.register(cmd)
	opts.loop.register(cmd)
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload when the --file graph changes (default from config)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while the view is open")

	return cmd
}

func (c *CLI) runView(ctx context.Context, opts viewOptions) error {
	q, err := opts.source.query(c.Config)
	if err != nil {
		return err
	}

	// The view owns the terminal, so logs go to a file or nowhere.
	logger := newLogger(io.Discard, c.Logger.GetLevel())
	if opts.logFile != "" {
		f, err := tea.LogToFile(opts.logFile, appName)
		if err != nil {
			return kgerrors.Wrap(kgerrors.ErrCodeInvalidInput, err, "open log file")
		}
		defer f.Close()
		logger = newLogger(f, c.Logger.GetLevel())
	}
	ctx = withLogger(ctx, logger)
	saved := c.Logger
	c.Logger = logger
	defer func() { c.Logger = saved }()

	src, err := c.newSource(ctx, &opts.source)
	if err != nil {
		return err
	}

	var watcher *watch.Watcher
	if opts.source.file != "" && (opts.watch || c.Config.Source.Watch) {
		if watcher, err = watch.New(opts.source.file, watch.WithLogger(logger)); err != nil {
			return kgerrors.Wrap(kgerrors.ErrCodeFileNotFound, err, "watch %s", opts.source.file)
		}
		defer watcher.Close()
	}

	m := newGraphModel(graphModelConfig{
		ctx:     ctx,
		logger:  logger,
		loader:  source.NewLoader(src, source.WithLogger(logger)),
		query:   q,
		loops:   &opts.loop,
		watcher: watcher,
		padding: c.Config.Viewport.Padding,
		viewOpts: []view.Option{
			view.WithSimConfig(c.Config.Sim()),
			view.WithSimHooks(observability.Simulation()),
			view.WithViewportConfig(c.Config.View()),
		},
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
