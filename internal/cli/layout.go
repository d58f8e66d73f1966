package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/observability"
	"github.com/matzehuels/kgview/pkg/render"
	"github.com/matzehuels/kgview/pkg/render/svg"
	"github.com/matzehuels/kgview/pkg/view"
)

// Output formats for layout.
const (
	formatSVG  = "svg"
	formatPNG  = "png"
	formatPDF  = "pdf"
	formatJSON = "json"
)

// Headless frames run at a fixed 60 Hz on a simulated clock.
const frameInterval = time.Second / 60

// layoutOptions are the flags of the layout command.
type layoutOptions struct {
	source    sourceFlags
	loop      loopFlags
	output    string
	format    string
	width     int
	height    int
	maxFrames int
	scale     float64
	seed      uint64
	title     string
}

// layoutCommand creates the layout command for computing force-directed layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOptions{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Run the force layout headlessly and export the result",
		Long: `Run the force-directed layout without a terminal and export the final frame.

The simulation runs until it settles (or --max-frames is reached), then the
view is fitted to the graph exactly as the interactive view would be. A loop
can be highlighted with --loop or --loop-index.

Formats: svg (default), png, pdf (both need rsvg-convert) and json, which
writes the drawn frame with screen positions and styles.`,
		Example: `  kgview layout -f graph.json -o graph.svg
  kgview layout --center Inflation --radius 2 --format png -o inflation.png
  kgview layout -f graph.json --loop A,B,C,A --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), opts)
		},
	}

	opts.source.register(cmd)
	opts.loop.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: svg, png, pdf, json (default: from -o extension, else svg)")
	cmd.Flags().IntVar(&opts.width, "width", 960, "frame width")
	cmd.Flags().IntVar(&opts.height, "height", 600, "frame height")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", 3000, "stop after this many frames even if the layout is still moving")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for initial positions (default from config)")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG document title")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts layoutOptions) error {
	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	if opts.width <= 0 || opts.height <= 0 {
		return kgerrors.New(kgerrors.ErrCodeInvalidInput, "frame size must be positive, got %dx%d", opts.width, opts.height)
	}

	q, err := opts.source.query(c.Config)
	if err != nil {
		return err
	}
	src, err := c.newSource(ctx, &opts.source)
	if err != nil {
		return err
	}
	g, err := c.loadGraph(ctx, src, q)
	if err != nil {
		return err
	}
	if g.Empty() {
		return kgerrors.New(kgerrors.ErrCodeNotFound, "graph is empty")
	}

	loop, hasLoop, err := opts.loop.selected(ctx, src)
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var sink layoutSink
	if format == formatJSON {
		sink = &recorderSink{render.NewRecorder()}
	} else {
		sink = &svgSink{svg.New(opts.width, opts.height, svg.WithTitle(opts.title))}
	}

	simCfg := c.Config.Sim()
	if opts.seed != 0 {
		simCfg.Seed = opts.seed
	}
	v, frames := runHeadless(sink, g, headlessConfig{
		width:     float64(opts.width),
		height:    float64(opts.height),
		maxFrames: opts.maxFrames,
		padding:   c.Config.Viewport.Padding,
		loop:      loop,
		hasLoop:   hasLoop,
		viewOpts: []view.Option{
			view.WithLogger(logger),
			view.WithSimConfig(simCfg),
			view.WithSimHooks(observability.Simulation()),
			view.WithViewportConfig(c.Config.View()),
		},
	})
	// Disposing clears the sink, so encode first.
	defer v.Dispose()
	prog.done("layout settled", "frames", frames)

	data, err := sink.encode(format, opts.scale)
	if err != nil {
		return err
	}
	return writeOutput(opts.output, data)
}

// headlessConfig drives runHeadless.
type headlessConfig struct {
	width, height float64
	maxFrames     int
	padding       float64
	loop          graph.Loop
	hasLoop       bool
	viewOpts      []view.Option
}

// runHeadless lays g out on r with a simulated clock and returns the view
// with the number of frames stepped. The view is fitted (or the loop
// highlighted) once the simulation settles, and the transition is stepped
// to completion. The caller disposes the view after reading r.
func runHeadless(r render.Renderer, g *graph.Graph, cfg headlessConfig) (*view.View, int) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }

	opts := append([]view.Option{
		view.WithSize(cfg.width, cfg.height),
		view.WithClock(clock),
	}, cfg.viewOpts...)
	v := view.New(r, opts...)
	v.Load(g)

	frames := 0
	step := func() bool {
		now = now.Add(frameInterval)
		frames++
		return v.Frame()
	}
	for frames < cfg.maxFrames && step() {
	}

	if cfg.hasLoop {
		v.HighlightLoop(cfg.loop)
	} else {
		v.FitToGraph(cfg.padding)
	}
	// Settle the fit transition. The simulation is converged, so only the
	// viewport is still moving.
	for i := 0; i < cfg.maxFrames && step(); i++ {
	}
	v.Redraw()
	return v, frames
}

// =============================================================================
// Sinks
// =============================================================================

type layoutSink interface {
	render.Renderer
	encode(format string, scale float64) ([]byte, error)
}

type svgSink struct{ *svg.Sink }

func (s *svgSink) encode(format string, scale float64) ([]byte, error) {
	doc := s.Bytes()
	switch format {
	case formatPNG:
		return render.ToPNG(doc, scale)
	case formatPDF:
		return render.ToPDF(doc)
	default:
		return doc, nil
	}
}

type recorderSink struct{ *render.Recorder }

func (s *recorderSink) encode(string, float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// resolveFormat picks the output format from the flag or the file extension.
func resolveFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if format == "" {
			format = formatSVG
		}
	}
	switch format {
	case formatSVG, formatPNG, formatPDF, formatJSON:
		return format, nil
	}
	return "", kgerrors.New(kgerrors.ErrCodeInvalidFormat, "unsupported format %q (want svg, png, pdf or json)", format)
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		return writeAll(stdout, data)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return kgerrors.Wrap(kgerrors.ErrCodeInternal, err, "write %s", path)
	}
	printSuccess("Wrote %s", StyleHighlight.Render(filepath.Base(path)))
	printFile(path)
	return nil
}

func writeAll(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}
