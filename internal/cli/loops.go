package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
)

type loopsOptions struct {
	source sourceFlags
	loop   loopFlags
	json   bool
}

// loopsCommand creates the loops command, which lists directed cycles.
func (c *CLI) loopsCommand() *cobra.Command {
	opts := loopsOptions{}

	cmd := &cobra.Command{
		Use:   "loops",
		Short: "List directed cycles found by the backend",
		Long: `List the directed cycles (feedback loops) the backend finds in the graph.

The index in the first column can be passed to view, layout or image with
--loop-index to highlight that loop.`,
		Example: `  kgview loops --max-length 4
  kgview loops --json > loops.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLoops(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.source.url, "url", "", "backend API root (default from config)")
	fs.BoolVar(&opts.source.noCache, "no-cache", false, "disable the response cache")
	fs.StringVar(&opts.loop.file, "loops-file", "", "read loops from a JSON file instead of the backend")
	opts.loop.registerQuery(cmd)
	fs.BoolVar(&opts.json, "json", false, "print the raw loop list as JSON")

	return cmd
}

func (c *CLI) runLoops(ctx context.Context, opts loopsOptions) error {
	src, err := c.newSource(ctx, &opts.source)
	if err != nil {
		return err
	}

	spin := newSpinnerWithContext(ctx, "Searching for loops...")
	spin.Start()
	set, err := opts.loop.loops(ctx, src)
	spin.Stop()

	// A backend error message comes back together with partial results.
	if err != nil && !(kgerrors.Is(err, kgerrors.ErrCodeInvalidQuery) && len(set.Loops) > 0) {
		return err
	}
	if err != nil {
		printWarning("%s", kgerrors.UserMessage(err))
	}

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}
	printLoops(set.Loops)
	return nil
}

func printLoops(loops []graph.Loop) {
	if len(loops) == 0 {
		printInfo("No loops found")
		return
	}
	t := newTable("#", "Length", "Loop")
	for i, l := range loops {
		t.Row(strconv.Itoa(i+1), strconv.Itoa(loopLength(l)), formatLoop(l))
	}
	fmt.Fprintln(stdout, t.Render())
	printDetail("%d loops", len(loops))
}

// loopLength counts distinct steps, ignoring an explicit closing node.
func loopLength(l graph.Loop) int {
	if l.Closed() {
		return len(l.Nodes) - 1
	}
	return len(l.Nodes)
}
