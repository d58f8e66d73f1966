package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/source"
)

// loadGraph fetches and ingests one graph, showing a spinner while the
// source is busy.
func (c *CLI) loadGraph(ctx context.Context, src source.Source, q source.Query) (*graph.Graph, error) {
	logger := loggerFromContext(ctx)
	loader := source.NewLoader(src, source.WithLogger(logger))

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Loading graph from %s...", src.Name()))
	spin.Start()
	res := loader.Load(ctx, q)
	spin.Stop()

	if res.Err != nil {
		return nil, res.Err
	}
	return res.Graph, nil
}

// =============================================================================
// Loop Selection
// =============================================================================

// loopFlags pick a loop to highlight.
type loopFlags struct {
	nodes     []string
	index     int
	file      string
	maxLength int
	maxCycles int
}

func (f *loopFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.nodes, "loop", nil, "highlight this node sequence, e.g. A,B,C,A")
	fs.IntVar(&f.index, "loop-index", 0, "highlight the n-th loop found by the backend or --loops-file (1-based)")
	fs.StringVar(&f.file, "loops-file", "", "read loops from a JSON file instead of the backend")
	f.registerQuery(cmd)
}

func (f *loopFlags) registerQuery(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.maxLength, "max-length", 0, "longest loop to report (0 for no limit)")
	fs.IntVar(&f.maxCycles, "max-cycles", source.DefaultMaxCycles, "maximum number of loops to report")
}

func (f *loopFlags) query() source.LoopQuery {
	return source.LoopQuery{MaxLength: f.maxLength, MaxCycles: f.maxCycles}
}

// loops returns the loop list from --loops-file or the source.
func (f *loopFlags) loops(ctx context.Context, src source.Source) (graph.LoopSet, error) {
	if f.file != "" {
		return graph.ReadLoopsFile(f.file)
	}
	lf, err := loopFinder(src)
	if err != nil {
		return graph.LoopSet{}, err
	}
	return lf.Loops(ctx, f.query())
}

// selected returns the loop named by the flags, if any.
func (f *loopFlags) selected(ctx context.Context, src source.Source) (graph.Loop, bool, error) {
	if len(f.nodes) > 0 {
		return graph.Loop{Nodes: f.nodes}, true, nil
	}
	if f.index <= 0 {
		return graph.Loop{}, false, nil
	}
	set, err := f.loops(ctx, src)
	if err != nil {
		return graph.Loop{}, false, err
	}
	if f.index > len(set.Loops) {
		return graph.Loop{}, false, kgerrors.New(kgerrors.ErrCodeNotFound, "loop %d requested, %d found", f.index, len(set.Loops))
	}
	return set.Loops[f.index-1], true, nil
}

// formatLoop renders a loop as "A -rel-> B -rel-> C".
func formatLoop(l graph.Loop) string {
	var b strings.Builder
	for i, id := range l.Nodes {
		if i > 0 {
			if i-1 < len(l.Relations) && l.Relations[i-1] != "" {
				b.WriteString(" -" + l.Relations[i-1] + "-> ")
			} else {
				b.WriteString(" -> ")
			}
		}
		b.WriteString(id)
	}
	return b.String()
}
