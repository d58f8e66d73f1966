package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/highlight"
	"github.com/matzehuels/kgview/pkg/render/nodelink"
)

// Extra format for image: raw Graphviz source.
const formatDOT = "dot"

type imageOptions struct {
	source    sourceFlags
	loop      loopFlags
	output    string
	format    string
	detailed  bool
	relations bool
	scale     float64
}

// imageCommand creates the image command, a static node-link diagram laid
// out by Graphviz instead of the force simulation.
func (c *CLI) imageCommand() *cobra.Command {
	opts := imageOptions{}

	cmd := &cobra.Command{
		Use:   "image",
		Short: "Draw a static node-link diagram with Graphviz",
		Long: `Draw the graph as a static node-link diagram laid out by Graphviz.

Nodes use the same group colors as the interactive view. A highlighted loop
is drawn in the accent color and every other node is faded.`,
		Example: `  kgview image -f graph.json -o graph.svg
  kgview image --center Inflation --loop-index 1 -o loop.pdf
  kgview image -f graph.json --format dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImage(cmd.Context(), opts)
		},
	}

	opts.source.register(cmd)
	opts.loop.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: svg, png, pdf, dot (default: from -o extension, else svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node groups in labels")
	cmd.Flags().BoolVar(&opts.relations, "edge-labels", true, "label edges with their relation")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")

	return cmd
}

func (c *CLI) runImage(ctx context.Context, opts imageOptions) error {
	format := opts.format
	if format == "" && strings.EqualFold(filepath.Ext(opts.output), ".dot") {
		format = formatDOT
	}
	if format != formatDOT {
		var err error
		if format, err = resolveFormat(format, opts.output); err != nil {
			return err
		}
		if format == formatJSON {
			return kgerrors.New(kgerrors.ErrCodeInvalidFormat, "image does not write json; use layout --format json")
		}
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

	dotOpts := nodelink.Options{Detailed: opts.detailed, Relations: opts.relations}
	loop, ok, err := opts.loop.selected(ctx, src)
	if err != nil {
		return err
	}
	if ok {
		dotOpts.Selection = highlight.Compute(g, loop)
	}
	dot := nodelink.ToDOT(g, dotOpts)

	var data []byte
	switch format {
	case formatDOT:
		data = []byte(dot)
	case formatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, opts.scale)
	case formatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	default:
		data, err = nodelink.RenderSVG(ctx, dot)
	}
	if err != nil {
		return kgerrors.Wrap(kgerrors.ErrCodeInternal, err, "render %s", format)
	}
	return writeOutput(opts.output, data)
}
