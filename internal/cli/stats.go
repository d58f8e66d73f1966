package cli

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/source"
)

type statsOptions struct {
	source sourceFlags
	json   bool
}

// statsCommand creates the stats command, a summary of the graph.
func (c *CLI) statsCommand() *cobra.Command {
	opts := statsOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the knowledge graph",
		Long: `Print node, edge and relation counts.

With the backend the summary comes from its stats endpoint. With --file it is
computed from the payload after ingest, so dropped duplicates and dangling
links are not counted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.source.url, "url", "", "backend API root (default from config)")
	fs.StringVarP(&opts.source.file, "file", "f", "", "summarize a JSON graph file instead of the backend")
	fs.BoolVar(&opts.json, "json", false, "print the summary as JSON")

	return cmd
}

func (c *CLI) runStats(ctx context.Context, opts statsOptions) error {
	opts.source.noCache = true
	src, err := c.newSource(ctx, &opts.source)
	if err != nil {
		return err
	}

	var stats source.Stats
	if hc, ok := src.(*source.HTTPClient); ok {
		spin := newSpinnerWithContext(ctx, "Fetching stats...")
		spin.Start()
		stats, err = hc.Stats(ctx)
		spin.Stop()
	} else {
		var g *graph.Graph
		if g, err = c.loadGraph(ctx, src, source.Query{}); err == nil {
			stats = graphStats(g)
		}
	}
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	printKeyValue("Source", src.Name())
	printKeyValue("Nodes", strconv.Itoa(stats.Nodes))
	printKeyValue("Edges", strconv.Itoa(stats.Edges))
	printKeyValue("Relation types", strconv.Itoa(stats.RelationTypes))
	if len(stats.Relations) > 0 {
		printKeyValue("Relations", strings.Join(stats.Relations, ", "))
	}
	return nil
}

// graphStats summarizes an ingested graph the way the stats endpoint does.
func graphStats(g *graph.Graph) source.Stats {
	seen := make(map[string]bool)
	for _, e := range g.Edges() {
		if e.Key.Relation != "" {
			seen[e.Key.Relation] = true
		}
	}
	relations := make([]string, 0, len(seen))
	for r := range seen {
		relations = append(relations, r)
	}
	sort.Strings(relations)
	return source.Stats{
		Nodes:         g.Len(),
		Edges:         len(g.Edges()),
		RelationTypes: len(relations),
		Relations:     relations,
	}
}
