package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/highlight"
	"github.com/matzehuels/kgview/pkg/render"
)

func loopGraph() *graph.Graph {
	return graph.New(
		[]graph.Node{{ID: "a", Group: "physics"}, {ID: "b", Group: "math"}, {ID: "c", Group: "physics"}},
		[]graph.Link{
			{Source: "a", Target: "b", Relation: "requires"},
			{Source: "b", Target: "a", Relation: "extends"},
			{Source: "b", Target: "c"},
		},
	)
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(loopGraph(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, id := range []string{`"a"`, `"b"`, `"c"`} {
		if !strings.Contains(dot, id) {
			t.Errorf("ToDOT() output missing node %s", id)
		}
	}
	if !strings.Contains(dot, `"a" -> "b";`) {
		t.Error("ToDOT() output missing edge")
	}
	if strings.Contains(dot, "requires") {
		t.Error("ToDOT() should not label relations by default")
	}
}

func TestToDOT_GroupColors(t *testing.T) {
	dot := ToDOT(loopGraph(), Options{})

	if strings.Count(dot, render.Category10[0]) != 2 {
		t.Errorf("physics nodes should share %s", render.Category10[0])
	}
	if !strings.Contains(dot, render.Category10[1]) {
		t.Error("math node missing second palette color")
	}
}

func TestToDOT_Relations(t *testing.T) {
	dot := ToDOT(loopGraph(), Options{Relations: true})

	if !strings.Contains(dot, `"a" -> "b" [label="requires"]`) {
		t.Errorf("ToDOT() missing relation label:\n%s", dot)
	}
	if !strings.Contains(dot, `"b" -> "c";`) {
		t.Error("unlabeled edge should have no attributes")
	}
}

func TestToDOT_Selection(t *testing.T) {
	g := loopGraph()
	sel := highlight.Compute(g, graph.Loop{Nodes: []string{"a", "b", "a"}})
	dot := ToDOT(g, Options{Selection: sel})

	if strings.Count(dot, "penwidth=3") != 4 {
		t.Errorf("want 2 hot nodes and 2 hot edges:\n%s", dot)
	}
	if !strings.Contains(dot, `"#33333340"`) {
		t.Error("node outside the loop should be faded")
	}
	if strings.Contains(dot, `"b" -> "c" [`) {
		t.Error("edge outside the loop should keep the default style")
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     graph.Node
		detailed bool
		want     string
	}{
		{"simple", graph.Node{ID: "x", Group: "g"}, false, "x"},
		{"detailed", graph.Node{ID: "x", Group: "g"}, true, "x\ngroup: g"},
		{"no group", graph.Node{ID: "x"}, true, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.node, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtAttrs(t *testing.T) {
	if attrs := fmtAttrs("x", "#123456", false, false); len(attrs) != 2 {
		t.Errorf("plain node attrs = %v", attrs)
	}
	faded := strings.Join(fmtAttrs("x", "#123456", true, false), " ")
	if !strings.Contains(faded, `"#12345640"`) {
		t.Errorf("faded attrs = %s", faded)
	}
	hot := strings.Join(fmtAttrs("x", "#123456", true, true), " ")
	if !strings.Contains(hot, render.Accent) || strings.Contains(hot, "#12345640") {
		t.Errorf("hot attrs = %s", hot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(loopGraph(), Options{Relations: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
