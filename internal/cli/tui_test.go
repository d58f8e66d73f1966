package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgview/pkg/interact"
	"github.com/matzehuels/kgview/pkg/render/term"
	"github.com/matzehuels/kgview/pkg/source"
	"github.com/matzehuels/kgview/pkg/view"
	"github.com/matzehuels/kgview/pkg/viewport"
)

// testModel drives a GraphModel on a simulated clock, so viewport
// transitions finish after a known number of frames.
type testModel struct {
	*GraphModel
	now time.Time
}

func newTestModel(t *testing.T, graphPath string, loops *loopFlags) *testModel {
	t.Helper()
	logger := log.New(io.Discard)
	m := &testModel{now: time.Unix(0, 0)}
	m.GraphModel = newGraphModel(graphModelConfig{
		ctx:      context.Background(),
		logger:   logger,
		loader:   source.NewLoader(source.NewFileSource(graphPath), source.WithLogger(logger)),
		loops:    loops,
		padding:  view.DefaultPadding,
		viewOpts: []view.Option{view.WithClock(func() time.Time { return m.now })},
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 32})
	return m
}

// settle steps frames, advancing the clock by one frame interval each.
func (m *testModel) settle(frames int) {
	for i := 0; i < frames; i++ {
		m.now = m.now.Add(frameInterval)
		m.Update(frameMsg(m.now))
	}
}

// runCmd executes cmd synchronously and feeds every message it produces
// back into the model, except frame ticks, which tests drive directly.
func runCmd(t *testing.T, m tea.Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(t, m, c)
		}
	case frameMsg:
	default:
		_, next := m.Update(msg)
		runCmd(t, m, next)
	}
}

func TestGraphModelLoads(t *testing.T) {
	m := newTestModel(t, writeFile(t, "graph.json", triangleJSON), nil)
	runCmd(t, m, m.Init())

	if g := m.view.Graph(); g == nil || g.Len() != 3 {
		t.Fatalf("graph not loaded: %v", m.err)
	}
	m.settle(60)
	if m.view.Viewport().Animating() || m.view.Transform() == viewport.Identity {
		t.Fatalf("initial fit should have finished, transform = %+v", m.view.Transform())
	}

	out := m.View()
	for _, want := range []string{"Inflation", "3 nodes", "3 edges", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view should contain %q", want)
		}
	}
	if cols, rows := m.canvas.Size(); cols != 100 || rows != 32-statusLines {
		t.Errorf("canvas = %dx%d", cols, rows)
	}
}

func TestGraphModelLoadError(t *testing.T) {
	m := newTestModel(t, writeFile(t, "graph.json", "{not json"), nil)
	runCmd(t, m, m.Init())

	if m.err == nil {
		t.Fatal("load error should be kept for the status line")
	}
	if !strings.Contains(m.View(), "INVALID_PAYLOAD") {
		t.Errorf("status should show the error:\n%s", m.statusLine())
	}
}

func TestGraphModelDiscardsStaleLoad(t *testing.T) {
	m := newTestModel(t, writeFile(t, "graph.json", triangleJSON), nil)
	first := m.load()
	second := m.load()

	// The newer load commits; the older one arrives late and is dropped.
	runCmd(t, m, second)
	g := m.view.Graph()
	runCmd(t, m, first)
	if m.view.Graph() != g {
		t.Error("stale load replaced the graph")
	}
}

func TestGraphModelLoopCycling(t *testing.T) {
	loops := &loopFlags{file: writeFile(t, "loops.json", loopsJSON)}
	m := newTestModel(t, writeFile(t, "graph.json", triangleJSON), loops)
	runCmd(t, m, m.Init())

	// First n fetches the list and highlights the first loop.
	runCmd(t, m, m.handleKey(keyMsg("n")))
	if m.loopIdx != 0 || m.view.Selection().NodeCount() != 3 {
		t.Fatalf("loopIdx = %d, selected %d nodes", m.loopIdx, m.view.Selection().NodeCount())
	}
	if !strings.Contains(m.statusLine(), "loop 1/1") {
		t.Errorf("status should show the loop: %s", m.statusLine())
	}

	runCmd(t, m, m.handleKey(keyMsg("p")))
	if m.loopIdx != 0 {
		t.Errorf("p with one loop should wrap to 0, got %d", m.loopIdx)
	}

	m.handleKey(keyMsg("c"))
	if m.loopIdx != -1 || !m.view.Selection().Empty() {
		t.Error("c should clear the highlight")
	}
}

func TestGraphModelInitialLoopFromFlags(t *testing.T) {
	loops := &loopFlags{nodes: []string{"Inflation", "Rates"}}
	m := newTestModel(t, writeFile(t, "graph.json", triangleJSON), loops)
	runCmd(t, m, m.Init())

	sel := m.view.Selection()
	if !sel.HasEdge("Inflation", "Rates") || sel.NodeCount() != 2 {
		t.Errorf("selection = %v", sel.Nodes())
	}
}

func TestGraphModelLoopsUnsupported(t *testing.T) {
	m := newTestModel(t, writeFile(t, "graph.json", triangleJSON), &loopFlags{})
	runCmd(t, m, m.Init())
	runCmd(t, m, m.handleKey(keyMsg("n")))

	if m.err == nil || !strings.Contains(m.err.Error(), "UNSUPPORTED") {
		t.Errorf("err = %v, want UNSUPPORTED", m.err)
	}
}

func TestGraphModelZoomKeys(t *testing.T) {
	m := newTestModel(t, writeFile(t, "graph.json", triangleJSON), nil)
	runCmd(t, m, m.Init())
	m.settle(400)

	before := m.view.Viewport().Target().K
	m.handleKey(keyMsg("+"))
	if after := m.view.Viewport().Target().K; after <= before {
		t.Errorf("zoom in: scale %.3f -> %.3f", before, after)
	}
	m.handleKey(keyMsg("0"))
	if k := m.view.Viewport().Target().K; k != 1 {
		t.Errorf("reset should target scale 1, got %.3f", k)
	}
}

func TestGraphModelMouseDrag(t *testing.T) {
	m := newTestModel(t, writeFile(t, "graph.json", triangleJSON), nil)
	runCmd(t, m, m.Init())

	press := tea.MouseMsg{X: 2, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m.Update(press)
	if m.view.Gesture() == interact.Idle {
		t.Fatal("press should start a gesture")
	}
	m.Update(tea.MouseMsg{X: 6, Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 6, Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.view.Gesture() != interact.Idle {
		t.Error("release should end the gesture")
	}
}

func TestGraphModelHoverWithoutButton(t *testing.T) {
	m := newTestModel(t, writeFile(t, "graph.json", triangleJSON), nil)
	runCmd(t, m, m.Init())
	m.settle(60)

	pos, ok := m.view.Simulation().Position("Inflation")
	if !ok {
		t.Fatal("Inflation has no position")
	}
	col, row := term.Cell(m.view.Transform().Apply(pos))
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})

	if m.hover != "Inflation" {
		t.Errorf("hover = %q, want Inflation", m.hover)
	}
	if m.view.Gesture() != interact.Idle {
		t.Error("hovering should not start a gesture")
	}
	if !strings.Contains(m.statusLine(), "Inflation") {
		t.Errorf("status should name the hovered node: %s", m.statusLine())
	}
}

func TestGraphModelWatchReload(t *testing.T) {
	path := writeFile(t, "graph.json", triangleJSON)
	m := newTestModel(t, path, nil)
	runCmd(t, m, m.Init())

	if err := os.WriteFile(path, []byte(`{"nodes":[{"id":"Solo"}],"links":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, cmd := m.Update(changedMsg{Path: path})
	runCmd(t, m, cmd)

	if g := m.view.Graph(); g == nil || g.Len() != 1 || !g.HasNode("Solo") {
		t.Errorf("graph should reload after a change")
	}
}

func TestGraphModelQuit(t *testing.T) {
	m := newTestModel(t, writeFile(t, "graph.json", triangleJSON), nil)
	cmd := m.handleKey(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
