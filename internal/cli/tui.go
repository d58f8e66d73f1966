package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/render/term"
	"github.com/matzehuels/kgview/pkg/source"
	"github.com/matzehuels/kgview/pkg/view"
	"github.com/matzehuels/kgview/pkg/watch"
)

// statusLines is the height of the footer below the canvas.
const statusLines = 2

const helpText = "drag move · wheel/+/- zoom · f fit · 0 reset · n/p loops · c clear · r reload · q quit"

// =============================================================================
// Messages
// =============================================================================

type (
	frameMsg   time.Time
	loadedMsg  source.Result
	changedMsg watch.Change
	loopsMsg   struct {
		set graph.LoopSet
		err error
	}
)

// =============================================================================
// GraphModel - Interactive graph view
// =============================================================================

// graphModelConfig wires a GraphModel.
type graphModelConfig struct {
	ctx      context.Context
	logger   *log.Logger
	loader   *source.Loader
	query    source.Query
	loops    *loopFlags
	watcher  *watch.Watcher
	padding  float64
	viewOpts []view.Option
}

// GraphModel is the bubbletea model for the interactive view. The view
// and canvas are owned by the bubbletea goroutine; loads run in commands
// and come back as messages, where the loader decides whether they are
// still current.
type GraphModel struct {
	cfg    graphModelConfig
	canvas *term.Canvas
	view   *view.View

	ticking   bool
	loading   bool
	loaded    bool
	searching bool

	loops   []graph.Loop
	loopIdx int // -1 when no loop is highlighted
	hover   string
	err     error
}

// newGraphModel returns a model with an 80×24 canvas until the first
// window size message arrives.
func newGraphModel(cfg graphModelConfig) *GraphModel {
	if cfg.ctx == nil {
		cfg.ctx = context.Background()
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}
	canvas := term.New(80, 24-statusLines)
	w, h := canvas.Viewport()
	opts := append([]view.Option{view.WithSize(w, h), view.WithLogger(cfg.logger)}, cfg.viewOpts...)
	return &GraphModel{
		cfg:     cfg,
		canvas:  canvas,
		view:    view.New(canvas, opts...),
		loopIdx: -1,
	}
}

func (m *GraphModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

func (m *GraphModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rows := msg.Height - statusLines
		if rows < 1 {
			rows = 1
		}
		m.canvas.Resize(msg.Width, rows)
		m.view.Resize(m.canvas.Viewport())
		m.view.Redraw()
		return m, m.startTicking()

	case loadedMsg:
		return m, m.handleLoaded(source.Result(msg))

	case loopsMsg:
		return m, m.handleLoops(msg)

	case changedMsg:
		m.cfg.logger.Debug("graph file changed", "path", msg.Path, "op", msg.Op)
		return m, tea.Batch(m.load(), m.waitForChange())

	case frameMsg:
		if m.view.Frame() {
			return m, tick()
		}
		m.ticking = false
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.startTicking()

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *GraphModel) View() string {
	var b strings.Builder
	b.WriteString(m.canvas.String())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(helpText))
	return b.String()
}

// Close releases the view. The model cannot be used afterwards.
func (m *GraphModel) Close() {
	m.view.Dispose()
}

// =============================================================================
// Loading
// =============================================================================

// load issues a ticket and fetches the query in a command. Tickets are
// issued here, on the model goroutine, so the newest reload always wins.
func (m *GraphModel) load() tea.Cmd {
	m.loading = true
	ctx, loader, q := m.cfg.ctx, m.cfg.loader, m.cfg.query
	t := loader.Issue()
	return func() tea.Msg {
		return loadedMsg(loader.LoadTicket(ctx, t, q))
	}
}

func (m *GraphModel) handleLoaded(res source.Result) tea.Cmd {
	if !m.cfg.loader.Commit(res) {
		return nil
	}
	m.loading = false
	if res.Err != nil {
		m.err = res.Err
		m.cfg.logger.Warn("load failed", "error", res.Err)
		return nil
	}
	m.err = nil
	m.view.Load(res.Graph)
	m.loopIdx = -1

	var cmds []tea.Cmd
	if !m.loaded {
		m.loaded = true
		if m.cfg.loops != nil && (len(m.cfg.loops.nodes) > 0 || m.cfg.loops.index > 0) {
			cmds = append(cmds, m.findLoops())
		}
	}
	cmds = append(cmds, m.startTicking())
	return tea.Batch(cmds...)
}

func (m *GraphModel) waitForChange() tea.Cmd {
	if m.cfg.watcher == nil {
		return nil
	}
	ch := m.cfg.watcher.Changes()
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changedMsg(c)
	}
}

// =============================================================================
// Loops
// =============================================================================

// findLoops resolves the loop list: an explicit --loop sequence, a loops
// file, or the backend.
func (m *GraphModel) findLoops() tea.Cmd {
	flags := m.cfg.loops
	if flags == nil {
		flags = &loopFlags{}
	}
	if len(flags.nodes) > 0 {
		set := graph.LoopSet{Loops: []graph.Loop{{Nodes: flags.nodes}}}
		return func() tea.Msg { return loopsMsg{set: set} }
	}
	m.searching = true
	ctx, src := m.cfg.ctx, m.cfg.loader.Source()
	return func() tea.Msg {
		set, err := flags.loops(ctx, src)
		return loopsMsg{set: set, err: err}
	}
}

func (m *GraphModel) handleLoops(msg loopsMsg) tea.Cmd {
	m.searching = false
	if msg.err != nil {
		m.err = msg.err
		if len(msg.set.Loops) == 0 {
			return nil
		}
	}
	m.loops = msg.set.Loops
	if len(m.loops) == 0 {
		m.err = kgerrors.New(kgerrors.ErrCodeNotFound, "no loops found")
		return nil
	}

	idx := 0
	if m.cfg.loops != nil && m.cfg.loops.index > 0 && m.loopIdx < 0 {
		idx = min(m.cfg.loops.index, len(m.loops)) - 1
	}
	m.selectLoop(idx)
	return m.startTicking()
}

// stepLoop moves the highlight by delta, fetching the list on first use.
func (m *GraphModel) stepLoop(delta int) tea.Cmd {
	if m.loops == nil {
		if m.searching {
			return nil
		}
		return m.findLoops()
	}
	if len(m.loops) == 0 {
		return nil
	}
	idx := m.loopIdx + delta
	if m.loopIdx < 0 && delta < 0 {
		idx = len(m.loops) - 1
	}
	idx = (idx%len(m.loops) + len(m.loops)) % len(m.loops)
	m.selectLoop(idx)
	return m.startTicking()
}

func (m *GraphModel) selectLoop(idx int) {
	m.loopIdx = idx
	m.view.HighlightLoop(m.loops[idx])
}

// =============================================================================
// Input
// =============================================================================

func (m *GraphModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "+", "=":
		m.view.ZoomIn()
	case "-", "_":
		m.view.ZoomOut()
	case "0":
		m.view.ResetView()
	case "f":
		m.view.FitToGraph(m.cfg.padding)
	case "n", "right":
		return m.stepLoop(1)
	case "p", "left":
		return m.stepLoop(-1)
	case "c":
		m.loopIdx = -1
		m.view.ClearHighlights()
	case "r":
		return tea.Batch(m.load(), m.startTicking())
	default:
		return nil
	}
	return m.startTicking()
}

func (m *GraphModel) handleMouse(msg tea.MouseMsg) {
	cols, rows := m.canvas.Size()
	p := term.CellCenter(msg.X, msg.Y)
	inside := msg.X >= 0 && msg.X < cols && msg.Y >= 0 && msg.Y < rows

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inside:
		m.view.Wheel(p, 1)
	case msg.Button == tea.MouseButtonWheelDown && inside:
		m.view.Wheel(p, -1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		m.view.PointerDown(p)
	case msg.Action == tea.MouseActionMotion:
		m.view.PointerMove(p)
		m.hover, _ = m.view.HitTest(p)
	case msg.Action == tea.MouseActionRelease:
		m.view.PointerUp(p)
	}
}

// =============================================================================
// Frame Loop
// =============================================================================

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// startTicking resumes the frame loop if it went idle.
func (m *GraphModel) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}

// =============================================================================
// Status
// =============================================================================

func (m *GraphModel) statusLine() string {
	parts := []string{StyleTitle.Render(appName), StyleDim.Render(m.cfg.loader.Source().Name())}

	if g := m.view.Graph(); g != nil {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes · %d edges", g.Len(), len(g.Edges()))))
	}
	parts = append(parts, StyleDim.Render(fmt.Sprintf("zoom %.2fx", m.view.Transform().K)))

	switch {
	case m.loading:
		parts = append(parts, StyleHighlight.Render("loading..."))
	case m.searching:
		parts = append(parts, StyleHighlight.Render("searching loops..."))
	}
	if m.loopIdx >= 0 && m.loopIdx < len(m.loops) {
		parts = append(parts, StyleHighlight.Render(fmt.Sprintf("loop %d/%d", m.loopIdx+1, len(m.loops)))+
			" "+StyleValue.Render(formatLoop(m.loops[m.loopIdx])))
	}
	if m.hover != "" {
		parts = append(parts, StyleValue.Render(m.hover))
	}
	if m.err != nil {
		parts = append(parts, StyleError.Render(m.err.Error()))
	}
	return strings.Join(parts, StyleDim.Render(" │ "))
}
