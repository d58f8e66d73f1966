package source

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/observability"
)

// ErrStale is returned for a load that was superseded by a newer one
// before it finished.
var ErrStale = errors.New("superseded by a newer load")

// Ticket identifies one load. Tickets are ordered by issue time: only the
// most recently issued ticket may commit.
type Ticket struct {
	ID  string // request id for logs
	gen uint64
}

// Result is the outcome of a load. Graph is nil when Err is set.
type Result struct {
	Ticket  Ticket
	Query   Query
	Graph   *graph.Graph
	Report  graph.IngestReport
	Elapsed time.Duration
	Err     error
}

// Loader fetches graphs from a Source with last-issued-wins ordering.
//
// Loads may run concurrently on any goroutine. Each Load takes a fresh
// ticket; when two loads overlap, only the one issued last can be
// committed, whichever finishes first. Commit is meant to be called from
// the single goroutine that owns the view.
type Loader struct {
	src    Source
	gen    atomic.Uint64
	hooks  observability.LoadHooks
	logger *log.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithLoadHooks overrides the globally registered load hooks.
func WithLoadHooks(h observability.LoadHooks) LoaderOption {
	return func(ld *Loader) {
		if h != nil {
			ld.hooks = h
		}
	}
}

// NewLoader returns a loader over src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		src:    src,
		hooks:  observability.Load(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the underlying source.
func (l *Loader) Source() Source { return l.src }

// Issue takes a new ticket, invalidating every earlier one.
func (l *Loader) Issue() Ticket {
	return Ticket{ID: uuid.NewString(), gen: l.gen.Add(1)}
}

// Current reports whether t is the most recently issued ticket.
func (l *Loader) Current(t Ticket) bool {
	return t.gen != 0 && t.gen == l.gen.Load()
}

// Load issues a ticket and fetches q. It blocks until the fetch finishes.
func (l *Loader) Load(ctx context.Context, q Query) Result {
	return l.LoadTicket(ctx, l.Issue(), q)
}

// LoadTicket fetches q under a ticket issued earlier, which lets the
// caller record the ticket before the fetch starts. A ticket that went
// stale during the fetch yields ErrStale without ingesting.
func (l *Loader) LoadTicket(ctx context.Context, t Ticket, q Query) Result {
	name := l.src.Name()
	logger := l.logger.With("source", name, "request", t.ID)
	logger.Debug("load started", "center", q.Center, "radius", q.Radius)
	l.hooks.OnLoadStart(ctx, name)

	start := time.Now()
	p, err := l.src.Fetch(ctx, q)
	res := Result{Ticket: t, Query: q, Elapsed: time.Since(start)}

	switch {
	case err != nil:
		res.Err = fmt.Errorf("load %s: %w", name, err)
		logger.Debug("load failed", "error", err)
	case !l.Current(t):
		res.Err = fmt.Errorf("load %s %s: %w", name, t.ID, ErrStale)
	default:
		res.Graph, res.Report = graph.Ingest(p)
		logger.Debug("load finished",
			"nodes", res.Graph.Len(), "edges", len(res.Graph.Edges()), "elapsed", res.Elapsed)
		if !res.Report.Clean() {
			logger.Warn("payload entries dropped",
				"duplicates", res.Report.DuplicateNodes,
				"empty_ids", res.Report.EmptyIDs,
				"dangling_links", res.Report.DroppedLinks)
		}
	}

	nodes := 0
	if res.Graph != nil {
		nodes = res.Graph.Len()
	}
	l.hooks.OnLoadComplete(ctx, name, nodes, res.Elapsed, res.Err)
	return res
}

// Commit reports whether r may be applied: its ticket must be the latest
// issued. Stale results are logged and counted, and must be dropped.
func (l *Loader) Commit(r Result) bool {
	if l.Current(r.Ticket) && !errors.Is(r.Err, ErrStale) {
		return true
	}
	l.logger.Debug("discarding stale load", "source", l.src.Name(), "request", r.Ticket.ID)
	l.hooks.OnStale(context.Background(), l.src.Name())
	return false
}
