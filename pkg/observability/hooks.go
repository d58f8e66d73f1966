// Package observability defines instrumentation hooks for the simulation,
// graph loading, the response cache and backend HTTP calls.
//
// Libraries call the registered hooks; only main registers them, so the
// engine packages never depend on a metrics backend. The defaults are
// no-ops. Package prom implements every hook on Prometheus:
//
//	observability.Load().OnLoadStart(ctx, "http")
//	// fetch and ingest
//	observability.Load().OnLoadComplete(ctx, "http", g.Len(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from the force simulation. The simulation
// is frame-driven and has no context, so these methods take none.
type SimulationHooks interface {
	// OnStart records a new simulation over nodeCount nodes.
	OnStart(nodeCount, linkCount int, barnesHut bool)

	// OnConverged records that alpha fell below alphaMin after ticks ticks.
	OnConverged(ticks int, duration time.Duration)

	// OnNonFinite records a node reset after its position or velocity
	// became NaN or infinite.
	OnNonFinite(nodeID string)

	// OnReheat records an external reheat, typically a drag start.
	OnReheat(target float64)
}

// =============================================================================
// Load Hooks
// =============================================================================

// LoadHooks receives events from graph loading.
type LoadHooks interface {
	// OnLoadStart records the start of a graph fetch.
	OnLoadStart(ctx context.Context, source string)

	// OnLoadComplete records the end of a fetch, successful or not.
	OnLoadComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	// OnStale records a result discarded because a newer load was issued.
	OnStale(ctx context.Context, source string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnStart(int, int, bool)         {}
func (NoopSimulationHooks) OnConverged(int, time.Duration) {}
func (NoopSimulationHooks) OnNonFinite(string)             {}
func (NoopSimulationHooks) OnReheat(float64)               {}

// NoopLoadHooks is a no-op implementation of LoadHooks.
type NoopLoadHooks struct{}

func (NoopLoadHooks) OnLoadStart(context.Context, string)                               {}
func (NoopLoadHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopLoadHooks) OnStale(context.Context, string)                                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// hookSet is swapped as a whole so readers never see a partial update.
type hookSet struct {
	sim   SimulationHooks
	load  LoadHooks
	cache CacheHooks
	http  HTTPHooks
}

var (
	current atomic.Pointer[hookSet]
	setMu   sync.Mutex
)

func init() { Reset() }

func update(fn func(*hookSet)) {
	setMu.Lock()
	defer setMu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetSimulationHooks registers simulation hooks. Nil is ignored.
// Simulations capture the hooks when they are created.
func SetSimulationHooks(h SimulationHooks) {
	if h != nil {
		update(func(s *hookSet) { s.sim = h })
	}
}

// SetLoadHooks registers load hooks. Nil is ignored.
func SetLoadHooks(h LoadHooks) {
	if h != nil {
		update(func(s *hookSet) { s.load = h })
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

func Simulation() SimulationHooks { return current.Load().sim }
func Load() LoadHooks             { return current.Load().load }
func Cache() CacheHooks           { return current.Load().cache }
func HTTP() HTTPHooks             { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	setMu.Lock()
	defer setMu.Unlock()
	current.Store(&hookSet{
		sim:   NoopSimulationHooks{},
		load:  NoopLoadHooks{},
		cache: NoopCacheHooks{},
		http:  NoopHTTPHooks{},
	})
}
