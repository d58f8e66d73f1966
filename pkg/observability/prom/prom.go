// Package prom implements the observability hooks on Prometheus metrics
// and serves them over HTTP.
//
//	reg := prometheus.NewRegistry()
//	prom.New(reg).Install()
//	srv := prom.NewServer(":9090", reg)
//	go srv.ListenAndServe()
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/kgview/pkg/observability"
)

const namespace = "kgview"

// Hooks records simulation, load, cache and HTTP events as metrics.
type Hooks struct {
	simRuns      *prometheus.CounterVec
	simNodes     prometheus.Gauge
	simTicks     prometheus.Histogram
	simSettle    prometheus.Histogram
	simNonFinite prometheus.Counter
	simReheats   prometheus.Counter

	loads        *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	loadNodes    prometheus.Gauge
	staleLoads   *prometheus.CounterVec

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		simRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sim", Name: "runs_total",
			Help: "Simulations started, by force evaluation mode.",
		}, []string{"mode"}),
		simNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "sim", Name: "nodes",
			Help: "Node count of the most recent simulation.",
		}),
		simTicks: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "sim", Name: "ticks_to_converge",
			Help:    "Ticks until alpha fell below its minimum.",
			Buckets: prometheus.LinearBuckets(50, 50, 10),
		}),
		simSettle: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "sim", Name: "settle_seconds",
			Help:    "Wall time until the simulation converged.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
		}),
		simNonFinite: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sim", Name: "nonfinite_resets_total",
			Help: "Nodes re-placed after their coordinates became non-finite.",
		}),
		simReheats: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sim", Name: "reheats_total",
			Help: "External reheats, mostly drag starts.",
		}),

		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "load", Name: "total",
			Help: "Graph loads by source and result.",
		}, []string{"source", "result"}),
		loadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "load", Name: "duration_seconds",
			Help:    "Graph fetch and ingest time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		loadNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "load", Name: "nodes",
			Help: "Node count of the most recent successful load.",
		}),
		staleLoads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "load", Name: "stale_total",
			Help: "Loads discarded because a newer load was issued.",
		}, []string{"source"}),

		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "operations_total",
			Help: "Cache operations by endpoint and outcome.",
		}, []string{"endpoint", "op"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "written_bytes_total",
			Help: "Bytes written to the cache.",
		}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Backend responses by path and status code.",
		}, []string{"path", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Backend request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "errors_total",
			Help: "Backend requests that failed without a response.",
		}, []string{"path"}),
	}
}

// Install registers h as the global hooks for every category.
func (h *Hooks) Install() {
	observability.SetSimulationHooks(h)
	observability.SetLoadHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *Hooks) OnStart(nodeCount, _ int, barnesHut bool) {
	mode := "pairwise"
	if barnesHut {
		mode = "barnes_hut"
	}
	h.simRuns.WithLabelValues(mode).Inc()
	h.simNodes.Set(float64(nodeCount))
}

func (h *Hooks) OnConverged(ticks int, d time.Duration) {
	h.simTicks.Observe(float64(ticks))
	h.simSettle.Observe(d.Seconds())
}

func (h *Hooks) OnNonFinite(string) { h.simNonFinite.Inc() }

func (h *Hooks) OnReheat(float64) { h.simReheats.Inc() }

func (h *Hooks) OnLoadStart(context.Context, string) {}

func (h *Hooks) OnLoadComplete(_ context.Context, source string, nodeCount int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		h.loadNodes.Set(float64(nodeCount))
	}
	h.loads.WithLabelValues(source, result).Inc()
	h.loadDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (h *Hooks) OnStale(_ context.Context, source string) {
	h.staleLoads.WithLabelValues(source).Inc()
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, _, _, path string, statusCode int, d time.Duration) {
	h.httpRequests.WithLabelValues(path, strconv.Itoa(statusCode)).Inc()
	h.httpDuration.WithLabelValues(path).Observe(d.Seconds())
}

func (h *Hooks) OnError(_ context.Context, _, _, path string, _ error) {
	h.httpErrors.WithLabelValues(path).Inc()
}

// Router serves /metrics from g and a /healthz liveness probe.
func Router(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return r
}

// NewServer returns an HTTP server for Router on addr.
func NewServer(addr string, g prometheus.Gatherer) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           Router(g),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

var (
	_ observability.SimulationHooks = (*Hooks)(nil)
	_ observability.LoadHooks       = (*Hooks)(nil)
	_ observability.CacheHooks      = (*Hooks)(nil)
	_ observability.HTTPHooks       = (*Hooks)(nil)
)
