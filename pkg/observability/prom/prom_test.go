package prom

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/kgview/pkg/observability"
)

func TestHooksRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	ctx := context.Background()

	h.OnStart(600, 900, true)
	h.OnStart(10, 12, false)
	h.OnConverged(300, 2*time.Second)
	h.OnNonFinite("A")
	h.OnReheat(0.3)

	h.OnLoadComplete(ctx, "http", 42, time.Second, nil)
	h.OnLoadComplete(ctx, "http", 0, time.Second, errors.New("down"))
	h.OnStale(ctx, "http")

	h.OnCacheHit(ctx, "graph")
	h.OnCacheMiss(ctx, "graph")
	h.OnCacheSet(ctx, "graph", 128)

	h.OnResponse(ctx, "GET", "localhost:5000", "/api/graph", 200, 10*time.Millisecond)
	h.OnError(ctx, "GET", "localhost:5000", "/api/graph", errors.New("refused"))

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"barnes hut runs", testutil.ToFloat64(h.simRuns.WithLabelValues("barnes_hut")), 1},
		{"pairwise runs", testutil.ToFloat64(h.simRuns.WithLabelValues("pairwise")), 1},
		{"sim nodes", testutil.ToFloat64(h.simNodes), 10},
		{"nonfinite", testutil.ToFloat64(h.simNonFinite), 1},
		{"reheats", testutil.ToFloat64(h.simReheats), 1},
		{"ok loads", testutil.ToFloat64(h.loads.WithLabelValues("http", "ok")), 1},
		{"failed loads", testutil.ToFloat64(h.loads.WithLabelValues("http", "error")), 1},
		{"load nodes", testutil.ToFloat64(h.loadNodes), 42},
		{"stale", testutil.ToFloat64(h.staleLoads.WithLabelValues("http")), 1},
		{"cache hits", testutil.ToFloat64(h.cacheOps.WithLabelValues("graph", "hit")), 1},
		{"cache bytes", testutil.ToFloat64(h.cacheBytes), 128},
		{"responses", testutil.ToFloat64(h.httpRequests.WithLabelValues("/api/graph", "200")), 1},
		{"http errors", testutil.ToFloat64(h.httpErrors.WithLabelValues("/api/graph")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	h := New(prometheus.NewRegistry())
	h.Install()

	if observability.Load() != observability.LoadHooks(h) {
		t.Error("Install should register load hooks")
	}
	observability.Simulation().OnReheat(0.3)
	if got := testutil.ToFloat64(h.simReheats); got != 1 {
		t.Errorf("reheats = %v, want 1", got)
	}
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	h.OnReheat(0.3)

	srv := httptest.NewServer(Router(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "kgview_sim_reheats_total 1") {
		t.Errorf("metrics output missing reheat counter:\n%s", body)
	}

	resp, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}
}
