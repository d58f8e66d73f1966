package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "graph", []byte(`{"nodes":[]}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "graph")
	if err != nil || !hit || string(data) != `{"nodes":[]}` {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "graph"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "graph"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "graph"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	c.Set(ctx, "k", []byte("v"), 0)
	os.WriteFile(c.path("k"), []byte("not json"), 0644)

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)
	if n := c.Len(); n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Clear should remove entries")
	}
	if n := c.Len(); n != 0 {
		t.Errorf("Len() after Clear = %d", n)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Error("Clear should keep the directory")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	type payload struct {
		Nodes []string `json:"nodes"`
	}
	if err := SetJSON(ctx, c, "p", payload{Nodes: []string{"A", "B"}}, 0); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var got payload
	if err := GetJSON(ctx, c, "p", &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if len(got.Nodes) != 2 || got.Nodes[1] != "B" {
		t.Errorf("got %+v", got)
	}

	if err := GetJSON(ctx, c, "missing", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJSON(missing) = %v, want ErrNotFound", err)
	}
	if err := SetJSON(ctx, c, "bad", make(chan int), 0); err == nil {
		t.Error("SetJSON should fail for unencodable values")
	}
}

func TestDigest(t *testing.T) {
	if digest("hello") != digest("hello") {
		t.Error("digest should be deterministic")
	}
	if digest("hello") == digest("world") {
		t.Error("different inputs should produce different digests")
	}
	if n := len(digest("hello")); n != 64 {
		t.Errorf("digest length = %d, want 64", n)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.RequestKey("/subgraph", url.Values{"center": {"Energy"}, "radius": {"2"}})
	b := k.RequestKey("subgraph", url.Values{"radius": {"2"}, "center": {"Energy"}})
	if a != b {
		t.Error("query order and slashes should not change the key")
	}
	if !strings.HasPrefix(a, "request:subgraph:") {
		t.Errorf("RequestKey prefix unexpected: %s", a)
	}

	c := k.RequestKey("subgraph", url.Values{"center": {"Energy"}, "radius": {"3"}})
	if a == c {
		t.Error("Different queries should produce different keys")
	}
	if k.RequestKey("graph", nil) == k.RequestKey("loops", nil) {
		t.Error("Different endpoints should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "backend:a:")

	key := scoped.RequestKey("graph", nil)
	if key != "backend:a:"+inner.RequestKey("graph", nil) {
		t.Errorf("ScopedKeyer RequestKey unexpected: %s", key)
	}
	other := NewScopedKeyer(inner, "backend:b:")
	if key == other.RequestKey("graph", nil) {
		t.Error("Scopes should not collide")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.RequestKey("graph", nil)
	if key != "prefix:"+NewDefaultKeyer().RequestKey("graph", nil) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestBackendKeyer(t *testing.T) {
	a := BackendKeyer("localhost:5000").RequestKey("graph", nil)
	b := BackendKeyer("explorer.internal:80").RequestKey("graph", nil)
	if a == b {
		t.Error("different backends should not share keys")
	}
	if !strings.HasPrefix(a, "backend:localhost:5000:request:graph:") {
		t.Errorf("BackendKeyer key = %s", a)
	}
}

func TestFileCacheConcurrentSet(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- c.Set(ctx, "request:graph", []byte(fmt.Sprintf(`{"writer":%d}`, i)), 0)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Set: %v", err)
		}
	}

	data, hit, err := c.Get(ctx, "request:graph")
	if err != nil || !hit || !strings.HasPrefix(string(data), `{"writer":`) {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if n := c.Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
	tmps, _ := filepath.Glob(filepath.Join(filepath.Dir(c.path("request:graph")), "*.tmp"))
	if len(tmps) != 0 {
		t.Errorf("temp files left behind: %v", tmps)
	}
}

func TestFileCacheKeepsKey(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	c.Set(ctx, "request:graph:abc", []byte("v"), 0)

	raw, err := os.ReadFile(c.path("request:graph:abc"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"key":"request:graph:abc"`) {
		t.Errorf("entry should record its key: %s", raw)
	}
}

// TestRedisCache runs against a live server when KGVIEW_TEST_REDIS is set,
// for example KGVIEW_TEST_REDIS=localhost:6379.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("KGVIEW_TEST_REDIS")
	if addr == "" {
		t.Skip("KGVIEW_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "kgview-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	defer c.Clear(ctx)

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); !hit || err != nil || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if n, err := c.Clear(ctx); err != nil || n != 1 {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("NewRedisCache should fail without a server")
	}
}
