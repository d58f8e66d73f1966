package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgview/pkg/buildinfo"
	"github.com/matzehuels/kgview/pkg/cache"
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/httputil"
	"github.com/matzehuels/kgview/pkg/observability"
)

// DefaultBaseURL is the explorer backend's API root.
const DefaultBaseURL = "http://localhost:5000/api"

const (
	httpTimeout   = 10 * time.Second
	retryAttempts = 3
	retryDelay    = 500 * time.Millisecond
)

// HTTPClient talks to the knowledge-graph backend.
//
// Successful graph responses are written to the cache. When the backend
// cannot be reached the last cached response for the same request is
// served instead and a warning is logged.
type HTTPClient struct {
	base     *url.URL
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithCache stores graph responses in c for offline fallback. A zero ttl
// keeps entries until they are cleared.
func WithCache(c cache.Cache, ttl time.Duration) ClientOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.cache, h.ttl = c, ttl
		}
	}
}

// WithKeyer overrides the cache keyer.
func WithKeyer(k cache.Keyer) ClientOption {
	return func(h *HTTPClient) {
		if k != nil {
			h.keyer = k
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.http = c
		}
	}
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(h *HTTPClient) { h.attempts, h.delay = attempts, delay }
}

// WithClientLogger sets the logger. The default is log.Default().
func WithClientLogger(l *log.Logger) ClientOption {
	return func(h *HTTPClient) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHTTPClient returns a client for the API rooted at baseURL, for example
// "http://localhost:5000/api". An empty baseURL uses DefaultBaseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := kgerrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	base, _ := url.Parse(strings.TrimRight(baseURL, "/"))
	h := &HTTPClient{
		base:     base,
		http:     &http.Client{Timeout: httpTimeout},
		cache:    cache.NewNullCache(),
		keyer:    cache.BackendKeyer(base.Host),
		attempts: retryAttempts,
		delay:    retryDelay,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Name implements Source.
func (h *HTTPClient) Name() string { return "http" }

// BaseURL returns the API root.
func (h *HTTPClient) BaseURL() string { return h.base.String() }

// Fetch implements Source. A full query hits /graph, anything else
// /subgraph.
func (h *HTTPClient) Fetch(ctx context.Context, q Query) (graph.Payload, error) {
	if q.Full() && len(q.Relations) == 0 {
		return h.Graph(ctx)
	}
	return h.Subgraph(ctx, q)
}

// Graph fetches the full graph.
func (h *HTTPClient) Graph(ctx context.Context) (graph.Payload, error) {
	var p graph.Payload
	err := h.cachedGet(ctx, "graph", nil, &p)
	return p, err
}

// Subgraph fetches the neighborhood described by q.
func (h *HTTPClient) Subgraph(ctx context.Context, q Query) (graph.Payload, error) {
	if !q.Full() {
		q = q.Normalize()
	}
	if err := q.Validate(); err != nil {
		return graph.Payload{}, err
	}
	var p graph.Payload
	err := h.cachedGet(ctx, "subgraph", q.Values(), &p)
	return p, err
}

// Loops asks the backend for directed cycles. A non-empty LoopSet.Error
// from the backend is returned as an INVALID_QUERY error alongside
// whatever loops were found.
func (h *HTTPClient) Loops(ctx context.Context, q LoopQuery) (graph.LoopSet, error) {
	var raw json.RawMessage
	if err := h.cachedGet(ctx, "loops", q.Values(), &raw); err != nil {
		return graph.LoopSet{}, err
	}
	set, err := graph.UnmarshalLoops(raw)
	if err != nil {
		return graph.LoopSet{}, kgerrors.Wrap(kgerrors.ErrCodeInvalidPayload, err, "loops response")
	}
	if set.Error != "" {
		return set, kgerrors.New(kgerrors.ErrCodeInvalidQuery, "%s", set.Error)
	}
	return set, nil
}

// Stats fetches the backend graph summary. Stats are never cached.
func (h *HTTPClient) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := h.get(ctx, "stats", nil, &s)
	return s, err
}

// cachedGet performs get and keeps the raw response in the cache. On a
// transient failure it falls back to the cached response.
func (h *HTTPClient) cachedGet(ctx context.Context, endpoint string, query url.Values, v any) error {
	key := h.keyer.RequestKey(endpoint, query)

	var body json.RawMessage
	err := h.get(ctx, endpoint, query, &body)
	if err == nil {
		if setErr := h.cache.Set(ctx, key, body, h.ttl); setErr != nil {
			h.logger.Warn("cache write failed", "endpoint", endpoint, "error", setErr)
		} else {
			observability.Cache().OnCacheSet(ctx, endpoint, len(body))
		}
		return decode(endpoint, body, v)
	}
	if !transient(ctx, err) {
		return err
	}

	data, ok, cerr := h.cache.Get(ctx, key)
	if cerr != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, endpoint)
		return err
	}
	observability.Cache().OnCacheHit(ctx, endpoint)
	h.logger.Warn("backend unreachable, serving cached response", "endpoint", endpoint, "error", err)
	return decode(endpoint, data, v)
}

func decode(endpoint string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return kgerrors.Wrap(kgerrors.ErrCodeInvalidPayload, err, "decode %s response", endpoint)
	}
	return nil
}

// get performs a GET with retry and decodes the JSON body into v.
func (h *HTTPClient) get(ctx context.Context, endpoint string, query url.Values, v any) error {
	u := *h.base
	u.Path = u.Path + "/" + endpoint
	u.RawQuery = query.Encode()

	return httputil.Retry(ctx, h.attempts, h.delay, func() error {
		return h.do(ctx, &u, v)
	})
}

func (h *HTTPClient) do(ctx context.Context, u *url.URL, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return kgerrors.Wrap(kgerrors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := h.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &httputil.RetryableError{Err: kgerrors.Wrap(kgerrors.ErrCodeNetwork, err, "GET %s", u.Path)}
	}
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))
	h.logger.Debug("backend response", "path", u.Path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if err := httputil.CheckStatus(resp); err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return kgerrors.Wrap(kgerrors.ErrCodeInvalidPayload, err, "decode %s", u.Path)
	}
	return nil
}

// transient reports whether err means the backend could not answer, as
// opposed to answering with a client error.
func transient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.As(err, new(*httputil.RetryableError)) {
		return true
	}
	return kgerrors.Temporary(err)
}

var (
	_ Source     = (*HTTPClient)(nil)
	_ LoopFinder = (*HTTPClient)(nil)
)

// String describes the client for logs.
func (h *HTTPClient) String() string { return fmt.Sprintf("http(%s)", h.base) }
