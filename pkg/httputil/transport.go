package httputil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/relfetch/pkg/cache"
	"github.com/matzehuels/relfetch/pkg/observability"
)

// HeaderFromCache is set on responses served from the cache.
const HeaderFromCache = "X-Relfetch-Cache"

// DefaultMaxStale is the staleness window used when none is configured.
const DefaultMaxStale = 5 * time.Minute

const keyTypeHTTP = "http"

// Transport caches successful GET responses in a [cache.Cache].
type Transport struct {
	base     http.RoundTripper
	cache    cache.Cache
	keyer    cache.Keyer
	maxStale time.Duration
	now      func() time.Time
}

// NewTransport wraps base with a response cache.
//
// A nil base uses [http.DefaultTransport]; a nil keyer uses
// [cache.NewDefaultKeyer]; a nil cache disables caching. maxStale is the
// staleness window; values <= 0 fall back to [DefaultMaxStale].
func NewTransport(base http.RoundTripper, c cache.Cache, keyer cache.Keyer, maxStale time.Duration) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if maxStale <= 0 {
		maxStale = DefaultMaxStale
	}
	return &Transport{
		base:     base,
		cache:    c,
		keyer:    keyer,
		maxStale: maxStale,
		now:      time.Now,
	}
}

// MaxStale returns the staleness window.
func (t *Transport) MaxStale() time.Duration { return t.maxStale }

// entry is the serialized form of a cached response.
type entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"stored_at"`
}

// RoundTrip implements [http.RoundTripper].
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.send(req)
	}

	ctx := req.Context()
	key := t.keyer.HTTPKey(req.Method, req.URL.String())

	if !noCache(req) {
		if resp, ok := t.lookup(req, key); ok {
			observability.Cache().OnCacheHit(ctx, keyTypeHTTP)
			return resp, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeHTTP)

	resp, err := t.send(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	e := entry{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: t.now(),
	}
	if data, err := json.Marshal(e); err == nil {
		if err := t.cache.Set(ctx, key, data, t.maxStale); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeHTTP, len(body))
		}
	}
	return resp, nil
}

func (t *Transport) lookup(req *http.Request, key string) (*http.Response, bool) {
	data, hit, err := t.cache.Get(req.Context(), key)
	if err != nil || !hit {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = t.cache.Delete(req.Context(), key)
		return nil, false
	}
	if t.now().Sub(e.StoredAt) > t.maxStale {
		return nil, false
	}

	header := e.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set(HeaderFromCache, "hit")
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}, true
}

func (t *Transport) send(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	host, path := req.URL.Host, req.URL.Path

	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}

func noCache(req *http.Request) bool {
	return strings.Contains(strings.ToLower(req.Header.Get("Cache-Control")), "no-cache")
}

// FromCache reports whether resp was served by a [Transport] cache hit.
func FromCache(resp *http.Response) bool {
	return resp != nil && resp.Header.Get(HeaderFromCache) != ""
}
