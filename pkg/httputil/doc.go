// Package httputil provides the HTTP response cache that sits beneath every
// feed request.
//
// # Overview
//
// [Transport] is an [http.RoundTripper] that answers repeated GET requests
// from a [cache.Cache] instead of the network:
//
//	tr := httputil.NewTransport(nil, cache.NewMemoryCache(), nil, 5*time.Minute)
//	client := &http.Client{Transport: tr}
//
// # Identity
//
// Entries are keyed by method and full URL including the query string, via
// a [cache.Keyer]. Two requests that differ only in query parameter order
// share an entry.
//
// # Staleness
//
// Each entry records when it was stored. An entry older than the staleness
// window is ignored and the next request goes to the network, replacing the
// entry. The backend TTL equals the window, so eviction is purely
// time-based.
//
// Only successful (200) GET responses are stored. Requests carrying
// "Cache-Control: no-cache" skip the lookup but still refresh the entry.
//
// # Concurrency
//
// The transport holds no lock across a network call. Two identical requests
// issued at the same time may both reach the network; only completed
// responses are de-duplicated.
//
// [cache.Cache]: github.com/matzehuels/relfetch/pkg/cache.Cache
// [cache.Keyer]: github.com/matzehuels/relfetch/pkg/cache.Keyer
package httputil
