// Package integrations provides HTTP clients for release feed APIs.
//
// # Overview
//
// The [Client] type holds the plumbing shared by every feed client: default
// headers, request construction, and mapping failures onto relfetch error
// codes:
//
//   - transport failures and non-200/404 statuses: NETWORK_ERROR
//   - 404 responses: NOT_FOUND
//   - undecodable bodies: MALFORMED_PAYLOAD
//
// Feed-specific clients live in subpackages:
//
//   - [github]: GitHub releases and commits
//
// # Caching
//
// Response caching is a property of the *http.Client passed to [NewClient].
// [NewCachedHTTPClient] wires an [httputil.Transport] so that identical
// requests inside the staleness window never reach the network:
//
//	httpClient := integrations.NewCachedHTTPClient(cache.NewMemoryCache(), nil, 5*time.Minute)
//	client := integrations.NewClient(httpClient, nil, logger)
//
// [github]: github.com/matzehuels/relfetch/pkg/integrations/github
// [httputil.Transport]: github.com/matzehuels/relfetch/pkg/httputil.Transport
package integrations
