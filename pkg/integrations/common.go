package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/relfetch/pkg/cache"
	"github.com/matzehuels/relfetch/pkg/httputil"
)

const httpTimeout = 30 * time.Second

// NewHTTPClient creates an HTTP client with a standard timeout for feed requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCachedHTTPClient creates an HTTP client whose GET responses are cached
// in c for at most maxStale. keyer may be nil.
func NewCachedHTTPClient(c cache.Cache, keyer cache.Keyer, maxStale time.Duration) *http.Client {
	return &http.Client{
		Timeout:   httpTimeout,
		Transport: httputil.NewTransport(nil, c, keyer, maxStale),
	}
}

// PathEscape percent-encodes a string for use as a single path segment.
func PathEscape(s string) string { return url.PathEscape(s) }

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}
