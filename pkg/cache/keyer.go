package cache

import (
	"net/url"
	"strings"
)

// Keyer derives cache keys from request identity.
type Keyer interface {
	// HTTPKey returns the key for a request with the given method and URL.
	// The URL's query is part of the identity.
	HTTPKey(method, rawURL string) string
}

// DefaultKeyer hashes method and normalized URL.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<sha256(method, url)>". Query parameters are sorted
// so that equivalent URLs share an entry.
func (DefaultKeyer) HTTPKey(method, rawURL string) string {
	return hashKey("http", strings.ToUpper(method), normalizeURL(rawURL))
}

func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}
	return u.String()
}
