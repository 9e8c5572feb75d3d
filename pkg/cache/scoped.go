package cache

// ScopedKeyer wraps a Keyer with a prefix. Clients talking to different
// feeds through one shared backend (such as Redis) each get their own
// namespace.
//
// Example usage:
//
//	public := NewScopedKeyer(NewDefaultKeyer(), "api.github.com:")
//	mirror := NewScopedKeyer(NewDefaultKeyer(), "ghe.example.com:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(method, rawURL string) string {
	return k.prefix + k.inner.HTTPKey(method, rawURL)
}
