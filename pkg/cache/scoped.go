package cache

// ScopedKeyer prefixes every key of an inner Keyer. The API server scopes
// keys per client so one tenant's artifacts never answer another's.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "client:ci-1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) GuessKey(opts GuessKeyOpts) string {
	return k.prefix + k.inner.GuessKey(opts)
}
