package cache

// ScopedKeyer wraps a Keyer with a prefix. Deployments sharing one Redis
// set a namespace per team or environment so their reports stay apart.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
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

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(designHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(designHash, opts)
}

// TopologyKey generates a prefixed topology key.
func (k *ScopedKeyer) TopologyKey(designHash, format string) string {
	return k.prefix + k.inner.TopologyKey(designHash, format)
}
