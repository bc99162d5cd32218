package cache

// ScopedKeyer prefixes every key of an inner [Keyer], so several deployments
// can share one Redis database.
//
//	k := cache.NewScopedKeyer(nil, "selfmap:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (a [DefaultKeyer] when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements [Keyer].
func (k *ScopedKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(dataHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// DrillKey implements [Keyer].
func (k *ScopedKeyer) DrillKey(category string, seed uint64) string {
	return k.prefix + k.inner.DrillKey(category, seed)
}
