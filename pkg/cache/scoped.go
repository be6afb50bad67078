package cache

// ScopedKeyer prefixes every key from an inner Keyer. Servers sharing one
// Redis instance use it to keep their entries apart:
//
//	keyer := cache.NewScopedKeyer(nil, "archgraph:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix. A nil inner keyer
// means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ExportKey implements Keyer.
func (k *ScopedKeyer) ExportKey(graphHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(graphHash, opts)
}
