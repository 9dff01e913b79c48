package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The server uses it to
// keep several deployments apart inside one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "diagramkit:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ValidationKey returns the prefixed validation key.
func (k *ScopedKeyer) ValidationKey(diagramHash string) string {
	return k.prefix + k.inner.ValidationKey(diagramHash)
}

// LayoutKey returns the prefixed layout key.
func (k *ScopedKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(diagramHash, opts)
}
