package cache

// ScopedKeyer namespaces another Keyer. The CLI and the API scope keys by
// build version so a release never reads results placed by another:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), buildinfo.Get().Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes every key of inner, or of the default keyer when
// inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ForwardKey(programHash string, opts ForwardKeyOpts) string {
	return k.prefix + k.inner.ForwardKey(programHash, opts)
}

func (k *ScopedKeyer) ReverseKey(gridHash string, opts ReverseKeyOpts) string {
	return k.prefix + k.inner.ReverseKey(gridHash, opts)
}

var _ Keyer = (*ScopedKeyer)(nil)
