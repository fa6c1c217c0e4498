package channel

// Anchor is a node of the composition tree that can publish or anchor a
// local subscription.
type Anchor interface {
	AnchorID() uint64
	AnchorParent() Anchor
}

// ScopeKind distinguishes local and global subscriptions.
type ScopeKind uint8

const (
	ScopeGlobal ScopeKind = iota
	ScopeLocal
)

// String returns the scope kind name.
func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Scope decides which publishes a subscription receives. It is fixed when
// the subscription is created.
type Scope struct {
	kind   ScopeKind
	anchor Anchor
}

// Global returns a scope receiving every publish.
func Global() Scope {
	return Scope{kind: ScopeGlobal}
}

// Local returns a scope receiving publishes whose origin is anchor or one
// of its descendants.
func Local(anchor Anchor) Scope {
	return Scope{kind: ScopeLocal, anchor: anchor}
}

// Kind returns the scope kind.
func (s Scope) Kind() ScopeKind {
	return s.kind
}

// accepts reports whether a payload published from origin is delivered.
func (s Scope) accepts(origin Anchor) bool {
	if s.kind == ScopeGlobal {
		return true
	}
	if s.anchor == nil {
		return false
	}
	want := s.anchor.AnchorID()
	for a := origin; a != nil; a = a.AnchorParent() {
		if a.AnchorID() == want {
			return true
		}
	}
	return false
}
