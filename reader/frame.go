package reader

import "github.com/ShtibsDev/rdn/token"

// state tracks where a single open container is in its grammar, per
// RDN §4.2.1 (container stack) / §4.2.3 (property-name position).
type state int

const (
	stNeedFirst          state = iota // about to scan the first element, or detect an empty container
	stNeedNextAfterComma              // a ',' was just consumed; scan the next element or detect a trailing comma
	stNeedColon                       // Object only: PropertyName was just emitted, ':' must follow
	stNeedArrow                       // Map only: the key was just emitted, '=>' must follow
	stNeedMapValue                    // Map only: '=>' was just emitted, the value follows
	stNeedSeparatorOrClose             // an element (or k/v pair) was just completed
	stRootComplete                     // the single top-level value was just completed
)

// frame is one entry on the reader's container stack (RDN §4.2.1).
// The root "container" (the single top-level value RDN §3.4
// requires) is modeled as a frame too, with kind rootKind, so the value-
// scanning code path does not need a special case for it.
type frame struct {
	kind       ContainerKind
	state      state
	childCount int
}

// closerFor returns the token.Kind that legally closes a container of
// the given kind. rootKind has no closer; it is never checked against
// (stRootComplete handles root completion instead).
func closerFor(kind ContainerKind) token.Kind {
	switch kind {
	case Object, Set, Map:
		return token.RBrace
	case Array:
		return token.RBracket
	case Tuple:
		return token.RParen
	default:
		return token.EOF // never matches a real closer
	}
}
