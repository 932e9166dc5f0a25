package document

import (
	"iter"

	"github.com/ShtibsDev/rdn/rdnerr"
)

// Element is a non-owning cursor into a Document's node table (RDN
// §4.3/§3.2). It is cheap to copy and safe to hold past the builder
// that produced the Document, since it only ever reads the Document's
// immutable node slice and buffer.
type Element struct {
	doc *Document
	idx int
}

func (e Element) node() Node { return e.doc.nodes[e.idx] }

// Kind returns the element's tagged value kind.
func (e Element) Kind() Kind { return e.node().Kind }

// Raw returns the element's raw (still-escaped/undecoded) source span.
// It is nil for containers.
func (e Element) Raw() []byte { return e.node().Payload }

func (e Element) invalid(format string, args ...any) error {
	return rdnerr.New(rdnerr.InvalidValue, 0, 0, 0, "", format, args...)
}

// Len returns the element's direct child count: the element count for
// Array/Tuple/Set, or twice the pair count for Object/Map (RDN §3.2
// invariant 1). It is meaningless for scalar kinds.
func (e Element) Len() int { return e.node().ChildCount }

// PairCount returns the number of key/value (Object) or key/value
// (Map) pairs. It panics if Kind is not Object or Map; callers are
// expected to check Kind first.
func (e Element) PairCount() int {
	k := e.Kind()
	if k != Object && k != Map {
		panic("document: PairCount called on a non-Object/Map Element")
	}
	return e.node().ChildCount / 2
}

// firstChild returns the node-table index of e's first direct child, or
// -1 if e has none.
func (e Element) firstChild() int {
	if e.node().ChildCount == 0 {
		return -1
	}
	return e.idx + 1
}

// At returns the i-th direct child of an Array, Tuple, or Set element
// (0-indexed), walking sibling links from the first child; this is
// amortized O(1) per step when iterating in order, as RDN §4.3
// describes, not true random access from scratch.
func (e Element) At(i int) (Element, bool) {
	switch e.Kind() {
	case Array, Tuple, Set:
	default:
		return Element{}, false
	}
	if i < 0 || i >= e.Len() {
		return Element{}, false
	}
	idx := e.firstChild()
	for j := 0; j < i; j++ {
		idx = e.doc.nodes[idx].NextSibling
	}
	return Element{doc: e.doc, idx: idx}, true
}

// Elements iterates the direct children of an Array, Tuple, or Set
// element in source order.
func (e Element) Elements() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		switch e.Kind() {
		case Array, Tuple, Set:
		default:
			return
		}
		idx := e.firstChild()
		for n := e.Len(); n > 0 && idx >= 0; n-- {
			child := Element{doc: e.doc, idx: idx}
			if !yield(child) {
				return
			}
			idx = e.doc.nodes[idx].NextSibling
		}
	}
}

// Property looks up an Object element's value by decoded property
// name, comparing raw bytes directly when name needs no escaping and
// falling back to a decoded comparison otherwise (mirrors
// reader.PropertyNameEquals).
func (e Element) Property(name string) (Element, bool) {
	if e.Kind() != Object {
		return Element{}, false
	}
	keyIdx := e.firstChild()
	for pairs := e.PairCount(); pairs > 0 && keyIdx >= 0; pairs-- {
		keyNode := e.doc.nodes[keyIdx]
		valueIdx := keyNode.NextSibling
		if propertyNameEquals(keyNode, name) {
			return Element{doc: e.doc, idx: valueIdx}, true
		}
		keyIdx = e.doc.nodes[valueIdx].NextSibling
	}
	return Element{}, false
}

// Properties iterates an Object element's (decoded name, value) pairs
// in source order.
func (e Element) Properties() iter.Seq2[string, Element] {
	return func(yield func(string, Element) bool) {
		if e.Kind() != Object {
			return
		}
		keyIdx := e.firstChild()
		for pairs := e.PairCount(); pairs > 0 && keyIdx >= 0; pairs-- {
			keyNode := e.doc.nodes[keyIdx]
			valueIdx := keyNode.NextSibling
			name, err := decodeString(keyNode)
			if err != nil {
				return
			}
			if !yield(name, Element{doc: e.doc, idx: valueIdx}) {
				return
			}
			keyIdx = e.doc.nodes[valueIdx].NextSibling
		}
	}
}

// Pairs iterates a Map element's (key, value) Element pairs in source
// order. Unlike Object, a Map key may be any RDN value, so pairs are
// yielded as Elements rather than decoded strings.
func (e Element) Pairs() iter.Seq2[Element, Element] {
	return func(yield func(Element, Element) bool) {
		if e.Kind() != Map {
			return
		}
		keyIdx := e.firstChild()
		for pairs := e.PairCount(); pairs > 0 && keyIdx >= 0; pairs-- {
			valueIdx := e.doc.nodes[keyIdx].NextSibling
			key := Element{doc: e.doc, idx: keyIdx}
			value := Element{doc: e.doc, idx: valueIdx}
			if !yield(key, value) {
				return
			}
			keyIdx = e.doc.nodes[valueIdx].NextSibling
		}
	}
}

func propertyNameEquals(keyNode Node, name string) bool {
	if !needsEscaping(name) && string(keyNode.Payload) == name {
		return true
	}
	decoded, err := decodeString(keyNode)
	return err == nil && decoded == name
}

func needsEscaping(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' || c < 0x20 {
			return true
		}
	}
	return false
}
