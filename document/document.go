package document

import "github.com/ShtibsDev/rdn/reader"

// Document is a parsed RDN value: a flat node table plus the source
// buffer its payload spans reference (RDN §3.2/§4.3).
type Document struct {
	buf   []byte
	nodes []Node
}

// ParseDefault wraps Parse(src, reader.Options{}), the common case of
// parsing a single well-formed document with default limits (RDN §3.4:
// exactly one top-level value).
func ParseDefault(src []byte) (*Document, error) {
	return Parse(src, reader.Options{})
}

// Root returns the Element view of the document's single top-level
// value.
func (d *Document) Root() Element {
	return Element{doc: d, idx: 0}
}

// NodeCount returns the total number of nodes in the document's flat
// table, mainly useful for diagnostics and tests.
func (d *Document) NodeCount() int { return len(d.nodes) }

// Nodes returns a copy of the flat node table, for diagnostic dumps
// (e.g. rdnfmt --debug-dump). The copy shares payload subslices with the
// document buffer but mutating it cannot corrupt the document itself.
func (d *Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}
