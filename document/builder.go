package document

import (
	"github.com/ShtibsDev/rdn/reader"
)

// Parse drives a reader.Reader once over src and builds the flat node
// table described by RDN §4.3: "the document builder (C3) drives the
// structural reader (C2) in a single pass, appending one Node per
// value/key/container boundary". The returned Document owns no copy of
// src; every Node's Payload is a subslice of it.
func Parse(src []byte, opts reader.Options) (*Document, error) {
	r := reader.New(src, opts)
	b := &builder{r: r}
	if err := b.run(); err != nil {
		return nil, err
	}
	return &Document{buf: src, nodes: b.nodes}, nil
}

type openFrame struct {
	nodeIndex int
	children  int
}

type builder struct {
	r      *reader.Reader
	nodes  []Node
	frames []openFrame
}

func (b *builder) run() error {
	for b.r.Read() {
		k := b.r.Kind()
		switch {
		case k.IsContainerStart():
			b.openContainer(containerKindFor(k))
		case k.IsContainerEnd():
			b.closeContainer()
		case k == reader.PropertyName:
			b.addLeaf(String, false)
		case k == reader.MapArrow:
			// Not part of the flat value model; purely a separator.
		default:
			b.addLeaf(leafKindFor(k), k == reader.Binary)
		}
	}
	return b.r.Err()
}

func (b *builder) openContainer(kind Kind) {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{Kind: kind})
	b.countAsChild()
	b.frames = append(b.frames, openFrame{nodeIndex: idx})
}

func (b *builder) closeContainer() {
	f := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	b.nodes[f.nodeIndex].ChildCount = f.children
	b.nodes[f.nodeIndex].NextSibling = len(b.nodes)
}

func (b *builder) addLeaf(kind Kind, isBinaryHex bool) {
	b.nodes = append(b.nodes, Node{
		Kind:        kind,
		Payload:     b.r.Raw(),
		NextSibling: len(b.nodes) + 1,
		BinaryIsHex: isBinaryHex,
	})
	b.countAsChild()
}

// countAsChild increments the enclosing open frame's direct-child
// counter, if there is one (the single root value has none).
func (b *builder) countAsChild() {
	if len(b.frames) == 0 {
		return
	}
	b.frames[len(b.frames)-1].children++
}

func containerKindFor(k reader.Kind) Kind {
	switch k {
	case reader.StartObject:
		return Object
	case reader.StartArray:
		return Array
	case reader.StartTuple:
		return Tuple
	case reader.StartSet:
		return Set
	case reader.StartMap:
		return Map
	default:
		panic("document: containerKindFor called on a non-container-start Kind")
	}
}

func leafKindFor(k reader.Kind) Kind {
	switch k {
	case reader.String:
		return String
	case reader.Number:
		return Number
	case reader.BigInteger:
		return BigInteger
	case reader.True:
		return True
	case reader.False:
		return False
	case reader.Null:
		return Null
	case reader.DateTime:
		return DateTime
	case reader.TimeOnly:
		return TimeOnly
	case reader.Duration:
		return Duration
	case reader.Binary:
		return Binary
	case reader.RegExp:
		return RegExp
	default:
		panic("document: leafKindFor called on a non-leaf reader.Kind")
	}
}
