package writer

// frameKind mirrors reader.ContainerKind (RDN §4.2.1), but the writer
// keeps its own copy: C5 is independent of C2/C3/C4 per RDN §2, and
// only the shared invariants of package rdnerr/token cross the
// boundary.
type frameKind int

const (
	frameRoot frameKind = iota
	frameObject
	frameArray
	frameTuple
	frameSet
	frameMap
)

func (k frameKind) String() string {
	switch k {
	case frameObject:
		return "Object"
	case frameArray:
		return "Array"
	case frameTuple:
		return "Tuple"
	case frameSet:
		return "Set"
	case frameMap:
		return "Map"
	default:
		return "<root>"
	}
}

// expect names what operation is legal next on a frame, the push-style
// mirror of package reader's pull-style frame.state (RDN §4.4.6).
type expect int

const (
	expectElement       expect = iota // Array/Tuple/Set, or the single root value
	expectPropertyName                // Object: WritePropertyName must come next
	expectPropertyValue               // Object: a value, right after a property name
	expectMapKey                      // Map: any value, in key position
	expectMapValue                    // Map: a value, right after a key
)

// frame is one entry on the writer's container stack.
type frame struct {
	kind frameKind
	exp  expect
	// count is the number of elements (Array/Tuple/Set) or completed
	// pairs (Object/Map) written so far.
	count int
	// openWritten records whether the opening delimiter has already hit
	// the buffer. Object/Array/Tuple write it eagerly at Begin* time
	// since their prefix never depends on emptiness (RDN §4.4.1); Set
	// and Map defer it until the first element is known to exist, since
	// only the empty form needs the explicit "Set{}"/"Map{}" keyword.
	openWritten bool
}

func (f *frame) path() string {
	if f.kind == frameRoot {
		return "$"
	}
	return f.kind.String()
}
