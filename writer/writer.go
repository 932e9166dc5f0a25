// Package writer implements the structural writer (component C5) of
// the RDN codec: a push-style token emitter mirroring package reader's
// grammar, with its own depth/container stack and the container-prefix
// policy of RDN §4.4.1. It does not depend on package reader or
// document; it uses only package rdnerr (faults), package rdntime
// (temporal formatting) and package token (binary encoding helpers,
// shared by both directions per RDN §2's "only C6 is shared").
package writer

import (
	"bufio"
	"io"
	"math/big"
	"time"

	"github.com/ShtibsDev/rdn/rdnerr"
	"github.com/ShtibsDev/rdn/rdntime"
	"github.com/ShtibsDev/rdn/token"
)

// Writer emits RDN tokens to an underlying io.Writer, validating
// structural legality and nesting depth as it goes (RDN §4.4.6) unless
// Options.SkipValidation is set.
type Writer struct {
	out  *bufio.Writer
	opts Options

	stack []*frame

	rootWritten bool
	err         error
}

// New creates a Writer over dst.
func New(dst io.Writer, opts Options) *Writer {
	return &Writer{
		out:   bufio.NewWriter(dst),
		opts:  opts,
		stack: []*frame{{kind: frameRoot, exp: expectElement}},
	}
}

// Depth returns the current container nesting depth (0 at the root).
func (w *Writer) Depth() int {
	d := len(w.stack) - 1
	if d < 0 {
		return 0
	}
	return d
}

// Flush writes any buffered bytes to the underlying io.Writer.
func (w *Writer) Flush() error {
	if err := w.out.Flush(); err != nil {
		return err
	}
	return w.err
}

func (w *Writer) top() *frame { return w.stack[len(w.stack)-1] }

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return err
}

func (w *Writer) invalidOp(f *frame, format string, args ...any) error {
	return w.fail(rdnerr.NewAt(rdnerr.InvalidOperation, f.path(), format, args...))
}

// checkExpect reports an InvalidOperation fault if f isn't in one of the
// wanted states, unless Options.SkipValidation disables the check
// (RDN §4.4.6's escape hatch "for high-throughput producers that can
// prove well-formedness out of band").
func (w *Writer) checkExpect(f *frame, verb string, wanted ...expect) error {
	if w.opts.SkipValidation {
		return nil
	}
	for _, e := range wanted {
		if f.exp == e {
			return nil
		}
	}
	switch f.exp {
	case expectPropertyName:
		return w.invalidOp(f, "%s: an object property name was expected here", verb)
	case expectMapKey, expectMapValue:
		return w.invalidOp(f, "%s: illegal in the current map position", verb)
	default:
		return w.invalidOp(f, "%s: illegal in the current container state", verb)
	}
}

// --- separators & indentation -------------------------------------------------

func (w *Writer) writeIndent(depth int) {
	if !w.opts.Indented {
		return
	}
	w.out.WriteString(w.opts.newLine())
	unit := w.opts.indentUnit()
	for i := 0; i < depth; i++ {
		w.out.WriteString(unit)
	}
}

// placeValue prepares f to receive the next value: if f is a lazily-
// opened Set/Map whose opening delimiter hasn't hit the buffer yet, that
// happens first (RDN §4.4.1), then the usual separator/indentation.
func (w *Writer) placeValue(f *frame) {
	if f.kind == frameSet || f.kind == frameMap {
		w.beforeLazyValue(f)
		return
	}
	w.beforeValue(f)
}

// beforeValue emits whatever separator/arrow/indentation must precede
// the value about to be written in f's current expect state, per RDN
// §4.4.5. It does not itself validate that a value is legal here; call
// checkExpect first.
func (w *Writer) beforeValue(f *frame) {
	switch f.exp {
	case expectElement:
		if f.kind == frameRoot {
			return
		}
		if f.count > 0 {
			w.out.WriteByte(',')
		}
		w.writeIndent(len(w.stack) - 1)
	case expectMapKey:
		if f.count > 0 {
			w.out.WriteByte(',')
		}
		w.writeIndent(len(w.stack) - 1)
	case expectPropertyValue, expectMapValue:
		// The colon/arrow was already emitted when the name/key
		// finished; no separator precedes the value itself.
	}
}

// afterValue advances f's state once a value at position f.exp has been
// fully written (a leaf, or a container that has just been closed), and
// emits the map arrow when a key has just completed.
func (w *Writer) afterValue(f *frame) {
	switch f.exp {
	case expectElement:
		f.count++
	case expectPropertyValue:
		f.count++
		f.exp = expectPropertyName
	case expectMapKey:
		if w.opts.Indented {
			w.out.WriteString(" => ")
		} else {
			w.out.WriteString("=>")
		}
		f.exp = expectMapValue
	case expectMapValue:
		f.count++
		f.exp = expectMapKey
	}
}

func (w *Writer) depthFault() error {
	return w.fail(rdnerr.NewAt(rdnerr.DepthExceeded, "$", "nesting exceeds max_depth (%d)", w.opts.maxDepth()))
}

func (w *Writer) pushFrame(kind frameKind, exp expect) error {
	if len(w.stack) > w.opts.maxDepth() {
		return w.depthFault()
	}
	w.stack = append(w.stack, &frame{kind: kind, exp: exp})
	return nil
}

// --- leaf value emission -------------------------------------------------

// writeLeaf is the common path for every scalar write: validate, emit
// separators, write the already-formatted text, advance state.
func (w *Writer) writeLeaf(verb, text string) error {
	if w.err != nil {
		return w.err
	}
	f := w.top()
	if f.kind == frameRoot && w.rootWritten {
		return w.invalidOp(f, "%s: a value has already been written at the document root", verb)
	}
	if err := w.checkExpect(f, verb, expectElement, expectPropertyValue, expectMapKey, expectMapValue); err != nil {
		return err
	}
	w.placeValue(f)
	w.out.WriteString(text)
	w.afterValue(f)
	if f.kind == frameRoot {
		w.rootWritten = true
	}
	return nil
}

// WriteNull writes a null literal.
func (w *Writer) WriteNull() error { return w.writeLeaf("WriteNull", "null") }

// WriteBool writes a true/false literal.
func (w *Writer) WriteBool(b bool) error {
	if b {
		return w.writeLeaf("WriteBool", "true")
	}
	return w.writeLeaf("WriteBool", "false")
}

// WriteInt64 writes a fixed-point integer (RDN §4.4.3).
func (w *Writer) WriteInt64(n int64) error { return w.writeLeaf("WriteInt64", formatInt64(n)) }

// WriteInt32 writes a fixed-point integer.
func (w *Writer) WriteInt32(n int32) error { return w.WriteInt64(int64(n)) }

// WriteUint64 writes a fixed-point unsigned integer.
func (w *Writer) WriteUint64(n uint64) error { return w.writeLeaf("WriteUint64", formatUint64(n)) }

// WriteFloat64 writes a double, including NaN/Infinity/-Infinity as
// bare identifiers (RDN §4.4.3).
func (w *Writer) WriteFloat64(f float64) error { return w.writeLeaf("WriteFloat64", formatFloat64(f)) }

// WriteFloat32 narrows f to float32 precision before formatting.
func (w *Writer) WriteFloat32(f float32) error { return w.writeLeaf("WriteFloat32", formatFloat32(f)) }

// WriteBigInt writes a BigInteger (signed decimal plus the 'n' suffix).
func (w *Writer) WriteBigInt(n *big.Int) error {
	if n == nil {
		return w.invalidOp(w.top(), "WriteBigInt: n must not be nil")
	}
	return w.writeLeaf("WriteBigInt", formatBigInt(n))
}

// WriteString writes an escaped string literal.
func (w *Writer) WriteString(s string) error {
	b := appendEscapedString(nil, s, w.opts.EscapeHTML)
	return w.writeLeaf("WriteString", string(b))
}

// WriteDateTime writes t normalized to UTC with millisecond precision
// (RDN §4.4.4, invariant §3.3.4).
func (w *Writer) WriteDateTime(t time.Time) error {
	return w.writeLeaf("WriteDateTime", "@"+rdntime.FormatDateTime(t))
}

// WriteTimeOnly writes a wall-clock time.
func (w *Writer) WriteTimeOnly(t rdntime.TimeOnly) error {
	return w.writeLeaf("WriteTimeOnly", "@"+t.String())
}

// WriteDuration writes an ISO-8601 period (RDN §4.4.4, invariant §3.3.5).
func (w *Writer) WriteDuration(d rdntime.Duration) error {
	return w.writeLeaf("WriteDuration", "@"+rdntime.FormatDuration(d))
}

// WriteBinaryBase64 writes data as a b"..." literal, the codec's
// default binary encoding (RDN §3.3 invariant 6).
func (w *Writer) WriteBinaryBase64(data []byte) error {
	return w.writeLeaf("WriteBinaryBase64", `b"`+token.EncodeBinaryBase64(data)+`"`)
}

// WriteBinaryHex writes data as an x"..." literal.
func (w *Writer) WriteBinaryHex(data []byte) error {
	return w.writeLeaf("WriteBinaryHex", `x"`+token.EncodeBinaryHex(data)+`"`)
}

// WriteRegexp writes a /pattern/flags literal. Unescaped '/' bytes in
// pattern are escaped so the literal re-scans correctly.
func (w *Writer) WriteRegexp(pattern, flags string) error {
	return w.writeLeaf("WriteRegexp", "/"+escapeRegexpPattern(pattern)+"/"+flags)
}

// WriteRaw writes a pre-encoded value verbatim, for producers that have
// already formatted a value themselves (RDN §6.3).
func (w *Writer) WriteRaw(raw []byte) error {
	return w.writeLeaf("WriteRaw", string(raw))
}

// --- containers -------------------------------------------------

func (w *Writer) beginEagerContainer(verb string, kind frameKind, open byte, childExp expect) error {
	if w.err != nil {
		return w.err
	}
	f := w.top()
	if f.kind == frameRoot && w.rootWritten {
		return w.invalidOp(f, "%s: a value has already been written at the document root", verb)
	}
	if err := w.checkExpect(f, verb, expectElement, expectPropertyValue, expectMapKey, expectMapValue); err != nil {
		return err
	}
	w.placeValue(f)
	w.out.WriteByte(open)
	if err := w.pushFrame(kind, childExp); err != nil {
		return err
	}
	return nil
}

func (w *Writer) endEagerContainer(verb string, kind frameKind, close byte) error {
	if w.err != nil {
		return w.err
	}
	f := w.top()
	if f.kind != kind {
		return w.invalidOp(f, "%s: no matching open %s container", verb, kind)
	}
	if !w.opts.SkipValidation {
		switch kind {
		case frameObject:
			if f.exp != expectPropertyName {
				return w.invalidOp(f, "%s: a property value is still pending", verb)
			}
		case frameMap:
			if f.exp != expectMapKey {
				return w.invalidOp(f, "%s: a map value is still pending", verb)
			}
		}
	}
	if f.count > 0 {
		w.writeIndent(len(w.stack) - 2)
	}
	w.out.WriteByte(close)
	w.stack = w.stack[:len(w.stack)-1]
	parent := w.top()
	w.afterValue(parent)
	if parent.kind == frameRoot {
		w.rootWritten = true
	}
	return nil
}

// BeginObject opens an Object container; members follow as
// WritePropertyName/value pairs, terminated by EndObject.
func (w *Writer) BeginObject() error {
	return w.beginEagerContainer("BeginObject", frameObject, '{', expectPropertyName)
}

// EndObject closes the innermost Object.
func (w *Writer) EndObject() error { return w.endEagerContainer("EndObject", frameObject, '}') }

// WritePropertyName writes an Object member's key. A value write must
// follow before the next WritePropertyName or EndObject.
func (w *Writer) WritePropertyName(name string) error {
	if w.err != nil {
		return w.err
	}
	f := w.top()
	if err := w.checkExpect(f, "WritePropertyName", expectPropertyName); err != nil {
		return err
	}
	if f.count > 0 {
		w.out.WriteByte(',')
	}
	w.writeIndent(len(w.stack) - 1)
	w.out.Write(appendEscapedString(nil, name, w.opts.EscapeHTML))
	if w.opts.Indented {
		w.out.WriteString(": ")
	} else {
		w.out.WriteByte(':')
	}
	f.exp = expectPropertyValue
	return nil
}

// BeginArray opens an Array container.
func (w *Writer) BeginArray() error {
	return w.beginEagerContainer("BeginArray", frameArray, '[', expectElement)
}

// EndArray closes the innermost Array.
func (w *Writer) EndArray() error { return w.endEagerContainer("EndArray", frameArray, ']') }

// BeginTuple opens a Tuple container (RDN §6.1: "(v1, v2, ...)").
func (w *Writer) BeginTuple() error {
	return w.beginEagerContainer("BeginTuple", frameTuple, '(', expectElement)
}

// EndTuple closes the innermost Tuple.
func (w *Writer) EndTuple() error { return w.endEagerContainer("EndTuple", frameTuple, ')') }

// --- Set/Map: lazy opening delimiter -------------------------------------------------

func (w *Writer) beginLazyContainer(verb string, kind frameKind) error {
	if w.err != nil {
		return w.err
	}
	f := w.top()
	if f.kind == frameRoot && w.rootWritten {
		return w.invalidOp(f, "%s: a value has already been written at the document root", verb)
	}
	if err := w.checkExpect(f, verb, expectElement, expectPropertyValue, expectMapKey, expectMapValue); err != nil {
		return err
	}
	w.placeValue(f)
	// The opening delimiter is deferred until emptiness is known (RDN
	// §4.4.1): it is written either by EndSet/EndMap (the "Set{}"/
	// "Map{}" empty form) or by the first child value (the "{"/"Set{"/
	// "Map{" non-empty form).
	childExp := expectElement
	if kind == frameMap {
		childExp = expectMapKey
	}
	if len(w.stack) > w.opts.maxDepth() {
		return w.depthFault()
	}
	w.stack = append(w.stack, &frame{kind: kind, exp: childExp})
	return nil
}

func (w *Writer) openDelimiterFor(f *frame) string {
	switch f.kind {
	case frameSet:
		if w.opts.AlwaysWriteSetTypeName {
			return "Set{"
		}
		return "{"
	case frameMap:
		if w.opts.AlwaysWriteMapTypeName {
			return "Map{"
		}
		return "{"
	default:
		panic("writer: openDelimiterFor called on a non-lazy frame kind")
	}
}

func (w *Writer) beforeLazyValue(f *frame) {
	if !f.openWritten {
		w.out.WriteString(w.openDelimiterFor(f))
		f.openWritten = true
	}
	w.beforeValue(f)
}

func (w *Writer) endLazyContainer(verb string, kind frameKind, emptyForm string) error {
	if w.err != nil {
		return w.err
	}
	f := w.top()
	if f.kind != kind {
		return w.invalidOp(f, "%s: no matching open %s container", verb, kind)
	}
	if !w.opts.SkipValidation {
		switch kind {
		case frameMap:
			if f.exp != expectMapKey {
				return w.invalidOp(f, "%s: a map value is still pending", verb)
			}
		}
	}
	if !f.openWritten {
		w.out.WriteString(emptyForm)
	} else {
		if f.count > 0 {
			w.writeIndent(len(w.stack) - 2)
		}
		w.out.WriteByte('}')
	}
	w.stack = w.stack[:len(w.stack)-1]
	parent := w.top()
	w.afterValue(parent)
	if parent.kind == frameRoot {
		w.rootWritten = true
	}
	return nil
}

// BeginSet opens a Set container (RDN §4.4.1: emits "Set{}" if it ends
// up empty, otherwise "{...}" or "Set{...}" per AlwaysWriteSetTypeName).
func (w *Writer) BeginSet() error { return w.beginLazyContainer("BeginSet", frameSet) }

// EndSet closes the innermost Set.
func (w *Writer) EndSet() error { return w.endLazyContainer("EndSet", frameSet, "Set{}") }

// BeginMap opens a Map container (RDN §4.4.1: emits "Map{}" if it ends
// up empty, otherwise "{k => v, ...}" or "Map{...}" per
// AlwaysWriteMapTypeName).
func (w *Writer) BeginMap() error { return w.beginLazyContainer("BeginMap", frameMap) }

// EndMap closes the innermost Map.
func (w *Writer) EndMap() error { return w.endLazyContainer("EndMap", frameMap, "Map{}") }
