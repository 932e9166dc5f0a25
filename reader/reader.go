// Package reader implements the structural reader (component C2) of
// the RDN codec: a pull-style token producer built on top of package
// token's lexical scanner, driving a depth-tracked container stack and
// the brace-disambiguation state machine of RDN §4.2.2.
package reader

import (
	"errors"

	"github.com/ShtibsDev/rdn/rdnerr"
	"github.com/ShtibsDev/rdn/token"
)

// Reader is a pull-style structural token producer over a single,
// bounded in-memory buffer (RDN §1 Non-goals: the core does not
// support resumable parsing of partial network input).
type Reader struct {
	tok  *token.Tokenizer
	opts Options

	stack []*frame

	curKind        Kind
	curRaw         []byte
	curBinaryIsHex bool

	started bool
	done    bool
	err     error
}

// New creates a Reader over src. The returned Reader is ready for its
// first Read() call.
func New(src []byte, opts Options) *Reader {
	tok := token.New(src)
	tok.AllowComments = opts.CommentHandling
	tok.MaxTokenSize = opts.maxTokenSize()
	return &Reader{
		tok:   tok,
		opts:  opts,
		stack: []*frame{{kind: rootKind, state: stNeedFirst}},
	}
}

// Err returns the fault that ended the stream, if Read returned false
// because of one. It returns nil after a clean end of input.
func (r *Reader) Err() error { return r.err }

// NeedMoreData reports whether Read returned false because the input
// ended mid-token or mid-container rather than at a clean value
// boundary. A caller pulling from a larger source can treat this as a
// "not the final block" signal: append the missing tail to the buffer
// it preserved and parse again with a fresh Reader (RDN §5).
func (r *Reader) NeedMoreData() bool {
	var e *rdnerr.Error
	return errors.As(r.err, &e) && e.Kind == rdnerr.UnexpectedEndOfInput
}

// Kind returns the kind of the token most recently produced by Read.
func (r *Reader) Kind() Kind { return r.curKind }

// Raw returns the raw source span of the token most recently produced
// by Read. It is nil for tokens that carry no payload (container
// start/end, MapArrow).
func (r *Reader) Raw() []byte { return r.curRaw }

// Depth returns the current container nesting depth (0 at the root).
func (r *Reader) Depth() int {
	d := len(r.stack) - 1
	if d < 0 {
		return 0
	}
	return d
}

// Read advances to the next token and reports whether one was
// produced. It returns false at a clean end of input, or after a fault
// (queryable via Err); the reader's position is undefined following a
// fault and the Reader must be discarded (RDN §4.5).
func (r *Reader) Read() bool {
	if r.err != nil || r.done {
		return false
	}
	k, raw, err := r.step()
	if err != nil {
		r.err = err
		r.curKind, r.curRaw = None, nil
		return false
	}
	if k == None {
		r.done = true
		r.curKind, r.curRaw = None, nil
		return false
	}
	r.curKind, r.curRaw = k, raw
	return true
}

// Peek reports the Kind Read would produce next, without consuming it.
// It is implemented by snapshotting reader state, calling the normal
// step logic, and restoring the snapshot, since the tokenizer itself
// has no token pushback.
func (r *Reader) Peek() (Kind, error) {
	if r.err != nil || r.done {
		return None, r.err
	}
	savedTok := *r.tok
	savedBinaryIsHex := r.curBinaryIsHex
	savedStack := make([]*frame, len(r.stack))
	for i, f := range r.stack {
		cp := *f
		savedStack[i] = &cp
	}
	k, _, err := r.step()
	*r.tok = savedTok
	r.curBinaryIsHex = savedBinaryIsHex
	r.stack = savedStack
	return k, err
}

func (r *Reader) top() *frame { return r.stack[len(r.stack)-1] }

// step implements one Read() call's worth of work, which may itself
// consume several raw tokens (a ':' or '=>' separator is never surfaced
// on its own, except MapArrow per RDN §4.1's token-kind list).
func (r *Reader) step() (Kind, []byte, error) {
	f := r.top()
	if f.kind == rootKind {
		switch f.state {
		case stNeedFirst:
			return r.scanElement(f, false)
		case stRootComplete:
			return r.finishRoot(f)
		}
	}
	switch f.state {
	case stNeedFirst, stNeedNextAfterComma:
		return r.scanElement(f, f.state == stNeedNextAfterComma)
	case stNeedColon:
		return r.consumeColon(f)
	case stNeedArrow:
		return r.consumeArrow(f)
	case stNeedMapValue:
		return r.scanMapValue(f)
	case stNeedSeparatorOrClose:
		return r.scanSeparatorOrClose(f)
	}
	panic("reader: unreachable frame state")
}

func (r *Reader) finishRoot(f *frame) (Kind, []byte, error) {
	k, raw, err := r.tok.Scan()
	if err != nil {
		return 0, nil, err
	}
	if k == token.EOF {
		return None, nil, nil
	}
	if !r.opts.AllowMultipleValues {
		return 0, nil, r.structuralFault(string(raw), "unexpected trailing content after the document value")
	}
	// Another top-level value follows; route its already-scanned first
	// token through the same value-emission path scanElement uses.
	f.state = stNeedFirst
	return r.emitValueAndAdvance(f, k, raw, roleElement)
}

// scanElement scans the next element of a container (or the sole root
// value): a bare value for Array/Tuple/Set/root, a property name for
// Object, or a key for Map. afterComma indicates the scan follows a
// ',', which changes how an immediate closing delimiter is treated
// (RDN §4.2.4 allow_trailing_commas).
func (r *Reader) scanElement(f *frame, afterComma bool) (Kind, []byte, error) {
	k, raw, err := r.tok.Scan()
	if err != nil {
		return 0, nil, err
	}
	if f.kind != rootKind {
		if k == token.EOF {
			return 0, nil, r.unexpectedEOFFault("input ended inside an unclosed %s", f.kind)
		}
		if closer := closerFor(f.kind); k == closer {
			if f.childCount == 0 && !afterComma {
				return r.closeFrame(f)
			}
			if afterComma {
				if !r.opts.AllowTrailingCommas {
					return 0, nil, r.structuralFault(string(raw), "trailing comma is not allowed here")
				}
				return r.closeFrame(f)
			}
			return 0, nil, r.structuralFault(string(raw), "unexpected closing delimiter")
		}
	}
	if f.kind == Object {
		if k != token.String {
			return 0, nil, r.structuralFault(string(raw), "object property name must be a string")
		}
		f.childCount++
		f.state = stNeedColon
		return PropertyName, raw, nil
	}
	role := roleElement
	if f.kind == Map {
		role = roleMapKey
	}
	return r.emitValueAndAdvance(f, k, raw, role)
}

type valueRole int

const (
	roleElement valueRole = iota
	roleMapKey
	roleMapValue
	roleObjectValue
)

// emitValueAndAdvance records how f should continue once the value
// starting at (k, raw) is fully consumed — which, for a value that
// turns out to be a container, is whenever that child frame eventually
// pops back to f — and then classifies/emits (k, raw) itself.
func (r *Reader) emitValueAndAdvance(f *frame, k token.Kind, raw []byte, role valueRole) (Kind, []byte, error) {
	switch role {
	case roleElement:
		f.childCount++
		if f.kind == rootKind {
			f.state = stRootComplete
		} else {
			f.state = stNeedSeparatorOrClose
		}
	case roleMapKey:
		f.childCount++
		f.state = stNeedArrow
	case roleMapValue, roleObjectValue:
		f.childCount++
		f.state = stNeedSeparatorOrClose
	}
	return r.emitValueToken(k, raw)
}

func (r *Reader) emitValueToken(k token.Kind, raw []byte) (Kind, []byte, error) {
	switch k {
	case token.String:
		return String, raw, nil
	case token.Number:
		return Number, raw, nil
	case token.BigInteger:
		return BigInteger, raw, nil
	case token.True:
		return True, raw, nil
	case token.False:
		return False, raw, nil
	case token.Null:
		return Null, raw, nil
	case token.DateTime:
		return DateTime, raw, nil
	case token.TimeOnly:
		return TimeOnly, raw, nil
	case token.Duration:
		return Duration, raw, nil
	case token.Binary:
		r.curBinaryIsHex = r.tok.BinaryIsHex
		return Binary, raw, nil
	case token.Regexp:
		return RegExp, raw, nil
	case token.LBracket:
		if err := r.pushFrame(Array); err != nil {
			return 0, nil, err
		}
		return StartArray, nil, nil
	case token.LParen:
		if err := r.pushFrame(Tuple); err != nil {
			return 0, nil, err
		}
		return StartTuple, nil, nil
	case token.SetWord:
		if err := r.expectLBraceAfterWord("Set"); err != nil {
			return 0, nil, err
		}
		if err := r.pushFrame(Set); err != nil {
			return 0, nil, err
		}
		return StartSet, nil, nil
	case token.MapWord:
		if err := r.expectLBraceAfterWord("Map"); err != nil {
			return 0, nil, err
		}
		if err := r.pushFrame(Map); err != nil {
			return 0, nil, err
		}
		return StartMap, nil, nil
	case token.LBrace:
		kind, err := r.resolveBraceKind()
		if err != nil {
			return 0, nil, err
		}
		if err := r.pushFrame(kind); err != nil {
			return 0, nil, err
		}
		switch kind {
		case Object:
			return StartObject, nil, nil
		case Map:
			return StartMap, nil, nil
		case Set:
			return StartSet, nil, nil
		}
		panic("reader: resolveBraceKind returned a non-brace kind")
	case token.EOF:
		return 0, nil, r.unexpectedEOFFault("expected a value")
	default:
		return 0, nil, r.structuralFault("", "unexpected token where a value was expected")
	}
}

func (r *Reader) expectLBraceAfterWord(word string) error {
	k, raw, err := r.tok.Scan()
	if err != nil {
		return err
	}
	if k != token.LBrace {
		return r.structuralFault(string(raw), "expected '{' after '"+word+"'")
	}
	return nil
}

func (r *Reader) consumeColon(f *frame) (Kind, []byte, error) {
	k, raw, err := r.tok.Scan()
	if err != nil {
		return 0, nil, err
	}
	if k == token.EOF {
		return 0, nil, r.unexpectedEOFFault("input ended after an object property name")
	}
	if k != token.Colon {
		return 0, nil, r.structuralFault(string(raw), "expected ':' after an object property name")
	}
	k2, raw2, err := r.tok.Scan()
	if err != nil {
		return 0, nil, err
	}
	return r.emitValueAndAdvance(f, k2, raw2, roleObjectValue)
}

func (r *Reader) consumeArrow(f *frame) (Kind, []byte, error) {
	k, raw, err := r.tok.Scan()
	if err != nil {
		return 0, nil, err
	}
	if k == token.EOF {
		return 0, nil, r.unexpectedEOFFault("input ended after a map key")
	}
	if k != token.Arrow {
		return 0, nil, r.structuralFault(string(raw), "expected '=>' after a map key")
	}
	f.state = stNeedMapValue
	return MapArrow, raw, nil
}

func (r *Reader) scanMapValue(f *frame) (Kind, []byte, error) {
	k, raw, err := r.tok.Scan()
	if err != nil {
		return 0, nil, err
	}
	return r.emitValueAndAdvance(f, k, raw, roleMapValue)
}

func (r *Reader) scanSeparatorOrClose(f *frame) (Kind, []byte, error) {
	k, raw, err := r.tok.Scan()
	if err != nil {
		return 0, nil, err
	}
	if k == closerFor(f.kind) {
		return r.closeFrame(f)
	}
	if k == token.Comma {
		f.state = stNeedNextAfterComma
		return r.scanElement(f, true)
	}
	if k == token.EOF {
		return 0, nil, r.unexpectedEOFFault("input ended inside an unclosed %s", f.kind)
	}
	return 0, nil, r.structuralFault(string(raw), "expected ',' or a closing delimiter")
}

func (r *Reader) closeFrame(f *frame) (Kind, []byte, error) {
	r.stack = r.stack[:len(r.stack)-1]
	switch f.kind {
	case Object:
		return EndObject, nil, nil
	case Map:
		return EndMap, nil, nil
	case Set:
		return EndSet, nil, nil
	case Array:
		return EndArray, nil, nil
	case Tuple:
		return EndTuple, nil, nil
	}
	panic("reader: closeFrame called on root frame")
}

func (r *Reader) pushFrame(kind ContainerKind) error {
	if len(r.stack) > r.opts.maxDepth() {
		return r.depthFault()
	}
	r.stack = append(r.stack, &frame{kind: kind, state: stNeedFirst})
	return nil
}

func (r *Reader) structuralFault(near, format string, args ...any) error {
	off, line, col := r.tok.Pos()
	return rdnerr.New(rdnerr.Structural, off, line, col, near, format, args...)
}

func (r *Reader) unexpectedEOFFault(format string, args ...any) error {
	off, line, col := r.tok.Pos()
	return rdnerr.New(rdnerr.UnexpectedEndOfInput, off, line, col, "", format, args...)
}

func (r *Reader) depthFault() error {
	off, line, col := r.tok.Pos()
	return rdnerr.New(rdnerr.DepthExceeded, off, line, col, "", "nesting exceeds max_depth (%d)", r.opts.maxDepth())
}
