// Package rdnerr defines the fault kinds shared by the RDN tokenizer,
// reader, and writer (component C6/C7 of the codec).
//
// Every fault is fatal to the call that raised it: the reader's position
// and the writer's buffer state are undefined afterward. Nothing is
// retried and nothing is swallowed.
package rdnerr

import (
	"fmt"
	"strings"
)

// Kind distinguishes the fault categories a reader or writer can raise.
type Kind int

const (
	// Lexical marks a malformed token: bad escape, bad number, truncated
	// binary/regexp, unknown identifier.
	Lexical Kind = iota
	// Structural marks mismatched brackets, a stray comma, a missing
	// ':'/'=>', a value in key position, or similar grammar violations.
	Structural
	// DepthExceeded marks nesting beyond the configured maximum.
	DepthExceeded
	// UnexpectedEndOfInput marks input that ended mid-token or
	// mid-container.
	UnexpectedEndOfInput
	// InvalidValue marks a typed accessor failing against the underlying
	// payload (e.g. GetInt32 on a non-numeric token).
	InvalidValue
	// InvalidOperation marks an illegal writer call given its current
	// state (writer only).
	InvalidOperation
	// LimitExceeded marks a token whose size exceeds the configured
	// ceiling.
	LimitExceeded
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "LexicalError"
	case Structural:
		return "StructuralError"
	case DepthExceeded:
		return "DepthExceeded"
	case UnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case InvalidValue:
		return "InvalidValue"
	case InvalidOperation:
		return "InvalidOperation"
	case LimitExceeded:
		return "LimitExceeded"
	default:
		return "UnknownError"
	}
}

// Error is the single error type raised by the reader and writer. Kind
// selects the category; Offset/Line/Column locate the fault in the
// source (Line/Column are 1-based; zero means "not applicable", as for
// writer-side InvalidOperation faults which carry a logical Path instead).
type Error struct {
	Kind    Kind
	Message string
	Offset  int
	Line    int
	Column  int
	// Path is set instead of Line/Column for writer faults, where there
	// is no source text to point into.
	Path string
	// Near holds the offending token text, when known, for diagnostic
	// rendering.
	Near string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	} else if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
		if e.Near != "" {
			fmt.Fprintf(&b, " near '%s'", e.Near)
		}
	}
	return b.String()
}

// New builds a position-carrying fault.
func New(kind Kind, offset, line, column int, near, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Line:    line,
		Column:  column,
		Near:    near,
	}
}

// NewAt builds a fault with a logical path instead of a source position,
// for the writer side where there is no source buffer to point into.
func NewAt(kind Kind, path, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
	}
}

// Snippet renders a single-line, caret-annotated excerpt of src pointing
// at column (1-based), the way the reader's position diagnostics are
// displayed by callers that want a human-facing rendering.
func Snippet(src string, line, column int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	text := lines[line-1]
	caretPos := column - 1
	if caretPos < 0 {
		caretPos = 0
	}
	if caretPos > len(text) {
		caretPos = len(text)
	}
	return fmt.Sprintf("  %s\n  %s^", text, strings.Repeat(" ", caretPos))
}
