package writer

// DefaultMaxDepth mirrors reader.DefaultMaxDepth (RDN §4.2.4/§4.4.6):
// the writer enforces the same nesting ceiling in the write direction.
const DefaultMaxDepth = 1000

// IndentChar selects the byte repeated for each indent level when
// Options.Indented is set.
type IndentChar byte

const (
	Space IndentChar = ' '
	Tab   IndentChar = '\t'
)

// NewLine selects the line terminator used between indented lines.
type NewLine string

const (
	LF   NewLine = "\n"
	CRLF NewLine = "\r\n"
)

// Options controls writer behavior per RDN §6.5/§4.4.
type Options struct {
	// Indented selects indented emission over the minimized default.
	Indented bool
	// IndentCharacter is the byte repeated IndentSize times per nesting
	// level when Indented is set. Zero value is Space.
	IndentCharacter IndentChar
	// IndentSize is the number of IndentCharacter bytes per nesting
	// level (0..127). Zero means 2 when Indented is set.
	IndentSize int
	// NewLineSeq is the line terminator used when Indented is set. Zero
	// value is LF.
	NewLineSeq NewLine
	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth.
	MaxDepth int
	// SkipValidation disables the container-state/depth checks of RDN
	// §4.4.6, trusting the caller to emit well-formed output.
	SkipValidation bool
	// AlwaysWriteMapTypeName forces the "Map{...}" prefix even for
	// non-empty maps, instead of the shorter self-disambiguating
	// "{k => v, ...}" form (RDN §4.4.1).
	AlwaysWriteMapTypeName bool
	// AlwaysWriteSetTypeName forces the "Set{...}" prefix even for
	// non-empty sets, instead of the shorter "{v, ...}" form.
	AlwaysWriteSetTypeName bool
	// EscapeHTML widens the string escape set with '<', '>', '&' and the
	// U+2028/U+2029 separators, for output embedded in HTML contexts
	// (the pluggable-encoder hook of RDN §4.4.2).
	EscapeHTML bool
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) indentUnit() string {
	size := o.IndentSize
	if size <= 0 {
		size = 2
	}
	ch := o.IndentCharacter
	if ch == 0 {
		ch = Space
	}
	return string(bytesRepeat(byte(ch), size))
}

func (o Options) newLine() string {
	if o.NewLineSeq == "" {
		return string(LF)
	}
	return string(o.NewLineSeq)
}

func bytesRepeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
