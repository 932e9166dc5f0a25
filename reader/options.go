package reader

import "github.com/ShtibsDev/rdn/token"

// DefaultMaxDepth is the nesting ceiling enforced when Options.MaxDepth
// is left at zero (RDN §4.2.4).
const DefaultMaxDepth = 1000

// Options controls reader behavior per RDN §4.2.4 / §6.5.
type Options struct {
	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth.
	MaxDepth int
	// AllowTrailingCommas tolerates one trailing ',' before a closing
	// delimiter when true. Default false.
	AllowTrailingCommas bool
	// CommentHandling selects whether '//' and '/*' sequences are
	// skipped as comments or raise a LexicalError. Default Disallow.
	CommentHandling token.CommentMode
	// AllowMultipleValues permits successive top-level values separated
	// by whitespace/comments, instead of requiring exactly one. Default
	// false.
	AllowMultipleValues bool
	// MaxTokenSize bounds a single token's byte length. Zero means
	// token.DefaultMaxTokenSize.
	MaxTokenSize int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) maxTokenSize() int {
	if o.MaxTokenSize <= 0 {
		return token.DefaultMaxTokenSize
	}
	return o.MaxTokenSize
}
