package reader

import (
	"github.com/ShtibsDev/rdn/rdnerr"
	"github.com/ShtibsDev/rdn/token"
)

// resolveBraceKind implements the brace-disambiguation state machine of
// RDN §4.2.2. It is called with the opening '{' already consumed by
// the real tokenizer (r.tok); it never advances r.tok itself. Instead it
// scans a throwaway Tokenizer over the unconsumed tail (token.NewAt) to
// look at most one value plus its trailing separator ahead, per the
// "bounded lookahead, no backtracking" rule of RDN §4.2.2. Once the kind is
// known, the real reader proceeds to scan the very same bytes for real,
// so nothing about r.tok's position is disturbed by the lookahead.
func (r *Reader) resolveBraceKind() (ContainerKind, error) {
	off, line, col := r.tok.Pos()
	clone := token.NewAt(r.tok.Remaining(), off, line, col)
	clone.AllowComments = r.tok.AllowComments
	clone.MaxTokenSize = r.tok.MaxTokenSize

	k, _, err := clone.Scan()
	if err != nil {
		return 0, err
	}
	if k == token.RBrace {
		// "}" with no element: Object, per the resolution table.
		return Object, nil
	}
	if err := skipOneValue(clone, k); err != nil {
		return 0, err
	}
	k2, raw2, err := clone.Scan()
	if err != nil {
		return 0, err
	}
	switch k2 {
	case token.Colon:
		return Object, nil
	case token.Arrow:
		return Map, nil
	case token.Comma, token.RBrace:
		return Set, nil
	default:
		return 0, r.structuralFault(string(raw2), "expected ':', '=>', ',' or '}' after the first element of an ambiguous '{'")
	}
}

// skipOneValue skips exactly one RDN value, whose first token (k) has
// already been scanned from tok. Leaf kinds need nothing further;
// container openers are skipped to their matching close without
// interpreting their contents (nested brace-disambiguation is not
// performed during lookahead — the real reader repeats this work later,
// when it actually descends into the value).
func skipOneValue(tok *token.Tokenizer, k token.Kind) error {
	switch k {
	case token.LBrace:
		return skipBalanced(tok, token.RBrace)
	case token.LBracket:
		return skipBalanced(tok, token.RBracket)
	case token.LParen:
		return skipBalanced(tok, token.RParen)
	case token.SetWord, token.MapWord:
		k2, _, err := tok.Scan()
		if err != nil {
			return err
		}
		if k2 != token.LBrace {
			return tok.Fault(rdnerr.Structural, "", "expected '{' after 'Set'/'Map'")
		}
		return skipBalanced(tok, token.RBrace)
	case token.String, token.Number, token.BigInteger, token.True, token.False, token.Null,
		token.DateTime, token.TimeOnly, token.Duration, token.Binary, token.Regexp:
		return nil
	case token.EOF:
		return tok.Fault(rdnerr.UnexpectedEndOfInput, "", "expected a value")
	default:
		return tok.Fault(rdnerr.Structural, "", "unexpected token where a value was expected")
	}
}

// skipBalanced consumes tokens until the matching closer for an already-
// consumed opener (whose closer is the initial stack entry) is reached,
// tracking nested openers of any of the three bracket families so that
// e.g. "[(" can only be closed as ")]" in that order.
func skipBalanced(tok *token.Tokenizer, closer token.Kind) error {
	stack := []token.Kind{closer}
	for len(stack) > 0 {
		k, _, err := tok.Scan()
		if err != nil {
			return err
		}
		switch k {
		case token.EOF:
			return tok.Fault(rdnerr.UnexpectedEndOfInput, "", "unterminated container in lookahead")
		case token.LBrace:
			stack = append(stack, token.RBrace)
		case token.LBracket:
			stack = append(stack, token.RBracket)
		case token.LParen:
			stack = append(stack, token.RParen)
		case token.SetWord, token.MapWord:
			k2, _, err := tok.Scan()
			if err != nil {
				return err
			}
			if k2 != token.LBrace {
				return tok.Fault(rdnerr.Structural, "", "expected '{' after 'Set'/'Map'")
			}
			stack = append(stack, token.RBrace)
		case token.RBrace, token.RBracket, token.RParen:
			if stack[len(stack)-1] != k {
				return tok.Fault(rdnerr.Structural, "", "mismatched closing delimiter")
			}
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}
