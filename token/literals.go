package token

import (
	"strings"

	"github.com/ShtibsDev/rdn/rdnerr"
	"github.com/ShtibsDev/rdn/rdntime"
)

func (t *Tokenizer) markStart() int {
	return t.bufPos - 1
}

// spanExcl returns the bytes consumed since start, up to but not
// including the current (not-yet-consumed) lookahead byte. At end of
// input there is no lookahead byte to exclude, so the span runs to the
// end of the buffer.
func (t *Tokenizer) spanExcl(start int) []byte {
	if t.lastChar == eofChar {
		return t.buf[start:t.bufSize]
	}
	return t.buf[start : t.bufPos-1]
}

func (t *Tokenizer) scanKeywordOrIdent() (Kind, []byte, error) {
	start := t.markStart()
	first := t.lastChar

	if first == 'b' {
		t.next()
		if t.lastChar == '"' {
			t.next()
			return t.scanBinary(false)
		}
		return t.finishWordIdent(start)
	}
	if first == 'x' {
		t.next()
		if t.lastChar == '"' {
			t.next()
			return t.scanBinary(true)
		}
		return t.finishWordIdent(start)
	}
	return t.finishWordIdent(start)
}

func (t *Tokenizer) finishWordIdent(start int) (Kind, []byte, error) {
	for isLetter(t.lastChar) {
		t.next()
	}
	word := t.spanExcl(start)
	switch string(word) {
	case "true":
		return True, word, nil
	case "false":
		return False, word, nil
	case "null":
		return Null, word, nil
	case "NaN", "Infinity":
		return Number, word, nil
	case "Set":
		return SetWord, word, nil
	case "Map":
		return MapWord, word, nil
	default:
		return t.fault2(LexError, string(word), "unknown identifier %q", word)
	}
}

func (t *Tokenizer) scanNegative() (Kind, []byte, error) {
	start := t.markStart()
	t.next() // consume '-'
	if isDigit(t.lastChar) {
		return t.scanNumericLiteral(start)
	}
	if t.lastChar == 'I' {
		return t.scanNegativeInfinity(start)
	}
	return t.fault2(LexError, "-", "expected a digit or 'Infinity' after '-'")
}

func (t *Tokenizer) scanNegativeInfinity(start int) (Kind, []byte, error) {
	const want = "Infinity"
	for i := 0; i < len(want); i++ {
		if t.lastChar != int(want[i]) {
			return t.fault2(LexError, "-I", "invalid literal, expected '-Infinity'")
		}
		t.next()
	}
	if isLetter(t.lastChar) || isDigit(t.lastChar) {
		return t.fault2(LexError, "", "invalid literal, expected '-Infinity'")
	}
	return Number, t.spanExcl(start), nil
}

func (t *Tokenizer) scanNumber(_ bool) (Kind, []byte, error) {
	return t.scanNumericLiteral(t.markStart())
}

// scanNumericLiteral implements the JSON number grammar plus the
// 'n'-suffixed BigInteger extension of RDN §4.1.2. start must point at
// the literal's first byte (which may be the leading '-').
func (t *Tokenizer) scanNumericLiteral(start int) (Kind, []byte, error) {
	leadingZero := t.lastChar == '0'
	t.next()
	if leadingZero && isDigit(t.lastChar) {
		return t.fault2(LexError, "0", "number must not have a leading zero")
	}
	for isDigit(t.lastChar) {
		t.next()
	}

	isBig := false
	if t.lastChar == 'n' {
		isBig = true
		t.next()
	} else {
		if t.lastChar == '.' {
			t.next()
			if !isDigit(t.lastChar) {
				return t.fault2(LexError, ".", "expected a digit after the decimal point")
			}
			for isDigit(t.lastChar) {
				t.next()
			}
		}
		if t.lastChar == 'e' || t.lastChar == 'E' {
			t.next()
			if t.lastChar == '+' || t.lastChar == '-' {
				t.next()
			}
			if !isDigit(t.lastChar) {
				return t.fault2(LexError, "e", "expected a digit in the exponent")
			}
			for isDigit(t.lastChar) {
				t.next()
			}
		}
	}

	if isLetter(t.lastChar) {
		return t.fault2(LexError, "", "a letter cannot immediately follow a number literal")
	}
	if t.overLimit(start) {
		return t.limitFault(start)
	}

	span := t.spanExcl(start)
	if isBig {
		return BigInteger, span, nil
	}
	return Number, span, nil
}

// scanString reads a quoted string body; the opening '"' has already
// been consumed. The returned payload is the raw (still-escaped) span,
// per RDN §3.2 — decoding is lazy, performed by the document layer.
func (t *Tokenizer) scanString() (Kind, []byte, error) {
	start := t.markStart()
	for {
		switch {
		case t.lastChar == eofChar:
			return t.faultKind(rdnerr.UnexpectedEndOfInput, LexError, "", "unterminated string literal")
		case t.lastChar == '"':
			span := t.spanExcl(start)
			t.next()
			return String, span, nil
		case t.lastChar == '\\':
			t.next()
			if err := t.scanEscape(); err != nil {
				return LexError, nil, err
			}
		case t.lastChar < 0x20:
			return t.fault2(LexError, "", "unescaped control byte 0x%02x in string", t.lastChar)
		default:
			if t.overLimit(start) {
				return t.limitFault(start)
			}
			t.next()
		}
	}
}

func (t *Tokenizer) scanEscape() error {
	switch t.lastChar {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		t.next()
		return nil
	case 'u':
		t.next()
		for i := 0; i < 4; i++ {
			if !isHexDigit(t.lastChar) {
				return t.fault(rdnerr.Lexical, "", "invalid \\u escape: expected 4 hex digits")
			}
			t.next()
		}
		return nil
	case eofChar:
		return t.fault(rdnerr.UnexpectedEndOfInput, "", "string terminates mid escape sequence")
	default:
		return t.fault(rdnerr.Lexical, string(rune(t.lastChar)), "invalid escape sequence '\\%c'", rune(t.lastChar))
	}
}

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func isBase64Char(ch int) bool {
	return ch < 256 && strings.IndexByte(base64Alphabet, byte(ch)) >= 0
}

// scanBinary reads a b"..."/x"..." literal body; the opening prefix
// letter and quote have already been consumed. The returned span is the
// quoted content only (not the prefix letter or quotes); the caller
// tells the two forms apart via Tokenizer.BinaryIsHex.
func (t *Tokenizer) scanBinary(isHex bool) (Kind, []byte, error) {
	t.BinaryIsHex = isHex
	start := t.markStart()
	for {
		switch t.lastChar {
		case eofChar:
			return t.faultKind(rdnerr.UnexpectedEndOfInput, LexError, "", "unterminated binary literal")
		case '"':
			span := t.spanExcl(start)
			t.next()
			if isHex {
				if len(span)%2 != 0 {
					return t.fault2(LexError, string(span), "hex binary literal has odd length")
				}
				return Binary, span, nil
			}
			if err := validateBase64(span); err != nil {
				return LexError, nil, err
			}
			return Binary, span, nil
		default:
			if isHex {
				if !isHexDigit(t.lastChar) {
					return t.fault2(LexError, "", "invalid hex character %q", rune(t.lastChar))
				}
			} else if !isBase64Char(t.lastChar) && t.lastChar != '=' {
				return t.fault2(LexError, "", "invalid base64 character %q", rune(t.lastChar))
			}
			if t.overLimit(start) {
				return t.limitFault(start)
			}
			t.next()
		}
	}
}

func validateBase64(span []byte) error {
	padStart := len(span)
	for padStart > 0 && span[padStart-1] == '=' {
		padStart--
	}
	if len(span)-padStart > 2 {
		return rdnerr.New(rdnerr.Lexical, 0, 0, 0, "", "base64 literal has too much '=' padding")
	}
	for _, c := range span[:padStart] {
		if c == '=' {
			return rdnerr.New(rdnerr.Lexical, 0, 0, 0, "", "'=' padding must be a trailing suffix")
		}
	}
	return nil
}

const validRegexpFlags = "dgimsuvy"

// scanRegexp reads a /pattern/flags literal; the opening '/' has
// already been consumed. The returned payload combines pattern and
// flags separated by the unescaped '/' that ends the pattern; use
// SplitRegexp to recover the two parts.
func (t *Tokenizer) scanRegexp() (Kind, []byte, error) {
	start := t.markStart()
	patternEmpty := true
	for {
		switch t.lastChar {
		case eofChar:
			return t.faultKind(rdnerr.UnexpectedEndOfInput, LexError, "", "unterminated regexp literal")
		case '\\':
			patternEmpty = false
			t.next()
			if t.lastChar == eofChar {
				return t.faultKind(rdnerr.UnexpectedEndOfInput, LexError, "", "regexp literal terminates mid escape")
			}
			t.next()
		case '/':
			if patternEmpty {
				return t.fault2(LexError, "//", "regexp pattern must not be empty")
			}
			t.next()
			seen := map[byte]bool{}
			for isLetter(t.lastChar) {
				c := byte(t.lastChar)
				if !strings.ContainsRune(validRegexpFlags, rune(c)) {
					return t.fault2(LexError, string(rune(c)), "invalid regexp flag %q", rune(c))
				}
				if seen[c] {
					return t.fault2(LexError, string(rune(c)), "duplicate regexp flag %q", rune(c))
				}
				seen[c] = true
				t.next()
			}
			return Regexp, t.spanExcl(start), nil
		default:
			patternEmpty = false
			if t.overLimit(start) {
				return t.limitFault(start)
			}
			t.next()
		}
	}
}

// SplitRegexp splits a Regexp token's combined payload back into its
// pattern and flags, by re-locating the first unescaped '/'.
func SplitRegexp(raw []byte) (pattern, flags []byte) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' {
			i++
			continue
		}
		if raw[i] == '/' {
			return raw[:i], raw[i+1:]
		}
	}
	return raw, nil
}

func isTemporalBodyChar(ch int) bool {
	if isDigit(ch) || isLetter(ch) {
		return true
	}
	switch ch {
	case '-', '.', ':':
		return true
	}
	return false
}

// scanTemporal reads an @-prefixed literal body and classifies +
// validates it per RDN §4.1.3, dispatching to package rdntime for the
// actual grammar. The '@' has already been consumed.
func (t *Tokenizer) scanTemporal() (Kind, []byte, error) {
	start := t.markStart()
	if !isTemporalBodyChar(t.lastChar) {
		return t.fault2(LexError, "@", "expected a temporal literal body after '@'")
	}
	for isTemporalBodyChar(t.lastChar) {
		t.next()
	}
	body := t.spanExcl(start)
	text := string(body)

	isDurationBody := text[0] == 'P' || (text[0] == '-' && len(text) > 1 && text[1] == 'P')
	fourDigitsThenDash := len(text) >= 5 && allDigits(text[:4]) && text[4] == '-'

	switch {
	case isDurationBody:
		if _, err := rdntime.ParseDuration(text); err != nil {
			return t.fault2(LexError, text, "invalid duration literal: %s", err)
		}
		return Duration, body, nil
	case fourDigitsThenDash:
		if _, err := rdntime.ParseDateTime(text); err != nil {
			return t.fault2(LexError, text, "invalid datetime literal: %s", err)
		}
		return DateTime, body, nil
	case allDigits(text):
		if _, err := rdntime.ParseUnixTimestamp(text); err != nil {
			return t.fault2(LexError, text, "invalid timestamp literal: %s", err)
		}
		return DateTime, body, nil
	default:
		firstNonDigit := strings.IndexFunc(text, func(r rune) bool { return r < '0' || r > '9' })
		if firstNonDigit > 0 && text[firstNonDigit] == ':' {
			if _, err := rdntime.ParseTimeOnly(text); err != nil {
				return t.fault2(LexError, text, "invalid time literal: %s", err)
			}
			return TimeOnly, body, nil
		}
		return t.fault2(LexError, text, "unrecognized temporal literal body %q", text)
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(int(s[i])) {
			return false
		}
	}
	return true
}

func (t *Tokenizer) faultKind(kind rdnerr.Kind, ret Kind, near, format string, args ...any) (Kind, []byte, error) {
	return ret, nil, t.fault(kind, near, format, args...)
}
