package token

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// UnescapeString decodes a String token's raw (still-escaped) payload
// per the canonical escape table of RDN §4.1.1/§4.4.2. raw must already
// be known-valid (i.e. it came from a successful Scan()); this function
// assumes well-formed escapes and only needs to exist because the
// tokenizer itself defers decoding (RDN §3.2's "decoding is lazy").
func UnescapeString(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("string payload is not valid UTF-8")
	}
	if !hasBackslash(raw) {
		return string(raw), nil
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(raw) {
			return "", fmt.Errorf("string terminates mid escape sequence")
		}
		switch raw[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, consumed, err := decodeUnicodeEscape(raw[i+1:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += consumed
		default:
			return "", fmt.Errorf("invalid escape sequence '\\%c'", raw[i])
		}
	}
	return b.String(), nil
}

func hasBackslash(raw []byte) bool {
	for _, c := range raw {
		if c == '\\' {
			return true
		}
	}
	return false
}

func decodeUnicodeEscape(rest []byte) (rune, int, error) {
	if len(rest) < 4 {
		return 0, 0, fmt.Errorf("truncated \\u escape")
	}
	hi, err := hex.DecodeString(string(rest[:4]))
	if err != nil || len(hi) != 2 {
		return 0, 0, fmt.Errorf("invalid \\u escape %q", rest[:4])
	}
	r1 := rune(hi[0])<<8 | rune(hi[1])
	if utf16.IsSurrogate(r1) {
		if len(rest) >= 10 && rest[4] == '\\' && rest[5] == 'u' {
			lo, err := hex.DecodeString(string(rest[6:10]))
			if err == nil && len(lo) == 2 {
				r2 := rune(lo[0])<<8 | rune(lo[1])
				if combined := utf16.DecodeRune(r1, r2); combined != utf8.RuneError {
					return combined, 10, nil
				}
			}
		}
		return utf8.RuneError, 4, nil
	}
	return r1, 4, nil
}

// DecodeBinary decodes a Binary token's raw payload (the quoted content
// only, no prefix letter or quotes) per RDN §4.1.4/§3.3 invariant 6:
// base64 for b"...", lowercase/uppercase hex for x"...".
func DecodeBinary(raw []byte, isHex bool) ([]byte, error) {
	if isHex {
		return hex.DecodeString(string(raw))
	}
	return base64.StdEncoding.DecodeString(string(raw))
}

// EncodeBinaryBase64 renders data as a b"..." literal body (content
// only, no quotes/prefix), the writer's default binary encoding per
// RDN §3.3 invariant 6.
func EncodeBinaryBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// EncodeBinaryHex renders data as an x"..." literal body (content only),
// lowercase per convention.
func EncodeBinaryHex(data []byte) string {
	return hex.EncodeToString(data)
}
