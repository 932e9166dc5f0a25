package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanAll(t *testing.T, src string) []struct {
	kind Kind
	text string
} {
	t.Helper()
	tok := New([]byte(src))
	var out []struct {
		kind Kind
		text string
	}
	for {
		k, text, err := tok.Scan()
		if err != nil {
			t.Fatalf("unexpected scan error: %v", err)
		}
		out = append(out, struct {
			kind Kind
			text string
		}{k, string(text)})
		if k == EOF {
			return out
		}
	}
}

func TestScanPunctuation(t *testing.T) {
	got := scanAll(t, `{}[](),:=>`)
	want := []Kind{LBrace, RBrace, LBracket, RBracket, LParen, RParen, Comma, Colon, Arrow, EOF}
	assert.Equal(t, len(want), len(got))
	for i, k := range want {
		assert.Equal(t, k, got[i].kind)
	}
}

func TestScanKeywords(t *testing.T) {
	for _, tc := range []struct {
		src  string
		kind Kind
	}{
		{"true", True},
		{"false", False},
		{"null", Null},
		{"NaN", Number},
		{"Infinity", Number},
		{"-Infinity", Number},
	} {
		tok := New([]byte(tc.src))
		k, text, err := tok.Scan()
		assert.NoError(t, err)
		assert.Equal(t, tc.kind, k)
		assert.Equal(t, tc.src, string(text))
	}
}

func TestScanSetMapWords(t *testing.T) {
	tok := New([]byte(`Set{1,2}`))
	k, text, err := tok.Scan()
	assert.NoError(t, err)
	assert.Equal(t, SetWord, k)
	assert.Equal(t, "Set", string(text))

	k, _, err = tok.Scan()
	assert.NoError(t, err)
	assert.Equal(t, LBrace, k)
}

func TestScanNumbers(t *testing.T) {
	for _, tc := range []struct {
		src  string
		kind Kind
	}{
		{"0", Number},
		{"42", Number},
		{"-17", Number},
		{"3.14", Number},
		{"-0.5", Number},
		{"1e10", Number},
		{"1.5e-10", Number},
		{"123n", BigInteger},
		{"-123n", BigInteger},
	} {
		tok := New([]byte(tc.src))
		k, text, err := tok.Scan()
		assert.NoError(t, err, tc.src)
		assert.Equal(t, tc.kind, k, tc.src)
		assert.Equal(t, tc.src, string(text), tc.src)
	}
}

func TestScanNumberRejectsLeadingZero(t *testing.T) {
	tok := New([]byte("0123"))
	_, _, err := tok.Scan()
	assert.Error(t, err)
}

func TestScanString(t *testing.T) {
	tok := New([]byte(`"hello \"world\"\n"`))
	k, text, err := tok.Scan()
	assert.NoError(t, err)
	assert.Equal(t, String, k)
	assert.Equal(t, `hello \"world\"\n`, string(text))
}

func TestScanStringRejectsBadEscape(t *testing.T) {
	tok := New([]byte(`"\q"`))
	_, _, err := tok.Scan()
	assert.Error(t, err)
}

func TestScanStringRejectsControlByte(t *testing.T) {
	tok := New([]byte("\"a\tb\""))
	_, _, err := tok.Scan()
	assert.Error(t, err)
}

func TestScanBinary(t *testing.T) {
	tok := New([]byte(`b"SGVsbG8="`))
	k, text, err := tok.Scan()
	assert.NoError(t, err)
	assert.Equal(t, Binary, k)
	assert.Equal(t, "SGVsbG8=", string(text))

	tok = New([]byte(`x"48656c6c6f"`))
	k, text, err = tok.Scan()
	assert.NoError(t, err)
	assert.Equal(t, Binary, k)
	assert.Equal(t, "48656c6c6f", string(text))
}

func TestScanBinaryRejectsOddHex(t *testing.T) {
	tok := New([]byte(`x"abc"`))
	_, _, err := tok.Scan()
	assert.Error(t, err)
}

func TestScanRegexp(t *testing.T) {
	tok := New([]byte(`/a\/b/gi`))
	k, text, err := tok.Scan()
	assert.NoError(t, err)
	assert.Equal(t, Regexp, k)
	pattern, flags := SplitRegexp(text)
	assert.Equal(t, `a\/b`, string(pattern))
	assert.Equal(t, "gi", string(flags))
}

func TestScanRegexpRejectsEmptyPattern(t *testing.T) {
	tok := New([]byte(`//`))
	_, _, err := tok.Scan()
	assert.Error(t, err)
}

func TestScanRegexpRejectsDuplicateFlag(t *testing.T) {
	tok := New([]byte(`/abc/gg`))
	_, _, err := tok.Scan()
	assert.Error(t, err)
}

func TestScanTemporal(t *testing.T) {
	for _, tc := range []struct {
		src  string
		kind Kind
	}{
		{"@2024-01-15", DateTime},
		{"@2024-01-15T10:30:00.000Z", DateTime},
		{"@10:30:00", TimeOnly},
		{"@10:30:00.500", TimeOnly},
		{"@P1D", Duration},
		{"@P1Y2M3DT4H5M6.5S", Duration},
		{"@-P1D", Duration},
		{"@1700000000", DateTime},
		{"@1700000000000", DateTime},
	} {
		tok := New([]byte(tc.src))
		k, _, err := tok.Scan()
		assert.NoError(t, err, tc.src)
		assert.Equal(t, tc.kind, k, tc.src)
	}
}

func TestScanTemporalRejectsEmptyBody(t *testing.T) {
	tok := New([]byte("@"))
	_, _, err := tok.Scan()
	assert.Error(t, err)
}

func TestCommentHandling(t *testing.T) {
	tok := New([]byte("1 // trailing\n2"))
	_, _, err := tok.Scan()
	assert.NoError(t, err)
	// Comments disallowed by default: the '//' should scan as an
	// (invalid, empty-pattern) regexp rather than be skipped.
	_, _, err = tok.Scan()
	assert.Error(t, err)

	tok = New([]byte("1 // trailing\n2"))
	tok.AllowComments = Skip
	k1, t1, err := tok.Scan()
	assert.NoError(t, err)
	assert.Equal(t, Number, k1)
	assert.Equal(t, "1", string(t1))
	k2, t2, err := tok.Scan()
	assert.NoError(t, err)
	assert.Equal(t, Number, k2)
	assert.Equal(t, "2", string(t2))
}

func TestTokenSizeLimit(t *testing.T) {
	long := `"` + strings.Repeat("a", 64) + `"`
	tok := New([]byte(long))
	tok.MaxTokenSize = 16
	_, _, err := tok.Scan()
	assert.ErrorContains(t, err, "LimitExceeded")

	tok = New([]byte(long))
	_, _, err = tok.Scan()
	assert.NoError(t, err, "default limit must not trip on small tokens")
}

func TestScanBlockComment(t *testing.T) {
	tok := New([]byte("/* c */1"))
	tok.AllowComments = Skip
	k, text, err := tok.Scan()
	assert.NoError(t, err)
	assert.Equal(t, Number, k)
	assert.Equal(t, "1", string(text))
}
