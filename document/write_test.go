package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShtibsDev/rdn/writer"
)

func format(t *testing.T, src string, opts writer.Options) string {
	t.Helper()
	d := mustParse(t, src)
	out, err := d.Format(opts)
	require.NoError(t, err)
	return out
}

func TestWriteToMinimized(t *testing.T) {
	for _, tc := range []struct{ src, want string }{
		{`Map{"a"=>1,"b"=>2}`, `{"a"=>1,"b"=>2}`},
		{`{ "a": 1, "b": 2 }`, `{"a":1,"b":2}`},
		{`(1, "two", true)`, `(1,"two",true)`},
		{`Set{}`, `Set{}`},
		{`Map{}`, `Map{}`},
		{`{ 1, 2 }`, `{1,2}`},
		{`[null, NaN, Infinity, -Infinity]`, `[null,NaN,Infinity,-Infinity]`},
		{`123456789012345678901234567890n`, `123456789012345678901234567890n`},
		{`/^[a-z]+$/i`, `/^[a-z]+$/i`},
		{`@2024-01-15T10:30:00.000Z`, `@2024-01-15T10:30:00.000Z`},
		{`@10:30:00.250`, `@10:30:00.250`},
		{`@P1DT2H`, `@P1DT2H`},
	} {
		assert.Equal(t, tc.want, format(t, tc.src, writer.Options{}), tc.src)
	}
}

func TestWriteToIndentedMap(t *testing.T) {
	got := format(t, `Map{"a"=>1,"b"=>2}`, writer.Options{Indented: true})
	assert.Equal(t, "{\n  \"a\" => 1,\n  \"b\" => 2\n}", got)
}

func TestWriteToReencodesHexAsBase64(t *testing.T) {
	got := format(t, `x"48656c6c6f"`, writer.Options{})
	assert.Equal(t, `b"SGVsbG8="`, got)
}

func TestWriteToNormalizesUnixTimestamp(t *testing.T) {
	got := format(t, `@1705314600`, writer.Options{})
	assert.Equal(t, "@2024-01-15T10:30:00.000Z", got)
}

func TestWriteToRoundTripDeepEqual(t *testing.T) {
	sources := []string{
		`{"nan":NaN,"inf":Infinity,"negInf":-Infinity}`,
		`{"xs": [1, (2, 3)], "m": {"k" => Set{}}}`,
		`Map{ [1,2] => "pair", NaN => "odd" }`,
		`{ "lone" }`,
		`b"SGVsbG8="`,
		`"escApe\n"`,
	}
	for _, src := range sources {
		d := mustParse(t, src)
		out, err := d.Format(writer.Options{})
		require.NoError(t, err, src)
		back, err := ParseDefault([]byte(out))
		require.NoError(t, err, "re-parsing %q emitted from %q", out, src)
		assert.True(t, d.Root().Equal(back.Root()), "round trip of %q via %q", src, out)
	}
}

func TestWriteToPreservesTupleSyntax(t *testing.T) {
	got := format(t, `(1)`, writer.Options{})
	assert.Equal(t, `(1)`, got)
}
