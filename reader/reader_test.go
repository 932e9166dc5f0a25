package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenTok struct {
	kind Kind
	raw  string
}

func drain(t *testing.T, src string, opts Options) []seenTok {
	t.Helper()
	r := New([]byte(src), opts)
	var out []seenTok
	for r.Read() {
		out = append(out, seenTok{r.Kind(), string(r.Raw())})
	}
	require.NoError(t, r.Err(), "input: %s", src)
	return out
}

func kinds(toks []seenTok) []Kind {
	out := make([]Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.kind
	}
	return out
}

func TestEmptyObject(t *testing.T) {
	toks := drain(t, `{}`, Options{})
	assert.Equal(t, []Kind{StartObject, EndObject}, kinds(toks))
}

func TestObjectWithColon(t *testing.T) {
	toks := drain(t, `{ "a": 1 }`, Options{})
	assert.Equal(t, []Kind{StartObject, PropertyName, Number, EndObject}, kinds(toks))
}

func TestMapWithArrow(t *testing.T) {
	toks := drain(t, `{ "a" => 1 }`, Options{})
	assert.Equal(t, []Kind{StartMap, String, MapArrow, Number, EndMap}, kinds(toks))
}

func TestSetWithCommaPair(t *testing.T) {
	toks := drain(t, `{ "a", "b" }`, Options{})
	assert.Equal(t, []Kind{StartSet, String, String, EndSet}, kinds(toks))
}

func TestSetWithSingleBareValue(t *testing.T) {
	toks := drain(t, `{ "x" }`, Options{})
	assert.Equal(t, []Kind{StartSet, String}, kinds(toks)[:2])
	assert.Equal(t, EndSet, kinds(toks)[2])
}

func TestObjectMultipleProps(t *testing.T) {
	toks := drain(t, `{ "a": 1, "b": 2 }`, Options{})
	assert.Equal(t, []Kind{StartObject, PropertyName, Number, PropertyName, Number, EndObject}, kinds(toks))
}

func TestExplicitEmptySetAndMap(t *testing.T) {
	assert.Equal(t, []Kind{StartSet, EndSet}, kinds(drain(t, `Set{}`, Options{})))
	assert.Equal(t, []Kind{StartMap, EndMap}, kinds(drain(t, `Map{}`, Options{})))
}

func TestBareScalarSets(t *testing.T) {
	for _, src := range []string{"{ 1 }", "{ true }", "{ null }", "{ NaN }", "{ Infinity }", "{ -Infinity }"} {
		toks := drain(t, src, Options{})
		require.Len(t, toks, 3, src)
		assert.Equal(t, StartSet, toks[0].kind, src)
		assert.Equal(t, EndSet, toks[2].kind, src)
	}
}

func TestMapWithNumericKey(t *testing.T) {
	toks := drain(t, `{ 1 => "a" }`, Options{})
	assert.Equal(t, []Kind{StartMap, Number, MapArrow, String, EndMap}, kinds(toks))
}

func TestMapWithArrayKey(t *testing.T) {
	toks := drain(t, `{ [1,2] => "pair" }`, Options{})
	assert.Equal(t, []Kind{StartMap, StartArray, Number, Number, EndArray, MapArrow, String, EndMap}, kinds(toks))
}

func TestNestedAmbiguousContainers(t *testing.T) {
	// The outer container's first element is itself an ambiguous
	// container; the lookahead must skip over it wholesale to find the
	// outer separator.
	toks := drain(t, `{ {"a": 1}, {"b": 2} }`, Options{})
	assert.Equal(t, []Kind{
		StartSet,
		StartObject, PropertyName, Number, EndObject,
		StartObject, PropertyName, Number, EndObject,
		EndSet,
	}, kinds(toks))
}

func TestTuple(t *testing.T) {
	toks := drain(t, `(1, "two", true)`, Options{})
	assert.Equal(t, []Kind{StartTuple, Number, String, True, EndTuple}, kinds(toks))
}

func TestArrayEmpty(t *testing.T) {
	assert.Equal(t, []Kind{StartArray, EndArray}, kinds(drain(t, `[]`, Options{})))
}

func TestTupleEmpty(t *testing.T) {
	assert.Equal(t, []Kind{StartTuple, EndTuple}, kinds(drain(t, `()`, Options{})))
}

func TestSingleElementTuple(t *testing.T) {
	toks := drain(t, `(42)`, Options{})
	assert.Equal(t, []Kind{StartTuple, Number, EndTuple}, kinds(toks))
}

func TestTrailingCommaRejectedByDefault(t *testing.T) {
	r := New([]byte(`(1, 2,)`), Options{})
	for r.Read() {
	}
	assert.Error(t, r.Err())
}

func TestTrailingCommaAllowed(t *testing.T) {
	toks := drain(t, `(1, 2,)`, Options{AllowTrailingCommas: true})
	assert.Equal(t, []Kind{StartTuple, Number, Number, EndTuple}, kinds(toks))
}

func TestMismatchedBracketsFault(t *testing.T) {
	r := New([]byte(`[1, 2)`), Options{})
	for r.Read() {
	}
	assert.Error(t, r.Err())
}

func TestDepthExceeded(t *testing.T) {
	r := New([]byte(`[[[[1]]]]`), Options{MaxDepth: 2})
	for r.Read() {
	}
	require.Error(t, r.Err())
}

func TestObjectPropertyMustBeString(t *testing.T) {
	r := New([]byte(`{1: 2}`), Options{})
	for r.Read() {
	}
	assert.Error(t, r.Err())
}

func TestCommentsSkippedWhenEnabled(t *testing.T) {
	toks := drain(t, "[1, /* comment */ 2]", Options{CommentHandling: 1})
	assert.Equal(t, []Kind{StartArray, Number, Number, EndArray}, kinds(toks))
}

func TestCommentsRejectedByDefault(t *testing.T) {
	r := New([]byte("[1, /* comment */ 2]"), Options{})
	for r.Read() {
	}
	assert.Error(t, r.Err())
}

func TestAllowMultipleValues(t *testing.T) {
	toks := drain(t, `1 2 3`, Options{AllowMultipleValues: true})
	assert.Equal(t, []Kind{Number, Number, Number}, kinds(toks))
}

func TestSingleDocumentRejectsTrailingContent(t *testing.T) {
	r := New([]byte(`1 2`), Options{})
	for r.Read() {
	}
	assert.Error(t, r.Err())
}

func TestTypedAccessors(t *testing.T) {
	r := New([]byte(`{"nan":NaN,"inf":Infinity,"negInf":-Infinity}`), Options{})
	require.True(t, r.Read())
	assert.Equal(t, StartObject, r.Kind())

	require.True(t, r.Read())
	ok, err := r.PropertyNameEquals("nan")
	require.NoError(t, err)
	assert.True(t, ok)

	require.True(t, r.Read())
	f, err := r.GetFloat64()
	require.NoError(t, err)
	assert.True(t, f != f) // NaN

	require.True(t, r.Read()) // "inf" propname
	require.True(t, r.Read())
	f, err = r.GetFloat64()
	require.NoError(t, err)
	assert.True(t, f > 0 && f*2 == f) // +Inf

	require.True(t, r.Read()) // "negInf" propname
	require.True(t, r.Read())
	f, err = r.GetFloat64()
	require.NoError(t, err)
	assert.True(t, f < 0 && f*2 == f) // -Inf
}

func TestGetBinary(t *testing.T) {
	r := New([]byte(`b"SGVsbG8="`), Options{})
	require.True(t, r.Read())
	data, err := r.GetBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), data)
}

func TestGetBigInt(t *testing.T) {
	r := New([]byte(`123456789012345678901234567890n`), Options{})
	require.True(t, r.Read())
	n, err := r.GetBigInt()
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", n.String())
}

func TestGetDateTime(t *testing.T) {
	r := New([]byte(`@2024-01-15T10:30:00.000Z`), Options{})
	require.True(t, r.Read())
	tm, err := r.GetDateTime()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T10:30:00.000Z", tm.UTC().Format("2006-01-02T15:04:05.000Z"))
}

func TestGetRegexp(t *testing.T) {
	r := New([]byte(`/^[a-z]+$/i`), Options{})
	require.True(t, r.Read())
	pattern, flags, err := r.GetRegexp()
	require.NoError(t, err)
	assert.Equal(t, "^[a-z]+$", pattern)
	assert.Equal(t, "i", flags)
}

func TestGetDuration(t *testing.T) {
	r := New([]byte(`@P1D`), Options{})
	require.True(t, r.Read())
	d, err := r.GetDuration()
	require.NoError(t, err)
	assert.Equal(t, 1, d.Days)
}

func TestNeedMoreData(t *testing.T) {
	r := New([]byte(`[1, 2`), Options{})
	for r.Read() {
	}
	require.Error(t, r.Err())
	assert.True(t, r.NeedMoreData())

	r = New([]byte(`[1, 2]`), Options{})
	for r.Read() {
	}
	require.NoError(t, r.Err())
	assert.False(t, r.NeedMoreData())

	r = New([]byte(`[1, 2)`), Options{})
	for r.Read() {
	}
	require.Error(t, r.Err())
	assert.False(t, r.NeedMoreData(), "a structural fault is not a need-more-data signal")
}

func TestPeekDoesNotConsume(t *testing.T) {
	r := New([]byte(`[1, 2]`), Options{})
	k, err := r.Peek()
	require.NoError(t, err)
	assert.Equal(t, StartArray, k)
	require.True(t, r.Read())
	assert.Equal(t, StartArray, r.Kind())
}
