package document

import (
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/ShtibsDev/rdn/rdntime"
	"github.com/ShtibsDev/rdn/token"
)

// Typed accessors mirror reader.Reader's (RDN §4.2.5), operating on an
// already-built Element instead of a live token stream.

func decodeString(n Node) (string, error) {
	return token.UnescapeString(n.Payload)
}

// GetString decodes a String element, processing escapes.
func (e Element) GetString() (string, error) {
	if e.Kind() != String {
		return "", e.invalid("element is %s, not String", e.Kind())
	}
	s, err := decodeString(e.node())
	if err != nil {
		return "", e.invalid("%s", err)
	}
	return s, nil
}

// GetFloat64 decodes a Number element as a double, including the
// NaN/Infinity/-Infinity specials.
func (e Element) GetFloat64() (float64, error) {
	if e.Kind() != Number {
		return 0, e.invalid("element is %s, not Number", e.Kind())
	}
	raw := e.Raw()
	switch string(raw) {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, e.invalid("%s", err)
	}
	return f, nil
}

// GetFloat32 narrows GetFloat64's result to a float32.
func (e Element) GetFloat32() (float32, error) {
	f, err := e.GetFloat64()
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// GetInt64 decodes a Number element as a signed 64-bit integer.
func (e Element) GetInt64() (int64, error) {
	if e.Kind() != Number {
		return 0, e.invalid("element is %s, not Number", e.Kind())
	}
	n, err := strconv.ParseInt(string(e.Raw()), 10, 64)
	if err != nil {
		return 0, e.invalid("%q is not representable as a 64-bit integer: %s", e.Raw(), err)
	}
	return n, nil
}

// GetInt32 narrows GetInt64's result, failing on overflow.
func (e Element) GetInt32() (int32, error) {
	n, err := e.GetInt64()
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, e.invalid("%d overflows a 32-bit integer", n)
	}
	return int32(n), nil
}

// GetBigInt decodes a BigInteger element.
func (e Element) GetBigInt() (*big.Int, error) {
	if e.Kind() != BigInteger {
		return nil, e.invalid("element is %s, not BigInteger", e.Kind())
	}
	raw := e.Raw()
	digits := raw[:len(raw)-1] // trim trailing 'n'
	n, ok := new(big.Int).SetString(string(digits), 10)
	if !ok {
		return nil, e.invalid("%q is not a valid big integer", raw)
	}
	return n, nil
}

// GetBool decodes a True/False element.
func (e Element) GetBool() (bool, error) {
	switch e.Kind() {
	case True:
		return true, nil
	case False:
		return false, nil
	default:
		return false, e.invalid("element is %s, not True/False", e.Kind())
	}
}

// GetDateTime decodes a DateTime element.
func (e Element) GetDateTime() (time.Time, error) {
	if e.Kind() != DateTime {
		return time.Time{}, e.invalid("element is %s, not DateTime", e.Kind())
	}
	body := string(e.Raw())
	if isAllDigits(body) {
		t, err := rdntime.ParseUnixTimestamp(body)
		if err != nil {
			return time.Time{}, e.invalid("%s", err)
		}
		return t, nil
	}
	t, err := rdntime.ParseDateTime(body)
	if err != nil {
		return time.Time{}, e.invalid("%s", err)
	}
	return t, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// GetTimeOnly decodes a TimeOnly element.
func (e Element) GetTimeOnly() (rdntime.TimeOnly, error) {
	if e.Kind() != TimeOnly {
		return rdntime.TimeOnly{}, e.invalid("element is %s, not TimeOnly", e.Kind())
	}
	t, err := rdntime.ParseTimeOnly(string(e.Raw()))
	if err != nil {
		return rdntime.TimeOnly{}, e.invalid("%s", err)
	}
	return t, nil
}

// GetDuration decodes a Duration element.
func (e Element) GetDuration() (rdntime.Duration, error) {
	if e.Kind() != Duration {
		return rdntime.Duration{}, e.invalid("element is %s, not Duration", e.Kind())
	}
	d, err := rdntime.ParseDuration(string(e.Raw()))
	if err != nil {
		return rdntime.Duration{}, e.invalid("%s", err)
	}
	return d, nil
}

// GetBinary decodes a Binary element's bytes.
func (e Element) GetBinary() ([]byte, error) {
	if e.Kind() != Binary {
		return nil, e.invalid("element is %s, not Binary", e.Kind())
	}
	data, err := token.DecodeBinary(e.Raw(), e.node().BinaryIsHex)
	if err != nil {
		return nil, e.invalid("%s", err)
	}
	return data, nil
}

// GetRegexp decodes a RegExp element into pattern and flags.
func (e Element) GetRegexp() (pattern, flags string, err error) {
	if e.Kind() != RegExp {
		return "", "", e.invalid("element is %s, not RegExp", e.Kind())
	}
	p, f := token.SplitRegexp(e.Raw())
	return string(p), string(f), nil
}
