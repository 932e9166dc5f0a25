package reader

import (
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/ShtibsDev/rdn/rdnerr"
	"github.com/ShtibsDev/rdn/rdntime"
	"github.com/ShtibsDev/rdn/token"
)

// Typed accessors for the current token (RDN §4.2.5). Each either
// succeeds with the canonical value or fails with an InvalidValue fault;
// callers are expected to check Kind() first in the common case, but
// every accessor also re-validates so it never panics on a mismatched
// token.

func (r *Reader) invalidValue(format string, args ...any) error {
	off, line, col := r.tok.Pos()
	return rdnerr.New(rdnerr.InvalidValue, off, line, col, "", format, args...)
}

// GetString decodes the current String token, processing escapes.
func (r *Reader) GetString() (string, error) {
	if r.curKind != String {
		return "", r.invalidValue("current token is %s, not String", r.curKind)
	}
	s, err := token.UnescapeString(r.curRaw)
	if err != nil {
		return "", r.invalidValue("%s", err)
	}
	return s, nil
}

// GetFloat64 decodes the current Number token as a double, including
// the NaN/Infinity/-Infinity specials.
func (r *Reader) GetFloat64() (float64, error) {
	if r.curKind != Number {
		return 0, r.invalidValue("current token is %s, not Number", r.curKind)
	}
	switch string(r.curRaw) {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(string(r.curRaw), 64)
	if err != nil {
		return 0, r.invalidValue("%s", err)
	}
	return f, nil
}

// GetFloat32 narrows GetFloat64's result to a float32.
func (r *Reader) GetFloat32() (float32, error) {
	f, err := r.GetFloat64()
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// GetInt64 decodes the current Number token as a signed 64-bit integer;
// it fails if the literal has a fractional or exponent part, or
// overflows.
func (r *Reader) GetInt64() (int64, error) {
	if r.curKind != Number {
		return 0, r.invalidValue("current token is %s, not Number", r.curKind)
	}
	n, err := strconv.ParseInt(string(r.curRaw), 10, 64)
	if err != nil {
		return 0, r.invalidValue("%q is not representable as a 64-bit integer: %s", r.curRaw, err)
	}
	return n, nil
}

// GetInt32 narrows GetInt64's result, failing on overflow.
func (r *Reader) GetInt32() (int32, error) {
	n, err := r.GetInt64()
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, r.invalidValue("%d overflows a 32-bit integer", n)
	}
	return int32(n), nil
}

// GetBigInt decodes the current BigInteger token.
func (r *Reader) GetBigInt() (*big.Int, error) {
	if r.curKind != BigInteger {
		return nil, r.invalidValue("current token is %s, not BigInteger", r.curKind)
	}
	digits := r.curRaw[:len(r.curRaw)-1] // trim trailing 'n'
	n, ok := new(big.Int).SetString(string(digits), 10)
	if !ok {
		return nil, r.invalidValue("%q is not a valid big integer", r.curRaw)
	}
	return n, nil
}

// GetBool decodes the current True/False token.
func (r *Reader) GetBool() (bool, error) {
	switch r.curKind {
	case True:
		return true, nil
	case False:
		return false, nil
	default:
		return false, r.invalidValue("current token is %s, not True/False", r.curKind)
	}
}

// GetDateTime decodes the current DateTime token. A plain digit-string
// body (the Unix-timestamp form of RDN §4.1.3) is distinguished from a
// calendar date/datetime body by trying the timestamp grammar first
// only when the body contains no '-' or ':'.
func (r *Reader) GetDateTime() (time.Time, error) {
	if r.curKind != DateTime {
		return time.Time{}, r.invalidValue("current token is %s, not DateTime", r.curKind)
	}
	body := string(r.curRaw)
	if isAllDigits(body) {
		t, err := rdntime.ParseUnixTimestamp(body)
		if err != nil {
			return time.Time{}, r.invalidValue("%s", err)
		}
		return t, nil
	}
	t, err := rdntime.ParseDateTime(body)
	if err != nil {
		return time.Time{}, r.invalidValue("%s", err)
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

// GetTimeOnly decodes the current TimeOnly token.
func (r *Reader) GetTimeOnly() (rdntime.TimeOnly, error) {
	if r.curKind != TimeOnly {
		return rdntime.TimeOnly{}, r.invalidValue("current token is %s, not TimeOnly", r.curKind)
	}
	t, err := rdntime.ParseTimeOnly(string(r.curRaw))
	if err != nil {
		return rdntime.TimeOnly{}, r.invalidValue("%s", err)
	}
	return t, nil
}

// GetDuration decodes the current Duration token.
func (r *Reader) GetDuration() (rdntime.Duration, error) {
	if r.curKind != Duration {
		return rdntime.Duration{}, r.invalidValue("current token is %s, not Duration", r.curKind)
	}
	d, err := rdntime.ParseDuration(string(r.curRaw))
	if err != nil {
		return rdntime.Duration{}, r.invalidValue("%s", err)
	}
	return d, nil
}

// GetBinary decodes the current Binary token's bytes.
func (r *Reader) GetBinary() ([]byte, error) {
	if r.curKind != Binary {
		return nil, r.invalidValue("current token is %s, not Binary", r.curKind)
	}
	data, err := token.DecodeBinary(r.curRaw, r.curBinaryIsHex)
	if err != nil {
		return nil, r.invalidValue("%s", err)
	}
	return data, nil
}

// GetRegexp decodes the current RegExp token into pattern and flags.
func (r *Reader) GetRegexp() (pattern, flags string, err error) {
	if r.curKind != RegExp {
		return "", "", r.invalidValue("current token is %s, not RegExp", r.curKind)
	}
	p, f := token.SplitRegexp(r.curRaw)
	return string(p), string(f), nil
}

// PropertyNameEquals reports whether the current PropertyName token
// denotes name, without necessarily decoding escapes: it compares raw
// bytes directly when name needs no escaping in RDN's string grammar
// (RDN §4.3.1), falling back to a decoded comparison otherwise.
func (r *Reader) PropertyNameEquals(name string) (bool, error) {
	if r.curKind != PropertyName {
		return false, r.invalidValue("current token is %s, not PropertyName", r.curKind)
	}
	if !needsEscaping(name) && string(r.curRaw) == name {
		return true, nil
	}
	decoded, err := token.UnescapeString(r.curRaw)
	if err != nil {
		return false, r.invalidValue("%s", err)
	}
	return decoded == name, nil
}

func needsEscaping(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' || c < 0x20 {
			return true
		}
	}
	return false
}
