package rdntime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFormatDuration(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want string
	}{
		{"P0D", "P0D"},
		{"P1D", "P1D"},
		{"P1Y2M3DT4H5M6S", "P1Y2M3DT4H5M6S"},
		{"PT1.500S", "PT1.5S"},
		{"-P1D", "-P1D"},
	} {
		d, err := ParseDuration(tc.src)
		assert.NoError(t, err, tc.src)
		assert.Equal(t, tc.want, FormatDuration(d), tc.src)
	}
}

func TestParseDurationRejectsEmptyBody(t *testing.T) {
	_, err := ParseDuration("P")
	assert.Error(t, err)
}

func TestParseDurationRejectsOutOfOrder(t *testing.T) {
	_, err := ParseDuration("P1D2Y")
	assert.Error(t, err)
}

func TestParseDateTime(t *testing.T) {
	tm, err := ParseDateTime("2024-01-15T10:30:00.000Z")
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, tm.Location())
	assert.Equal(t, "2024-01-15T10:30:00.000Z", FormatDateTime(tm))

	tm, err = ParseDateTime("2024-01-15")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-15T00:00:00.000Z", FormatDateTime(tm))
}

func TestParseUnixTimestamp(t *testing.T) {
	tm, err := ParseUnixTimestamp("1700000000")
	assert.NoError(t, err)
	assert.Equal(t, int64(1700000000), tm.Unix())

	tm, err = ParseUnixTimestamp("1700000000000")
	assert.NoError(t, err)
	assert.Equal(t, int64(1700000000), tm.Unix())
}

func TestParseTimeOnly(t *testing.T) {
	to, err := ParseTimeOnly("10:30:00")
	assert.NoError(t, err)
	assert.Equal(t, TimeOnly{10, 30, 0, 0}, to)
	assert.Equal(t, "10:30:00", to.String())

	to, err = ParseTimeOnly("10:30:00.500")
	assert.NoError(t, err)
	assert.Equal(t, TimeOnly{10, 30, 0, 500}, to)
	assert.Equal(t, "10:30:00.500", to.String())
}

func TestParseTimeOnlyRejectsOutOfRange(t *testing.T) {
	_, err := ParseTimeOnly("24:00:00")
	assert.Error(t, err)
}
