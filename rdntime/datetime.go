package rdntime

import (
	"fmt"
	"strconv"
	"time"
)

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateTime parses a "four digits followed by '-'" temporal body
// (RDN §4.1.3): a bare date, or a date plus a 'T'-joined time, with
// optional millisecond fraction and zone suffix. The result is always
// normalized to UTC.
func ParseDateTime(text string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime literal %q", text)
}

// ParseUnixTimestamp parses an all-digit temporal body as a Unix
// timestamp: seconds if 10 digits or fewer, milliseconds otherwise
// (RDN §4.1.3, §9 Open Question resolved by the 10-digit threshold).
func ParseUnixTimestamp(text string) (time.Time, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid unix timestamp %q: %w", text, err)
	}
	if len(text) <= 10 {
		return time.Unix(n, 0).UTC(), nil
	}
	return time.UnixMilli(n).UTC(), nil
}

// FormatDateTime renders t per RDN §4.4.4: UTC, 'Z' suffix, exactly
// three fractional-second digits.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
