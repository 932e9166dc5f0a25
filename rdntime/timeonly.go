package rdntime

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimeOnly parses a "digit(s) followed by ':'" temporal body
// (RDN §4.1.3): HH:MM:SS with an optional millisecond fraction.
func ParseTimeOnly(text string) (TimeOnly, error) {
	parts := strings.SplitN(text, ":", 3)
	if len(parts) != 3 {
		return TimeOnly{}, fmt.Errorf("invalid time literal %q", text)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOnly{}, fmt.Errorf("invalid hour in time literal %q", text)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOnly{}, fmt.Errorf("invalid minute in time literal %q", text)
	}

	secText := parts[2]
	millis := 0
	if idx := strings.IndexByte(secText, '.'); idx >= 0 {
		fracDigits := secText[idx+1:]
		if fracDigits == "" {
			return TimeOnly{}, fmt.Errorf("expected digits after '.' in time literal %q", text)
		}
		millis = normalizeMillis(fracDigits)
		secText = secText[:idx]
	}
	second, err := strconv.Atoi(secText)
	if err != nil {
		return TimeOnly{}, fmt.Errorf("invalid second in time literal %q", text)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOnly{}, fmt.Errorf("time component out of range: %q", text)
	}
	return TimeOnly{Hour: hour, Minute: minute, Second: second, Millisecond: millis}, nil
}
