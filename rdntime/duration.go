package rdntime

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration parses an ISO-8601 period body of the form
// [-]P[nY][nM][nD][T[nH][nM][n(.n)?S]], per RDN §4.1.3. The leading
// '@' is not part of text.
func ParseDuration(text string) (Duration, error) {
	var d Duration
	s := text
	if s == "" {
		return d, fmt.Errorf("empty duration literal")
	}
	if s[0] == '-' {
		d.Negative = true
		s = s[1:]
	}
	if len(s) == 0 || s[0] != 'P' {
		return d, fmt.Errorf("duration must start with 'P': %q", text)
	}
	s = s[1:]
	if s == "" {
		return d, fmt.Errorf("empty body after 'P'")
	}

	datePart, timePart, hasTime := s, "", false
	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		datePart = s[:idx]
		timePart = s[idx+1:]
		hasTime = true
	}

	any := false
	order := "YMD"
	for rest := datePart; rest != ""; {
		n, unit, tail, err := scanDurationIntComponent(rest)
		if err != nil {
			return d, err
		}
		pos := strings.IndexByte(order, unit)
		if pos < 0 {
			return d, fmt.Errorf("unexpected or repeated duration unit %q in %q", unit, text)
		}
		order = order[pos+1:]
		switch unit {
		case 'Y':
			d.Years = n
		case 'M':
			d.Months = n
		case 'D':
			d.Days = n
		}
		any = true
		rest = tail
	}

	if hasTime {
		if timePart == "" {
			return d, fmt.Errorf("'T' designator with no time components: %q", text)
		}
		order = "HMS"
		for rest := timePart; rest != ""; {
			n, millis, unit, tail, err := scanDurationTimeComponent(rest)
			if err != nil {
				return d, err
			}
			pos := strings.IndexByte(order, unit)
			if pos < 0 {
				return d, fmt.Errorf("unexpected or repeated duration unit %q in %q", unit, text)
			}
			order = order[pos+1:]
			switch unit {
			case 'H':
				d.Hours = n
			case 'M':
				d.Minutes = n
			case 'S':
				d.Seconds = n
				d.Millis = millis
			}
			any = true
			rest = tail
		}
	}

	if !any {
		return d, fmt.Errorf("duration has no components: %q", text)
	}
	return d, nil
}

func scanDigitsPrefix(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

func scanDurationIntComponent(s string) (value int, unit byte, rest string, err error) {
	digits, tail := scanDigitsPrefix(s)
	if digits == "" {
		return 0, 0, s, fmt.Errorf("expected digits in duration component: %q", s)
	}
	if tail == "" {
		return 0, 0, s, fmt.Errorf("duration component missing a unit letter: %q", s)
	}
	unit = tail[0]
	if unit != 'Y' && unit != 'M' && unit != 'D' {
		return 0, 0, s, fmt.Errorf("invalid duration date unit %q", unit)
	}
	n, _ := strconv.Atoi(digits)
	return n, unit, tail[1:], nil
}

func scanDurationTimeComponent(s string) (value, millis int, unit byte, rest string, err error) {
	digits, tail := scanDigitsPrefix(s)
	if digits == "" {
		return 0, 0, 0, s, fmt.Errorf("expected digits in duration component: %q", s)
	}
	if len(tail) > 0 && tail[0] == '.' {
		fracDigits, tail2 := scanDigitsPrefix(tail[1:])
		if fracDigits == "" {
			return 0, 0, 0, s, fmt.Errorf("expected digits after '.' in duration seconds")
		}
		millis = normalizeMillis(fracDigits)
		tail = tail2
	}
	if tail == "" {
		return 0, 0, 0, s, fmt.Errorf("duration component missing a unit letter: %q", s)
	}
	unit = tail[0]
	if unit != 'H' && unit != 'M' && unit != 'S' {
		return 0, 0, 0, s, fmt.Errorf("invalid duration time unit %q", unit)
	}
	if millis != 0 && unit != 'S' {
		return 0, 0, 0, s, fmt.Errorf("fractional duration component only valid on seconds")
	}
	n, _ := strconv.Atoi(digits)
	return n, millis, unit, tail[1:], nil
}

func normalizeMillis(fracDigits string) int {
	for len(fracDigits) < 3 {
		fracDigits += "0"
	}
	n, _ := strconv.Atoi(fracDigits[:3])
	return n
}

// FormatDuration renders d per RDN §4.4.4: components present only
// when non-zero, millisecond fraction trimmed of trailing zeros, zero
// duration as "P0D".
func FormatDuration(d Duration) string {
	if d.IsZero() {
		return "P0D"
	}
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if d.Years != 0 {
		fmt.Fprintf(&b, "%dY", d.Years)
	}
	if d.Months != 0 {
		fmt.Fprintf(&b, "%dM", d.Months)
	}
	if d.Days != 0 {
		fmt.Fprintf(&b, "%dD", d.Days)
	}
	if d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 || d.Millis != 0 {
		b.WriteByte('T')
		if d.Hours != 0 {
			fmt.Fprintf(&b, "%dH", d.Hours)
		}
		if d.Minutes != 0 {
			fmt.Fprintf(&b, "%dM", d.Minutes)
		}
		if d.Seconds != 0 || d.Millis != 0 {
			if d.Millis != 0 {
				frac := strings.TrimRight(fmt.Sprintf("%03d", d.Millis), "0")
				fmt.Fprintf(&b, "%d.%sS", d.Seconds, frac)
			} else {
				fmt.Fprintf(&b, "%dS", d.Seconds)
			}
		}
	}
	return b.String()
}
