package resolve

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCoordinates parses flexible coordinate input into (ra, dec) degrees.
// It tries, in order: a decimal-degree pair ("150.0 2.2" or "150.0, 2.2"),
// a sexagesimal pair ("10:00:00 +02:12:00"), and finally name resolution
// via Sesame.
func (r *Resolver) ParseCoordinates(text string) (ra, dec float64, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, 0, fmt.Errorf("empty coordinate string")
	}

	parts := strings.Fields(strings.ReplaceAll(text, ",", " "))
	if len(parts) == 2 {
		ra, errRA := strconv.ParseFloat(parts[0], 64)
		dec, errDec := strconv.ParseFloat(parts[1], 64)
		if errRA == nil && errDec == nil {
			if ra >= 0 && ra <= 360 && dec >= -90 && dec <= 90 {
				return ra, dec, nil
			}
		}

		if ra, dec, err := parseSexagesimal(parts[0], parts[1]); err == nil {
			return ra, dec, nil
		}
	}

	return r.ResolveName(text)
}

// parseSexagesimal parses an "HH:MM:SS ±DD:MM:SS" pair.  The first part is
// an hour angle (15 degrees per hour), the second is declination in
// degrees.
func parseSexagesimal(raStr, decStr string) (ra, dec float64, err error) {
	hours, err := parseParts(raStr)
	if err != nil {
		return 0, 0, err
	}
	ra = hours * 15
	if ra < 0 || ra >= 360 {
		return 0, 0, fmt.Errorf("right ascension %q out of range", raStr)
	}

	dec, err = parseParts(decStr)
	if err != nil {
		return 0, 0, err
	}
	if dec < -90 || dec > 90 {
		return 0, 0, fmt.Errorf("declination %q out of range", decStr)
	}
	return ra, dec, nil
}

// parseParts converts a colon-separated sexagesimal value into a decimal
// number, preserving the sign of the leading component.
func parseParts(s string) (float64, error) {
	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1.0
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid sexagesimal value %q", s)
	}

	value := 0.0
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid sexagesimal value %q", s)
		}
		if i > 0 && (v < 0 || v >= 60) {
			return 0, fmt.Errorf("invalid sexagesimal value %q", s)
		}
		value += v / math.Pow(60, float64(i))
	}
	return sign * value, nil
}
