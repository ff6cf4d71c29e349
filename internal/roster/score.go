package roster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseScore converts "earned/total" into earned/total*100.
//
// Both sides must be plain decimal literals; nothing is evaluated.
func ParseScore(raw string) (float64, error) {
	earnedStr, totalStr, ok := strings.Cut(raw, "/")
	if !ok {
		return 0, fmt.Errorf("%w: %w", ErrParse, ErrNoSeparator)
	}
	earned, err := parseLiteral(earnedStr)
	if err != nil {
		return 0, err
	}
	total, err := parseLiteral(totalStr)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: %w", ErrParse, ErrZeroTotal)
	}
	pct := earned / total * 100
	if math.IsInf(pct, 0) || math.IsNaN(pct) {
		return 0, fmt.Errorf("%w: %w: %q", ErrParse, ErrOverflow, raw)
	}
	return pct, nil
}

func parseLiteral(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %w: %q", ErrParse, ErrNotNumeric, s)
	}
	return v, nil
}
