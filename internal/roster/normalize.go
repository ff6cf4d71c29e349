package roster

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cleanCell trims whitespace and a leading BOM and folds full-width forms
// (e.g. "１８／２０") into their ASCII equivalents.
func cleanCell(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	v = norm.NFKC.String(v)
	return strings.TrimSpace(v)
}

func normalizeHeader(h string) string {
	return strings.ToLower(cleanCell(h))
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(cleanCell(s)), " ")
}

// findColumn returns the index of the first header equal to name, or -1.
func findColumn(header []string, name string) int {
	for i, h := range header {
		if normalizeHeader(h) == name {
			return i
		}
	}
	return -1
}
