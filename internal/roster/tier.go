package roster

// Tier boundaries are inclusive at the top: 40 is Low, 70 is Medium.
const (
	lowCeiling    = 40.0
	mediumCeiling = 70.0
)

// Categorize maps a percentage to its tier. Out-of-range values are not
// clamped: anything above 100 is High and anything below 0 is Low.
func Categorize(p float64) Tier {
	switch {
	case p <= lowCeiling:
		return TierLow
	case p <= mediumCeiling:
		return TierMedium
	default:
		return TierHigh
	}
}

// InRange reports whether p is a plausible percentage.
func InRange(p float64) bool { return p >= 0 && p <= 100 }
