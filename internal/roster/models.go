package roster

// Tier is a performance band derived from a percentage score.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "Low"
	case TierMedium:
		return "Medium"
	case TierHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// MarshalText renders the tier as "Low", "Medium" or "High".
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
