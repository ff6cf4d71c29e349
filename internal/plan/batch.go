package plan

import "github.com/mind-engage/mindengage-batches/internal/roster"

// SplitByTier partitions records into High, Medium and Low pools, keeping
// input order inside each pool.
func SplitByTier(records []roster.StudentRecord) (high, medium, low []roster.StudentRecord) {
	for _, r := range records {
		switch r.Tier {
		case roster.TierHigh:
			high = append(high, r)
		case roster.TierMedium:
			medium = append(medium, r)
		default:
			low = append(low, r)
		}
	}
	return high, medium, low
}

// BuildBatches groups the pools using DefaultComposition.
func BuildBatches(high, medium, low []roster.StudentRecord) []Batch {
	return DefaultComposition.Build(high, medium, low)
}

// Build carves batches off the three pools until all are drained. Each
// batch takes up to c.High from high, then c.Medium from medium, then c.Low
// from low. Once a pool runs dry the remaining pools keep draining alone,
// still capped by their quota. A composition that fails Validate yields no
// batches, since a zero quota would never drain its pool.
func (c Composition) Build(high, medium, low []roster.StudentRecord) []Batch {
	if c.Validate() != nil {
		return nil
	}
	pools := []struct {
		items []roster.StudentRecord
		quota int
	}{
		{high, c.High},
		{medium, c.Medium},
		{low, c.Low},
	}

	var batches []Batch
	for {
		members := make([]roster.StudentRecord, 0, c.Size())
		for i := range pools {
			n := min(pools[i].quota, len(pools[i].items))
			members = append(members, pools[i].items[:n]...)
			pools[i].items = pools[i].items[n:]
		}
		// nothing taken: either every pool is empty or no quota can drain
		// what is left
		if len(members) == 0 {
			return batches
		}
		batches = append(batches, Batch{ID: len(batches) + 1, Students: members})
	}
}
