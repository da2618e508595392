package core

import (
	"testing"

	"github.com/apexmetrics/stintlab/schema"
)

// FuzzTierForPosition fuzzes the tier assignment with arbitrary rank and
// field-size combinations.
func FuzzTierForPosition(f *testing.F) {
	f.Add(1, 20)
	f.Add(20, 20)
	f.Add(1, 1)
	f.Add(3, 5)
	f.Add(0, 0)
	f.Add(-5, 100)
	f.Add(500, 3)

	cutoffs := schema.GetDefaultTierCutoffs()
	valid := map[schema.Tier]bool{
		schema.TierElite:      true,
		schema.TierExcellent:  true,
		schema.TierGood:       true,
		schema.TierAverage:    true,
		schema.TierDeveloping: true,
	}

	f.Fuzz(func(t *testing.T, rank, fieldSize int) {
		tier := TierForPosition(rank, fieldSize, cutoffs)
		if !valid[tier] {
			t.Errorf("TierForPosition(%d, %d) returned unknown tier %q", rank, fieldSize, tier)
		}

		// The last position of any non-empty field always covers fraction 1.
		if fieldSize > 0 {
			if got := TierForPosition(fieldSize, fieldSize, cutoffs); got != schema.TierDeveloping {
				t.Errorf("last of %d got tier %q, want developing", fieldSize, got)
			}
		}
	})
}
