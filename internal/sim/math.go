package sim

import (
	"math"

	"curefront/internal/config"
)

// BuildCost returns the price of the next outpost given how many exist
// world-wide. The price grows linearly with the existing count.
func BuildCost(existing int, costs config.Costs) int {
	if existing < 0 {
		existing = 0
	}
	return costs.OutpostBase + costs.OutpostPerExisting*existing
}

// GlobalMultiplier returns the diminishing-returns share of the outpost
// at the given position in the global build order: 1.0 for the first,
// factor^index for the rest.
func GlobalMultiplier(index int, factor float64) float64 {
	if index <= 0 {
		return 1.0
	}
	return math.Pow(factor, float64(index))
}

// clamp01 keeps infection and cure progress inside their unit range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
