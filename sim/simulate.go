package sim

import (
	"fmt"
	"math/rand"
)

// Simulate rolls expr iterations times and returns the normalized histogram
// of outcomes. The histogram has HistogramSize(expr) slots.
//
// Simulate panics if a roll lands outside the histogram: that means Max and
// Roll disagree, which is a bug in the Rollable, not bad input.
// iterations <= 0 returns an all-zero PMF of the same size. Simulate allocates
// the histogram unchecked; callers taking untrusted input go through Run or
// CheckHistogramSize first.
func Simulate(expr Rollable, iterations int, rng *rand.Rand) PMF {
	bound := HistogramSize(expr)
	counts := make([]float64, bound)
	for range max(iterations, 0) {
		outcome := expr.Roll(rng, nil)
		if outcome < 0 || outcome >= bound {
			panic(fmt.Sprintf("sim: %s rolled %d outside histogram [0, %d)", expr, outcome, bound))
		}
		counts[outcome]++
	}
	return normalize(counts)
}

// SimulateSeeded runs Simulate with the sequential RNG derived from key.
func SimulateSeeded(expr Rollable, iterations int, key SimulationKey) PMF {
	rng := NewPartitionedRNG(key).ForSubsystem(SubsystemSequential)
	return Simulate(expr, iterations, rng)
}
