package sim

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// MaxHistogramSize bounds the slots of a single histogram.
	MaxHistogramSize = 1 << 20
	// MaxParallelSlots bounds the histogram slots held by all workers of one
	// parallel run together.
	MaxParallelSlots = 1 << 24
)

// ErrHistogramTooLarge is returned when an expression's bound cannot be
// simulated within MaxHistogramSize / MaxParallelSlots.
var ErrHistogramTooLarge = errors.New("histogram too large")

// PMF is a probability mass function indexed by outcome value.
// A PMF of length zero is the explicit "no result" value returned when a
// parallel run could not start.
type PMF []float64

// Len returns the number of outcome slots.
func (p PMF) Len() int {
	return len(p)
}

// IsEmpty reports whether p carries no result.
func (p PMF) IsEmpty() bool {
	return len(p) == 0
}

// Sum returns the total mass: 1 for a normalized PMF, W for a ReduceSum merge
// of W partial PMFs, 0 for an empty or unsampled PMF.
func (p PMF) Sum() float64 {
	return floats.Sum(p)
}

// Summary describes the shape of a distribution.
type Summary struct {
	Mass   float64 `json:"mass"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P5     float64 `json:"p5"`
	P95    float64 `json:"p95"`
	Mode   int     `json:"mode"`
}

// Summary computes weighted statistics over outcome values, treating p as
// relative weights so un-normalized merges summarize the same way.
// Returns the zero Summary when p has no mass.
func (p PMF) Summary() Summary {
	mass := p.Sum()
	if len(p) == 0 || mass <= 0 {
		return Summary{}
	}
	values := make([]float64, len(p))
	for i := range values {
		values[i] = float64(i)
	}
	mean, std := stat.PopMeanStdDev(values, p)
	return Summary{
		Mass:   mass,
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, values, p),
		P5:     stat.Quantile(0.05, stat.Empirical, values, p),
		P95:    stat.Quantile(0.95, stat.Empirical, values, p),
		Mode:   floats.MaxIdx(p),
	}
}

// HistogramSize returns the number of slots needed for expr's outcomes.
// An expression with Max() == 0 still gets one slot for the outcome 0.
func HistogramSize(expr Rollable) int {
	return max(expr.Max(), 1)
}

// CheckHistogramSize reports whether expr can be simulated by the given number
// of workers (1 for a sequential run) without exceeding the slot limits.
// A negative Max means the bound overflowed and is rejected too.
func CheckHistogramSize(expr Rollable, workers int) error {
	bound := expr.Max()
	if bound < 0 || bound > MaxHistogramSize {
		return fmt.Errorf("%w: %s needs %d slots, limit %d", ErrHistogramTooLarge, expr, bound, MaxHistogramSize)
	}
	if total := HistogramSize(expr) * max(workers, 1); total > MaxParallelSlots {
		return fmt.Errorf("%w: %s on %d workers needs %d slots, limit %d",
			ErrHistogramTooLarge, expr, workers, total, MaxParallelSlots)
	}
	return nil
}

// normalize converts raw counts to probabilities. Zero total leaves zeros.
func normalize(counts []float64) PMF {
	pmf := PMF(counts)
	total := floats.Sum(counts)
	if total == 0 {
		return pmf
	}
	floats.Scale(1/total, pmf)
	return pmf
}
