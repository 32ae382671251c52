package sim

import (
	"errors"
	"time"
)

// ErrParallelUnavailable is returned by Run when the worker pool could not start.
var ErrParallelUnavailable = errors.New("parallel simulation unavailable")

// Result is the outcome of a scenario run.
type Result struct {
	Expression string  `json:"expression"`
	Max        int     `json:"max"`
	Requested  int     `json:"requested_iterations"`
	Iterations int     `json:"iterations"` // trials actually simulated
	Workers    int     `json:"workers"`
	PMF        PMF     `json:"pmf"`
	Summary    Summary `json:"summary"`
	ElapsedMs  float64 `json:"elapsed_ms"`
}

// Run validates sc, builds its expression and simulates it, sequentially or
// on a worker pool. Expressions whose histogram would exceed the slot limits
// fail with ErrHistogramTooLarge before anything is allocated.
func Run(sc *Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	expr, err := sc.Expression()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Expression: expr.String(),
		Max:        expr.Max(),
		Requested:  sc.Iterations,
		Iterations: sc.Iterations,
		Workers:    1,
	}

	if sc.Parallel {
		res.Workers = EffectiveWorkers(sc.Workers, sc.Iterations)
	}
	if err := CheckHistogramSize(expr, res.Workers); err != nil {
		return nil, err
	}

	start := time.Now()
	if sc.Parallel {
		cfg := sc.ParallelConfig()
		share, _ := SplitIterations(sc.Iterations, res.Workers)
		res.Iterations = share * res.Workers
		res.PMF = SimulateParallel(expr, sc.Iterations, cfg)
		if res.PMF.IsEmpty() {
			return nil, ErrParallelUnavailable
		}
	} else {
		res.PMF = SimulateSeeded(expr, sc.Iterations, NewSimulationKey(sc.Seed))
	}
	res.ElapsedMs = float64(time.Since(start).Microseconds()) / 1000
	res.Summary = res.PMF.Summary()
	return res, nil
}
