package sim

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// MaxWorkers bounds the size of a parallel simulation pool.
const MaxWorkers = 1024

// ReductionPolicy names how partial PMFs from workers are merged.
type ReductionPolicy string

const (
	// ReduceRenormalize sums partial PMFs then rescales the result to total 1.
	ReduceRenormalize ReductionPolicy = "renormalize"
	// ReduceSum sums partial PMFs without rescaling. The result totals the
	// number of workers; kept for callers that expect the legacy merge.
	ReduceSum ReductionPolicy = "sum"
)

// ValidReductionPolicies is the set of recognized reduction policy names.
// Empty means ReduceRenormalize.
var ValidReductionPolicies = map[string]bool{"": true, string(ReduceRenormalize): true, string(ReduceSum): true}

// ParallelConfig configures SimulateParallel.
type ParallelConfig struct {
	Workers   int             // 0 = runtime.GOMAXPROCS(0)
	Key       SimulationKey   // master seed; worker i draws from ForWorker(i)
	Reduction ReductionPolicy // "" = ReduceRenormalize
}

// workerPool runs a fixed number of independent goroutines to completion.
type workerPool struct {
	size int
}

// ResolveWorkers maps the "use available parallelism" value 0 to GOMAXPROCS.
func ResolveWorkers(workers int) int {
	if workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// EffectiveWorkers is the number of workers a run of iterations actually
// uses: the resolved count, but never more workers than trials.
func EffectiveWorkers(workers, iterations int) int {
	return max(min(ResolveWorkers(workers), iterations), 1)
}

// newWorkerPool sizes a pool. workers == 0 uses the available parallelism.
func newWorkerPool(workers int) (*workerPool, error) {
	workers = ResolveWorkers(workers)
	if workers < 1 || workers > MaxWorkers {
		return nil, fmt.Errorf("worker count must be in [1, %d], got %d", MaxWorkers, workers)
	}
	return &workerPool{size: workers}, nil
}

// run calls fn(id) for every worker id concurrently and waits for all of them.
func (p *workerPool) run(fn func(id int)) {
	var wg sync.WaitGroup
	wg.Add(p.size)
	for id := range p.size {
		go func() {
			defer wg.Done()
			fn(id)
		}()
	}
	wg.Wait()
}

// SplitIterations divides iterations into equal per-worker shares.
// The remainder is dropped, so share*workers may be less than iterations.
func SplitIterations(iterations, workers int) (share, dropped int) {
	if workers <= 0 || iterations <= 0 {
		return 0, max(iterations, 0)
	}
	return iterations / workers, iterations % workers
}

// SimulateParallel fans iterations out over a worker pool, each worker
// running Simulate on its own share with its own RNG, and merges the partial
// PMFs with cfg.Reduction. expr is shared read-only by all workers.
//
// The pool shrinks to iterations workers when there are fewer trials than
// workers. If the pool cannot be built (bad worker count, unknown reduction
// policy, no iterations, or a histogram over the slot limits) the result is
// an empty PMF; check IsEmpty.
func SimulateParallel(expr Rollable, iterations int, cfg ParallelConfig) PMF {
	if !ValidReductionPolicies[string(cfg.Reduction)] {
		logrus.Warnf("parallel simulation not started: unknown reduction policy %q", cfg.Reduction)
		return PMF{}
	}
	pool, err := newWorkerPool(cfg.Workers)
	if err != nil {
		logrus.Warnf("parallel simulation not started: %v", err)
		return PMF{}
	}

	if iterations <= 0 {
		logrus.Warnf("parallel simulation not started: iterations must be positive, got %d", iterations)
		return PMF{}
	}
	// Every worker needs at least one trial or its partial carries no mass.
	pool.size = EffectiveWorkers(pool.size, iterations)
	if err := CheckHistogramSize(expr, pool.size); err != nil {
		logrus.Warnf("parallel simulation not started: %v", err)
		return PMF{}
	}

	share, dropped := SplitIterations(iterations, pool.size)
	logrus.Debugf("simulating %s on %d workers: %d iterations each, %d dropped",
		expr, pool.size, share, dropped)

	// PartitionedRNG is single-goroutine; derive every stream before fan-out.
	partition := NewPartitionedRNG(cfg.Key)
	workerRNGs := make([]*rand.Rand, pool.size)
	for id := range workerRNGs {
		workerRNGs[id] = partition.ForWorker(id)
	}

	partials := make([]PMF, pool.size)
	pool.run(func(id int) {
		partials[id] = Simulate(expr, share, workerRNGs[id])
	})
	return Reduce(partials, cfg.Reduction)
}

// Reduce merges partial PMFs elementwise in index order. Partials shorter
// than the longest are treated as zero-padded.
func Reduce(partials []PMF, policy ReductionPolicy) PMF {
	size := 0
	for _, p := range partials {
		size = max(size, len(p))
	}
	merged := make(PMF, size)
	for _, p := range partials {
		for i, v := range p {
			merged[i] += v
		}
	}
	if policy == ReduceSum {
		return merged
	}
	return normalize(merged)
}
