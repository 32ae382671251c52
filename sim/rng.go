package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the master seed of a run. Given the same key, expression,
// iteration count and worker count, Simulate and SimulateParallel return
// identical PMFs.
type SimulationKey int64

// NewSimulationKey wraps a --seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Stream names. Each names one independent sequence of rolls drawn from a key.
const (
	// SubsystemSequential feeds single-goroutine Simulate. It is seeded with
	// the key itself, so --seed 7 rolls exactly like rand.NewSource(7).
	SubsystemSequential = "sequential"

	// SubsystemRoll feeds the verbose `roll` command, kept apart from the
	// sequential stream so tracing a roll never shifts a simulation.
	SubsystemRoll = "roll"
)

// SubsystemWorker names the stream owned by parallel worker id.
func SubsystemWorker(id int) string {
	return fmt.Sprintf("worker_%d", id)
}

// PartitionedRNG hands out one *rand.Rand per named stream, all derived from
// a single SimulationKey. Every stream except SubsystemSequential is seeded
// with key ^ fnv1a64(name), so workers draw disjoint-looking sequences while
// the run stays reproducible from one seed.
//
// A PartitionedRNG is used from one goroutine. SimulateParallel derives all
// worker streams up front and gives each worker sole ownership of its own.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates an empty partition for key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream called name, creating it on first use.
// Later calls with the same name continue the same sequence.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}

	seed := int64(p.key)
	if name != SubsystemSequential {
		seed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(seed))
	p.streams[name] = rng
	return rng
}

// ForWorker returns the stream of parallel worker id.
func (p *PartitionedRNG) ForWorker(id int) *rand.Rand {
	return p.ForSubsystem(SubsystemWorker(id))
}

// Key returns the master seed the streams derive from.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
