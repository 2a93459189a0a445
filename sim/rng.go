package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible replication.
// Two replications with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical airplane timelines.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemArrivals is the RNG stream for inter-arrival times.
	// Uses the master seed directly so the first arrival equals the first
	// exponential draw of a rand.Rand seeded with the replication seed.
	SubsystemArrivals = "arrivals"

	// SubsystemService is the RNG stream for unloading (service) times.
	SubsystemService = "service"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemArrivals: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Keeping arrivals and service on separate streams means changing the robot
// count never perturbs the arrival sequence (common random numbers).
//
// Thread-safety: NOT thread-safe. Each replication owns its own instance.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemArrivals {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === ExponentialProcess ===

// ExponentialProcess draws exponentially-distributed durations with a fixed mean.
type ExponentialProcess struct {
	mean float64
	rng  *rand.Rand
}

// NewExponentialProcess creates a process drawing Exponential(rate = 1/mean)
// samples from rng. A non-positive mean is rejected.
func NewExponentialProcess(mean float64, rng *rand.Rand) (*ExponentialProcess, error) {
	if !(mean > 0) {
		return nil, fmt.Errorf("%w: exponential mean must be > 0, got %v", ErrInvalidConfig, mean)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: exponential process needs a random source", ErrInvalidConfig)
	}
	return &ExponentialProcess{mean: mean, rng: rng}, nil
}

// Sample returns the next duration in simulated minutes.
func (e *ExponentialProcess) Sample() float64 {
	return e.rng.ExpFloat64() * e.mean
}

// Mean returns the configured mean duration.
func (e *ExponentialProcess) Mean() float64 {
	return e.mean
}
