package sim

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// ErrInvalidConfig marks configuration rejected at construction time.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Discipline selects how the robot crew is mapped onto pool units.
type Discipline string

const (
	// DisciplineParallel gives each robot its own plane: pool capacity = robot count.
	DisciplineParallel Discipline = "parallel"
	// DisciplineTeam puts the whole crew on one plane at a time: pool capacity = 1.
	// The crew size only enters through the scenario's mean unloading time.
	DisciplineTeam Discipline = "team"
)

// validDisciplines maps accepted discipline strings.
var validDisciplines = map[Discipline]bool{
	DisciplineParallel: true,
	DisciplineTeam:     true,
	"":                 true, // empty defaults to parallel
}

// IsValidDiscipline returns true if the given string is a recognized discipline.
func IsValidDiscipline(d string) bool {
	return validDisciplines[Discipline(d)]
}

// SimulationConfig holds the parameters of one replication.
// Fields are unexported so a config cannot be changed after NewSimulationConfig
// validated it; replications that differ only by seed use WithSeed.
type SimulationConfig struct {
	horizon          float64
	meanInterArrival float64
	serviceTimes     map[int]float64
	robots           int
	seed             int64
	discipline       Discipline
}

// NewSimulationConfig validates and builds a SimulationConfig.
// serviceTimes maps robot count to mean unloading time; robots selects the
// scenario and must be a key of serviceTimes.
func NewSimulationConfig(horizon, meanInterArrival float64, serviceTimes map[int]float64,
	robots int, seed int64, discipline Discipline) (SimulationConfig, error) {
	if !(horizon > 0) || math.IsInf(horizon, 0) {
		return SimulationConfig{}, fmt.Errorf("%w: horizon must be a positive finite duration, got %v", ErrInvalidConfig, horizon)
	}
	if !(meanInterArrival > 0) {
		return SimulationConfig{}, fmt.Errorf("%w: mean inter-arrival time must be > 0, got %v", ErrInvalidConfig, meanInterArrival)
	}
	if robots < 1 {
		return SimulationConfig{}, fmt.Errorf("%w: robot count must be >= 1, got %d", ErrInvalidConfig, robots)
	}
	for n, mean := range serviceTimes {
		if n < 1 {
			return SimulationConfig{}, fmt.Errorf("%w: scenario robot count must be >= 1, got %d", ErrInvalidConfig, n)
		}
		if !(mean > 0) {
			return SimulationConfig{}, fmt.Errorf("%w: mean service time for %d robots must be > 0, got %v", ErrInvalidConfig, n, mean)
		}
	}
	if _, ok := serviceTimes[robots]; !ok {
		return SimulationConfig{}, fmt.Errorf("%w: no mean service time for %d robots", ErrInvalidConfig, robots)
	}
	if !IsValidDiscipline(string(discipline)) {
		return SimulationConfig{}, fmt.Errorf("%w: unknown discipline %q", ErrInvalidConfig, discipline)
	}
	if discipline == "" {
		discipline = DisciplineParallel
	}
	return SimulationConfig{
		horizon:          horizon,
		meanInterArrival: meanInterArrival,
		serviceTimes:     maps.Clone(serviceTimes),
		robots:           robots,
		seed:             seed,
		discipline:       discipline,
	}, nil
}

// WithSeed returns a copy of c that differs only by seed.
func (c SimulationConfig) WithSeed(seed int64) SimulationConfig {
	c.seed = seed
	return c
}

// WithRobots returns a copy of c running the scenario for robots.
func (c SimulationConfig) WithRobots(robots int) (SimulationConfig, error) {
	if _, ok := c.serviceTimes[robots]; !ok {
		return SimulationConfig{}, fmt.Errorf("%w: no mean service time for %d robots", ErrInvalidConfig, robots)
	}
	c.robots = robots
	return c, nil
}

func (c SimulationConfig) Horizon() float64          { return c.horizon }
func (c SimulationConfig) MeanInterArrival() float64 { return c.meanInterArrival }
func (c SimulationConfig) Robots() int               { return c.robots }
func (c SimulationConfig) Seed() int64               { return c.seed }
func (c SimulationConfig) Discipline() Discipline    { return c.discipline }

// MeanServiceTime returns the mean unloading time for the configured robot count.
func (c SimulationConfig) MeanServiceTime() float64 {
	return c.serviceTimes[c.robots]
}

// ServiceTimes returns a copy of the robot-count → mean service time mapping.
func (c SimulationConfig) ServiceTimes() map[int]float64 {
	return maps.Clone(c.serviceTimes)
}

// Scenarios returns the configured robot counts in ascending order.
func (c SimulationConfig) Scenarios() []int {
	return slices.Sorted(maps.Keys(c.serviceTimes))
}

// PoolCapacity returns how many planes can be unloaded at the same time.
func (c SimulationConfig) PoolCapacity() int {
	if c.discipline == DisciplineTeam {
		return 1
	}
	return c.robots
}
