package experiment

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/inference-sim/airport-sim/sim"
	"github.com/inference-sim/airport-sim/sim/trace"
)

// Config describes a full scenario sweep: every robot-count scenario is
// replicated Replications times with seeds Seed, Seed+1, ...
type Config struct {
	Horizon          float64         // simulated minutes per replication
	MeanInterArrival float64         // minutes between planes on average
	Scenarios        map[int]float64 // robot count → mean unloading time
	Seed             int64           // seed of replication 0
	Replications     int
	Warmup           float64 // minutes discarded before computing statistics
	SeriesTick       float64 // spacing of time-series points; 0 disables series
	Discipline       sim.Discipline
	Workers          int  // concurrent replications; <= 0 means runtime.NumCPU()
	Strict           bool // fail on events without a handler
	TraceLevel       trace.TraceLevel
	Confidence       float64 // confidence level of intervals; 0 means 0.95
}

// DefaultConfig returns the airport study's reference parameters.
func DefaultConfig() Config {
	return Config{
		Horizon:          40000,
		MeanInterArrival: 12.3,
		Scenarios: map[int]float64{
			2:  9.0,
			3:  7.0,
			5:  5.5,
			8:  4.5,
			12: 4.2,
		},
		Seed:         42,
		Replications: 50,
		Warmup:       0,
		SeriesTick:   0,
		Discipline:   sim.DisciplineParallel,
		Confidence:   0.95,
	}
}

// Validate checks the sweep-level parameters. Per-replication parameters are
// validated again by sim.NewSimulationConfig.
func (c Config) Validate() error {
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("%w: at least one robot scenario is required", sim.ErrInvalidConfig)
	}
	if c.Replications < 1 {
		return fmt.Errorf("%w: replications must be >= 1, got %d", sim.ErrInvalidConfig, c.Replications)
	}
	if !(c.Warmup >= 0 && c.Warmup < c.Horizon) {
		return fmt.Errorf("%w: warm-up must be in [0, horizon), got %v", sim.ErrInvalidConfig, c.Warmup)
	}
	if !(c.SeriesTick >= 0) || math.IsInf(c.SeriesTick, 0) {
		return fmt.Errorf("%w: series tick must be a finite value >= 0, got %v", sim.ErrInvalidConfig, c.SeriesTick)
	}
	if c.Confidence != 0 && !(c.Confidence > 0 && c.Confidence < 1) {
		return fmt.Errorf("%w: confidence must be in (0, 1), got %v", sim.ErrInvalidConfig, c.Confidence)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("%w: unknown trace level %q", sim.ErrInvalidConfig, c.TraceLevel)
	}
	_, err := c.simulationConfig(c.RobotCounts()[0])
	return err
}

// RobotCounts returns the scenario keys in ascending order.
func (c Config) RobotCounts() []int {
	return slices.Sorted(maps.Keys(c.Scenarios))
}

func (c Config) simulationConfig(robots int) (sim.SimulationConfig, error) {
	return sim.NewSimulationConfig(c.Horizon, c.MeanInterArrival, c.Scenarios, robots, c.Seed, c.Discipline)
}

func (c Config) confidence() float64 {
	if c.Confidence == 0 {
		return 0.95
	}
	return c.Confidence
}
