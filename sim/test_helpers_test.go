package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// referenceServiceTimes is the reference scenario table, robots → mean minutes.
var referenceServiceTimes = map[int]float64{2: 9.0, 3: 7.0, 5: 5.5, 8: 4.5, 12: 4.2}

// mustConfig builds a parallel-discipline config or fails the test.
func mustConfig(t *testing.T, horizon, meanInterArrival float64, serviceTimes map[int]float64, robots int, seed int64) SimulationConfig {
	t.Helper()
	cfg, err := NewSimulationConfig(horizon, meanInterArrival, serviceTimes, robots, seed, DisciplineParallel)
	require.NoError(t, err)
	return cfg
}

// runAirport runs one replication to completion and returns the airport.
func runAirport(t *testing.T, cfg SimulationConfig) *Airport {
	t.Helper()
	a, err := NewAirport(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run())
	return a
}

// planeAt builds an airplane record directly for metric tests.
// start or end < 0 leaves the corresponding transition unset.
func planeAt(id int, entry, start, end float64) *Airplane {
	p := NewAirplane(id, entry)
	if start >= 0 {
		p.beginService(start)
	}
	if end >= 0 {
		p.finishService(end)
	}
	return p
}
