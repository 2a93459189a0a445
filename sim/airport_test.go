package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAirport_ZeroConfig_Rejected(t *testing.T) {
	_, err := NewAirport(SimulationConfig{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAirport_Run_Twice_ReturnsErrAlreadyRunning(t *testing.T) {
	a := runAirport(t, mustConfig(t, 100, 12.3, referenceServiceTimes, 2, 1))
	assert.ErrorIs(t, a.Run(), ErrAlreadyRunning)
}

func TestAirport_FirstArrival_DrawnFromMasterSeed(t *testing.T) {
	// GIVEN seed 42, one robot, 12.3 min between arrivals on average
	cfg := mustConfig(t, 1000, 12.3, map[int]float64{1: 9.0}, 1, 42)

	// WHEN the replication runs
	a := runAirport(t, cfg)

	// THEN plane 1 arrives at the first exponential draw of the seed-42 stream
	// and starts at once because the pool is empty
	require.NotEmpty(t, a.Planes())
	first := a.Planes()[0]
	want := rand.New(rand.NewSource(42)).ExpFloat64() * 12.3
	assert.Equal(t, 1, first.ID)
	assert.InDelta(t, want, first.QueueEntryTime, 1e-12)
	assert.True(t, first.Started())
	assert.Equal(t, first.QueueEntryTime, first.ServiceStartTime)
	w, _ := first.WaitingTime()
	assert.Zero(t, w)
}

func TestAirport_Conservation(t *testing.T) {
	for _, robots := range []int{2, 5, 12} {
		a := runAirport(t, mustConfig(t, 5000, 12.3, referenceServiceTimes, robots, 3))

		counts := CountStatuses(a.Planes())
		assert.Equal(t, len(a.Planes()), counts.Total())
		assert.Equal(t, a.QueueLength(), counts.Waiting, "robots=%d", robots)
		assert.Equal(t, a.InService(), counts.BeingServed, "robots=%d", robots)
		assert.Equal(t, a.Unloaded(), counts.Unloaded, "robots=%d", robots)
		assert.Equal(t, counts.BeingServed+counts.Unloaded, a.Robots().Grants())
	}
}

func TestAirport_TimestampsOrderedAndWithinHorizon(t *testing.T) {
	cfg := mustConfig(t, 3000, 12.3, referenceServiceTimes, 3, 11)
	a := runAirport(t, cfg)

	for i, p := range a.Planes() {
		assert.Equal(t, i+1, p.ID)
		assert.LessOrEqual(t, p.QueueEntryTime, cfg.Horizon())
		if i > 0 {
			assert.GreaterOrEqual(t, p.QueueEntryTime, a.Planes()[i-1].QueueEntryTime)
		}
		if p.Started() {
			assert.GreaterOrEqual(t, p.ServiceStartTime, p.QueueEntryTime)
		}
		if p.Unloaded() {
			assert.GreaterOrEqual(t, p.ServiceEndTime, p.ServiceStartTime)
			assert.LessOrEqual(t, p.ServiceEndTime, cfg.Horizon())
		}
	}
	assert.LessOrEqual(t, a.Simulator().Now(), cfg.Horizon())
}

func TestAirport_PoolNeverOverCommitted(t *testing.T) {
	// GIVEN a heavily loaded airport
	cfg := mustConfig(t, 2000, 2.0, referenceServiceTimes, 3, 5)

	a := runAirport(t, cfg)

	assert.Equal(t, 3, a.Robots().PeakInUse())
	assert.LessOrEqual(t, a.InService(), cfg.PoolCapacity())
}

func TestAirport_FIFOService(t *testing.T) {
	a := runAirport(t, mustConfig(t, 4000, 3.0, referenceServiceTimes, 2, 8))

	// started planes form a prefix of the arrival order with non-decreasing starts
	planes := a.Planes()
	seenWaiting := false
	for i, p := range planes {
		if !p.Started() {
			seenWaiting = true
			continue
		}
		require.False(t, seenWaiting, "plane %d started while an earlier plane waits", p.ID)
		if i > 0 {
			assert.GreaterOrEqual(t, p.ServiceStartTime, planes[i-1].ServiceStartTime)
		}
	}
}

func TestAirport_SingleSlot_ReservicesWithoutIdleGap(t *testing.T) {
	// GIVEN a team crew (one plane at a time) under load
	cfg, err := NewSimulationConfig(3000, 6.0, referenceServiceTimes, 8, 21, DisciplineTeam)
	require.NoError(t, err)

	a := runAirport(t, cfg)

	// THEN each plane starts at the later of its arrival and the previous finish
	planes := a.Planes()
	require.Greater(t, len(planes), 10)
	assert.Equal(t, 1, a.Robots().PeakInUse())
	for i := 1; i < len(planes); i++ {
		cur, prev := planes[i], planes[i-1]
		if !cur.Started() {
			break
		}
		require.True(t, prev.Unloaded())
		want := max(cur.QueueEntryTime, prev.ServiceEndTime)
		assert.Equal(t, want, cur.ServiceStartTime, "plane %d", cur.ID)
	}
}

func TestAirport_Reproducible(t *testing.T) {
	cfg := mustConfig(t, 5000, 12.3, referenceServiceTimes, 5, 99)

	a := runAirport(t, cfg)
	b := runAirport(t, cfg)

	require.Equal(t, len(a.Planes()), len(b.Planes()))
	for i := range a.Planes() {
		assert.Equal(t, *a.Planes()[i], *b.Planes()[i])
	}
	assert.Equal(t, a.Simulator().Processed(), b.Simulator().Processed())
}

func TestAirport_DifferentSeedsDiffer(t *testing.T) {
	cfg := mustConfig(t, 1000, 12.3, referenceServiceTimes, 5, 1)

	a := runAirport(t, cfg)
	b := runAirport(t, cfg.WithSeed(2))

	require.NotEmpty(t, a.Planes())
	require.NotEmpty(t, b.Planes())
	assert.NotEqual(t, a.Planes()[0].QueueEntryTime, b.Planes()[0].QueueEntryTime)
}

func TestAirport_ArrivalsShareStreamAcrossScenarios(t *testing.T) {
	// GIVEN the same seed for the 2-robot and 12-robot scenarios
	two := runAirport(t, mustConfig(t, 2000, 12.3, referenceServiceTimes, 2, 7))
	twelve := runAirport(t, mustConfig(t, 2000, 12.3, referenceServiceTimes, 12, 7))

	// THEN both see the same arrival instants
	require.Equal(t, len(two.Planes()), len(twelve.Planes()))
	for i := range two.Planes() {
		assert.Equal(t, two.Planes()[i].QueueEntryTime, twelve.Planes()[i].QueueEntryTime)
	}
}

func TestAirport_PoolLedgerMatchesRecordBusyTime(t *testing.T) {
	cfg := mustConfig(t, 3000, 4.0, referenceServiceTimes, 3, 13)
	a := runAirport(t, cfg)

	fromPool := a.Robots().BusyTime(cfg.Horizon())
	fromRecords := BusyTime(a.Planes(), Until(cfg.Horizon()))

	assert.InDelta(t, fromPool, fromRecords, 1e-6*fromPool)
}

func TestAirport_Saturation_QueueGrows(t *testing.T) {
	// GIVEN arrivals every minute and 9-minute unloads on two robots
	a := runAirport(t, mustConfig(t, 2000, 1.0, referenceServiceTimes, 2, 4))

	w := Until(2000)
	assert.Greater(t, a.QueueLength(), 500)
	assert.Greater(t, RobotUtilization(a.Planes(), w, 2), 0.97)
	assert.Greater(t, MeanQueueLength(a.Planes(), w), 100.0)

	// THEN the queue keeps growing tick after tick, instantaneous and averaged
	points := Series(a.Planes(), 2, 0, 200, 2000)
	require.Len(t, points, 10)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		assert.Greater(t, queueAt(a.Planes(), cur.Time), queueAt(a.Planes(), prev.Time), "t=%v", cur.Time)
		assert.Greater(t, cur.MeanQueueLength, prev.MeanQueueLength, "t=%v", cur.Time)
	}
}

func TestAirport_Saturation_UtilizationApproachesOne(t *testing.T) {
	// GIVEN the same overloaded airport over a short and a long horizon
	short := runAirport(t, mustConfig(t, 500, 1.0, referenceServiceTimes, 2, 4))
	long := runAirport(t, mustConfig(t, 8000, 1.0, referenceServiceTimes, 2, 4))

	uShort := RobotUtilization(short.Planes(), Until(500), 2)
	uLong := RobotUtilization(long.Planes(), Until(8000), 2)

	// THEN the start-up idle time weighs less as the horizon grows
	assert.GreaterOrEqual(t, uLong, uShort)
	assert.Greater(t, uLong, 0.99)
	assert.LessOrEqual(t, uLong, 1.0)
}

// queueAt counts planes that have arrived by t and not yet started.
func queueAt(planes []*Airplane, t float64) int {
	n := 0
	for _, p := range planes {
		if p.QueueEntryTime <= t && (!p.Started() || p.ServiceStartTime > t) {
			n++
		}
	}
	return n
}

func TestAirport_LightLoad_NoWaiting(t *testing.T) {
	// GIVEN twelve robots and rare arrivals
	a := runAirport(t, mustConfig(t, 20000, 500.0, referenceServiceTimes, 12, 6))

	for _, p := range a.Planes() {
		if d, ok := p.WaitingTime(); ok {
			assert.Zero(t, d, "plane %d", p.ID)
		}
	}
	assert.Zero(t, MeanWaitingTime(a.Planes(), Until(20000)))
}

func TestAirport_LongRun_MatchesQueueingTheory(t *testing.T) {
	// M/M/2 with λ=1/12.3, mean service 9: ρ = 9/(2·12.3) ≈ 0.366
	horizon := 400000.0
	a := runAirport(t, mustConfig(t, horizon, 12.3, referenceServiceTimes, 2, 42))
	s := Summarize(a.Planes(), Until(horizon), 2)

	assert.InDelta(t, 9.0/(2*12.3), s.RobotUtilization, 0.02)
	assert.InDelta(t, MinutesPerHour/12.3, s.Throughput, 0.15)
}
