package experiment

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/airport-sim/sim"
	"github.com/inference-sim/airport-sim/sim/trace"
)

// ReplicationResult is the read-only outcome of one replication.
type ReplicationResult struct {
	Robots      int
	Index       int
	Seed        int64
	Summary     sim.Summary      // metrics over [warmup, horizon)
	Counts      sim.StatusCounts // airplanes per state at the end of the run
	QueueLength int              // planes still waiting at the horizon
	PoolBusy    float64          // unit-minutes busy from the pool ledger, [0, horizon)
	Events      int              // events dispatched
	Series      []sim.Point      // cumulative metrics from warm-up, if requested
	Trace       *trace.ReplicationTrace
	WallTime    time.Duration
	Err         error
}

// ReplicationOptions controls what a replication keeps besides its Summary.
type ReplicationOptions struct {
	RunID      string
	Index      int
	Warmup     float64
	SeriesTick float64
	Strict     bool
	TraceLevel trace.TraceLevel
}

// RunReplication runs one fully isolated replication. Failures, including
// panics raised by invariant checks, are reported in the result's Err field
// and never escape to the caller.
func RunReplication(cfg sim.SimulationConfig, opts ReplicationOptions) (res ReplicationResult) {
	res = ReplicationResult{Robots: cfg.Robots(), Index: opts.Index, Seed: cfg.Seed()}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("replication %d (robots=%d seed=%d) panicked: %v", opts.Index, cfg.Robots(), cfg.Seed(), r)
		}
		res.WallTime = time.Since(start)
	}()

	airport, err := sim.NewAirport(cfg)
	if err != nil {
		res.Err = err
		return res
	}
	airport.Simulator().Strict = opts.Strict
	if err := airport.Run(); err != nil {
		res.Err = fmt.Errorf("replication %d (robots=%d seed=%d): %w", opts.Index, cfg.Robots(), cfg.Seed(), err)
		return res
	}

	planes := airport.Planes()
	capacity := airport.Robots().Capacity()
	window := sim.Window{Start: opts.Warmup, End: cfg.Horizon()}
	res.Summary = sim.Summarize(planes, window, capacity)
	res.Counts = sim.CountStatuses(planes)
	res.QueueLength = airport.QueueLength()
	res.PoolBusy = airport.Robots().BusyTime(cfg.Horizon())
	res.Events = airport.Simulator().Processed()
	if opts.SeriesTick > 0 {
		res.Series = sim.Series(planes, capacity, opts.Warmup, opts.SeriesTick, cfg.Horizon())
	}
	if opts.TraceLevel == trace.TraceLevelPlanes {
		res.Trace = recordTrace(opts.RunID, opts.Index, cfg, planes)
	}

	logrus.Debugf("Replication %d robots=%d seed=%d: %d planes, %d unloaded, %.2f planes/h",
		opts.Index, cfg.Robots(), cfg.Seed(), res.Counts.Total(), res.Counts.Unloaded, res.Summary.Throughput)
	return res
}

func recordTrace(runID string, index int, cfg sim.SimulationConfig, planes []*sim.Airplane) *trace.ReplicationTrace {
	rt := trace.NewReplicationTrace(runID, cfg.Robots(), index, cfg.Seed())
	for _, p := range planes {
		rt.RecordPlane(trace.PlaneRecord{
			PlaneID:      p.ID,
			Status:       p.Status.String(),
			QueueEntry:   p.QueueEntryTime,
			ServiceStart: p.ServiceStartTime,
			ServiceEnd:   p.ServiceEndTime,
			Started:      p.Started(),
			Unloaded:     p.Unloaded(),
		})
	}
	return rt
}
