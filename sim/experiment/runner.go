package experiment

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// replicate runs one replication; tests swap it to inject failures.
var replicate = RunReplication

// ScenarioResult aggregates the replications of one robot-count scenario.
type ScenarioResult struct {
	Robots          int
	PoolCapacity    int
	MeanServiceTime float64

	Throughput       Estimate
	MeanQueueLength  Estimate
	MeanWaitingTime  Estimate
	RobotUtilization Estimate

	Replications []ReplicationResult // indexed by replication number
	Failed       int
}

// Succeeded returns the replications that finished without error.
func (s *ScenarioResult) Succeeded() []ReplicationResult {
	ok := make([]ReplicationResult, 0, len(s.Replications))
	for _, r := range s.Replications {
		if r.Err == nil {
			ok = append(ok, r)
		}
	}
	return ok
}

// Results maps robot count to its scenario aggregate.
type Results struct {
	RunID     string
	Config    Config
	Scenarios map[int]*ScenarioResult
}

// Run executes every scenario of cfg. Scenarios run one after another; the
// replications inside a scenario run in parallel.
func Run(cfg Config) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	results := &Results{
		RunID:     xid.New().String(),
		Config:    cfg,
		Scenarios: make(map[int]*ScenarioResult, len(cfg.Scenarios)),
	}
	for _, robots := range cfg.RobotCounts() {
		logrus.Infof("Analyzing scenario with %d robots (%d replications)...", robots, cfg.Replications)
		sr, err := runScenario(cfg, robots, results.RunID)
		if err != nil {
			return nil, err
		}
		results.Scenarios[robots] = sr
	}
	return results, nil
}

// RunScenario replicates one robot-count scenario.
func RunScenario(cfg Config, robots int) (*ScenarioResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return runScenario(cfg, robots, xid.New().String())
}

func runScenario(cfg Config, robots int, runID string) (*ScenarioResult, error) {
	base, err := cfg.simulationConfig(robots)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, cfg.Replications)

	// Each replication writes only its own slot; no locking is needed.
	reps := make([]ReplicationResult, cfg.Replications)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reps[i] = replicate(base.WithSeed(cfg.Seed+int64(i)), ReplicationOptions{
					RunID:      runID,
					Index:      i,
					Warmup:     cfg.Warmup,
					SeriesTick: cfg.SeriesTick,
					Strict:     cfg.Strict,
					TraceLevel: cfg.TraceLevel,
				})
			}
		}()
	}
	for i := 0; i < cfg.Replications; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sr := &ScenarioResult{
		Robots:          robots,
		PoolCapacity:    base.PoolCapacity(),
		MeanServiceTime: base.MeanServiceTime(),
		Replications:    reps,
	}
	var throughput, queue, wait, util []float64
	for _, r := range reps {
		if r.Err != nil {
			sr.Failed++
			logrus.Warnf("Robots=%d replication %d failed: %v", robots, r.Index, r.Err)
			continue
		}
		throughput = append(throughput, r.Summary.Throughput)
		queue = append(queue, r.Summary.MeanQueueLength)
		wait = append(wait, r.Summary.MeanWaitingTime)
		util = append(util, r.Summary.RobotUtilization)
	}
	if sr.Failed == len(reps) {
		return nil, fmt.Errorf("all %d replications failed for %d robots: %w", len(reps), robots, reps[0].Err)
	}

	level := cfg.confidence()
	sr.Throughput = NewEstimate(throughput, level)
	sr.MeanQueueLength = NewEstimate(queue, level)
	sr.MeanWaitingTime = NewEstimate(wait, level)
	sr.RobotUtilization = NewEstimate(util, level)
	return sr, nil
}
