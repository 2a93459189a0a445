package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/airport-sim/sim"
	"github.com/inference-sim/airport-sim/sim/experiment"
	"github.com/inference-sim/airport-sim/sim/trace"
)

// ResultsFile is the YAML document handed to plotting and table tools.
type ResultsFile struct {
	RunID      string                 `yaml:"run_id"`
	Horizon    float64                `yaml:"horizon"`
	Warmup     float64                `yaml:"warmup"`
	Discipline string                 `yaml:"discipline"`
	Scenarios  map[int]ScenarioExport `yaml:"scenarios"`
}

// ScenarioExport is one robot scenario in ResultsFile.
type ScenarioExport struct {
	MeanServiceTime  float64             `yaml:"mean_service_time"`
	PoolCapacity     int                 `yaml:"pool_capacity"`
	Replications     int                 `yaml:"replications"`
	Failed           int                 `yaml:"failed"`
	Throughput       experiment.Estimate `yaml:"planes_per_hour"`
	MeanQueueLength  experiment.Estimate `yaml:"mean_queue_length"`
	MeanWaitingTime  experiment.Estimate `yaml:"mean_waiting_time"`
	RobotUtilization experiment.Estimate `yaml:"robot_utilization"`
	Series           []sim.Point         `yaml:"series,omitempty"` // replication 0
}

// NewResultsFile converts sweep results into their exported form.
func NewResultsFile(results *experiment.Results) ResultsFile {
	rf := ResultsFile{
		RunID:      results.RunID,
		Horizon:    results.Config.Horizon,
		Warmup:     results.Config.Warmup,
		Discipline: string(results.Config.Discipline),
		Scenarios:  make(map[int]ScenarioExport, len(results.Scenarios)),
	}
	for robots, s := range results.Scenarios {
		se := ScenarioExport{
			MeanServiceTime:  s.MeanServiceTime,
			PoolCapacity:     s.PoolCapacity,
			Replications:     len(s.Replications),
			Failed:           s.Failed,
			Throughput:       s.Throughput,
			MeanQueueLength:  s.MeanQueueLength,
			MeanWaitingTime:  s.MeanWaitingTime,
			RobotUtilization: s.RobotUtilization,
		}
		if ok := s.Succeeded(); len(ok) > 0 {
			se.Series = ok[0].Series
		}
		rf.Scenarios[robots] = se
	}
	return rf
}

// SaveResults writes the results YAML to path.
func SaveResults(path string, results *experiment.Results) error {
	data, err := yaml.Marshal(NewResultsFile(results))
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results to %s: %w", path, err)
	}
	logrus.Infof("Results written to %s", path)
	return nil
}

// saveTraces streams every replication trace into a new SQLite database.
// The database is closed (and its last batch flushed) by an atexit handler.
func saveTraces(path string, results *experiment.Results) error {
	w, err := trace.NewSQLiteWriter(path)
	if err != nil {
		return err
	}
	atexit.Register(func() {
		if err := w.Close(); err != nil {
			logrus.Errorf("Closing trace database %s: %v", w.Path(), err)
			return
		}
		logrus.Infof("Wrote %d plane records to %s", w.Written(), w.Path())
	})

	for _, robots := range results.Config.RobotCounts() {
		for _, rep := range results.Scenarios[robots].Succeeded() {
			if err := w.Write(rep.Trace); err != nil {
				return err
			}
		}
	}
	return nil
}
