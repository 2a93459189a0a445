package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/airport-sim/sim"
	"github.com/inference-sim/airport-sim/sim/experiment"
	"github.com/inference-sim/airport-sim/sim/trace"
)

// ExperimentFile represents the full experiment YAML structure.
// All top-level keys must be listed to satisfy KnownFields(true) strict parsing.
type ExperimentFile struct {
	Horizon          float64         `yaml:"horizon"`
	MeanInterArrival float64         `yaml:"mean_inter_arrival"`
	Seed             int64           `yaml:"seed"`
	Replications     int             `yaml:"replications"`
	Warmup           float64         `yaml:"warmup"`
	Window           float64         `yaml:"window"`
	Discipline       string          `yaml:"discipline"`
	Workers          int             `yaml:"workers"`
	Strict           bool            `yaml:"strict"`
	Trace            string          `yaml:"trace"`
	Confidence       float64         `yaml:"confidence"`
	Scenarios        map[int]float64 `yaml:"scenarios"` // robot count → mean unloading minutes
}

// defaultExperimentFile mirrors experiment.DefaultConfig so omitted keys keep
// their reference values.
func defaultExperimentFile() ExperimentFile {
	d := experiment.DefaultConfig()
	return ExperimentFile{
		Horizon:          d.Horizon,
		MeanInterArrival: d.MeanInterArrival,
		Seed:             d.Seed,
		Replications:     d.Replications,
		Warmup:           d.Warmup,
		Window:           60,
		Discipline:       string(d.Discipline),
		Confidence:       d.Confidence,
		Scenarios:        d.Scenarios,
	}
}

// loadExperimentFile parses an experiment YAML on top of the defaults.
// Uses strict field checking: typos must cause errors.
func loadExperimentFile(path string) (ExperimentFile, error) {
	ef := defaultExperimentFile()
	if path == "" {
		return ef, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ExperimentFile{}, fmt.Errorf("failed to read experiment file %s: %w", path, err)
	}
	// A file that lists scenarios replaces the default map rather than merging into it.
	ef.Scenarios = nil
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&ef); err != nil {
		return ExperimentFile{}, fmt.Errorf("failed to parse experiment file %s: %w", path, err)
	}
	if ef.Scenarios == nil {
		ef.Scenarios = experiment.DefaultConfig().Scenarios
	}
	return ef, nil
}

// toConfig converts the file into the sweep configuration and validates it.
// Window is only used for time series when keepSeries is set.
func (ef ExperimentFile) toConfig(keepSeries bool) (experiment.Config, error) {
	if !sim.IsValidDiscipline(ef.Discipline) {
		return experiment.Config{}, fmt.Errorf("unknown discipline %q (want %q or %q)",
			ef.Discipline, sim.DisciplineParallel, sim.DisciplineTeam)
	}
	cfg := experiment.Config{
		Horizon:          ef.Horizon,
		MeanInterArrival: ef.MeanInterArrival,
		Scenarios:        ef.Scenarios,
		Seed:             ef.Seed,
		Replications:     ef.Replications,
		Warmup:           ef.Warmup,
		Discipline:       sim.Discipline(ef.Discipline),
		Workers:          ef.Workers,
		Strict:           ef.Strict,
		TraceLevel:       trace.TraceLevel(ef.Trace),
		Confidence:       ef.Confidence,
	}
	if keepSeries {
		cfg.SeriesTick = ef.Window
	}
	if err := cfg.Validate(); err != nil {
		return experiment.Config{}, err
	}
	return cfg, nil
}
