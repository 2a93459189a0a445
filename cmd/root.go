package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/inference-sim/airport-sim/sim"
	"github.com/inference-sim/airport-sim/sim/experiment"
	"github.com/inference-sim/airport-sim/sim/trace"
)

var (
	// CLI flags; when set they override the experiment file
	configPath   string  // Experiment YAML (empty = built-in reference study)
	seed         int64   // Seed of replication 0
	horizon      float64 // Simulated minutes per replication
	replications int     // Replications per scenario
	warmup       float64 // Minutes discarded before statistics
	window       float64 // Time-series tick in minutes
	discipline   string  // parallel or team
	workers      int     // Concurrent replications
	strict       bool    // Fail on events without a handler
	traceLevel   string  // none or planes
	logLevel     string  // Log verbosity level

	// Outputs
	traceDBPath string // SQLite file receiving per-plane records
	resultsPath string // YAML file receiving the scenario results
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "airport-sim",
	Short: "Discrete-event simulator for robot-based airplane unloading",
}

// runCmd replicates every robot scenario and prints the confidence table
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all scenarios with replications and print confidence intervals",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		cfg, err := buildConfig(cmd, resultsPath != "")
		if err != nil {
			return err
		}
		cfg.TraceLevel = resolveTraceLevel(cfg.TraceLevel, traceDBPath)

		logrus.Infof("Starting simulation analysis with %d replications per scenario", cfg.Replications)
		logrus.Infof("Simulation duration: %.0f minutes, warm-up: %.0f minutes, discipline: %s",
			cfg.Horizon, cfg.Warmup, cfg.Discipline)

		startTime := time.Now()
		results, err := experiment.Run(cfg)
		if err != nil {
			return err
		}
		PrintResults(os.Stdout, results)

		if traceDBPath != "" {
			if err := saveTraces(traceDBPath, results); err != nil {
				return err
			}
		}
		if resultsPath != "" {
			if err := SaveResults(resultsPath, results); err != nil {
				return err
			}
		}

		logrus.Infof("Simulation complete in %.2f seconds (run %s)", time.Since(startTime).Seconds(), results.RunID)
		return nil
	},
}

// singleCmd runs one replication per scenario and logs its detailed report
var singleCmd = &cobra.Command{
	Use:   "single",
	Short: "Run one replication per scenario and report its end state",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		cfg, err := buildConfig(cmd, true)
		if err != nil {
			return err
		}
		for _, robots := range cfg.RobotCounts() {
			scfg, err := sim.NewSimulationConfig(cfg.Horizon, cfg.MeanInterArrival, cfg.Scenarios, robots, cfg.Seed, cfg.Discipline)
			if err != nil {
				return err
			}
			res := experiment.RunReplication(scfg, experiment.ReplicationOptions{
				Warmup:     cfg.Warmup,
				SeriesTick: cfg.SeriesTick,
				Strict:     cfg.Strict,
				TraceLevel: trace.TraceLevelPlanes,
			})
			if res.Err != nil {
				return res.Err
			}
			LogReplication(res, cfg.Horizon)
		}
		return nil
	},
}

// resolveTraceLevel decides whether replications keep per-plane records.
// Records are only kept when a trace database will receive them.
func resolveTraceLevel(level trace.TraceLevel, dbPath string) trace.TraceLevel {
	if dbPath != "" {
		return trace.TraceLevelPlanes
	}
	if level == trace.TraceLevelPlanes {
		logrus.Warnf("--trace %s has no effect without --trace-db; plane records will not be collected", level)
	}
	return trace.TraceLevelNone
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
}

// buildConfig loads the experiment file and applies the flags the user set.
func buildConfig(cmd *cobra.Command, keepSeries bool) (experiment.Config, error) {
	ef, err := loadExperimentFile(configPath)
	if err != nil {
		return experiment.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		ef.Seed = seed
	}
	if flags.Changed("horizon") {
		ef.Horizon = horizon
	}
	if flags.Changed("replications") {
		ef.Replications = replications
	}
	if flags.Changed("warmup") {
		ef.Warmup = warmup
	}
	if flags.Changed("window") {
		ef.Window = window
	}
	if flags.Changed("discipline") {
		ef.Discipline = discipline
	}
	if flags.Changed("workers") {
		ef.Workers = workers
	}
	if flags.Changed("strict") {
		ef.Strict = strict
	}
	if flags.Changed("trace") {
		ef.Trace = traceLevel
	}
	cfg, err := ef.toConfig(keepSeries)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("invalid experiment: %w", err)
	}
	return cfg, nil
}

// Execute runs the CLI root command. Exit goes through atexit so registered
// handlers (trace database flush) run on both success and failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Experiment YAML file (default: built-in reference study)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Seed of the first replication; replication i uses seed+i")
	rootCmd.PersistentFlags().Float64Var(&horizon, "horizon", 40000, "Simulated minutes per replication")
	rootCmd.PersistentFlags().IntVar(&replications, "replications", 50, "Replications per robot scenario")
	rootCmd.PersistentFlags().Float64Var(&warmup, "warmup", 0, "Minutes discarded before computing statistics")
	rootCmd.PersistentFlags().Float64Var(&window, "window", 60, "Time-series tick in minutes")
	rootCmd.PersistentFlags().StringVar(&discipline, "discipline", string(sim.DisciplineParallel), "Robot assignment: parallel (one robot per plane) or team (whole crew per plane)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Concurrent replications (0 = number of CPUs)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Fail on events without a registered handler")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Trace level (none, planes)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&traceDBPath, "trace-db", "", "Write per-plane records of every replication to this SQLite file")
	runCmd.Flags().StringVar(&resultsPath, "results", "", "Write scenario results (with time series) to this YAML file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(singleCmd)
}
