package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/airport-sim/sim/experiment"
	"github.com/inference-sim/airport-sim/sim/trace"
)

type metricRow struct {
	name string
	pick func(*experiment.ScenarioResult) experiment.Estimate
}

var metricRows = []metricRow{
	{"Planes per hour", func(s *experiment.ScenarioResult) experiment.Estimate { return s.Throughput }},
	{"Mean queue length", func(s *experiment.ScenarioResult) experiment.Estimate { return s.MeanQueueLength }},
	{"Mean waiting time", func(s *experiment.ScenarioResult) experiment.Estimate { return s.MeanWaitingTime }},
	{"Robot utilization", func(s *experiment.ScenarioResult) experiment.Estimate { return s.RobotUtilization }},
}

// PrintResults writes the confidence-interval table, one column per robot scenario.
func PrintResults(w io.Writer, results *experiment.Results) {
	robots := results.Config.RobotCounts()
	width := 20 + 17*len(robots)
	level := results.Config.Confidence * 100
	if level == 0 {
		level = 95
	}

	fmt.Fprintf(w, "\nResults with %.0f%% Confidence Intervals\n", level)
	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintf(w, "%-20s", "Robots")
	for _, n := range robots {
		fmt.Fprintf(w, "%17d", n)
	}
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", width))

	for _, row := range metricRows {
		fmt.Fprintf(w, "%-20s", row.name)
		for _, n := range robots {
			e := row.pick(results.Scenarios[n])
			fmt.Fprintf(w, "  %8.2f ± %5.2f", e.Mean, e.HalfWidth)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintln(w, "Note: Values shown as mean ± half-width of the confidence interval")
	for _, n := range robots {
		if s := results.Scenarios[n]; s.Failed > 0 {
			fmt.Fprintf(w, "Warning: %d of %d replications failed for %d robots\n", s.Failed, len(s.Replications), n)
		}
	}
	fmt.Fprintln(w)
}

// LogReplication logs the end-of-run report of a single replication.
func LogReplication(res experiment.ReplicationResult, horizon float64) {
	logrus.Infof("Results for %d robots (single run, seed %d):", res.Robots, res.Seed)
	logrus.Infof("Simulation time: %.1f minutes", horizon)
	logrus.Infof("Total planes: %d", res.Counts.Total())
	logrus.Infof("Planes unloaded: %d", res.Counts.Unloaded)
	logrus.Infof("Planes per hour: %.1f", res.Summary.Throughput)
	logrus.Infof("Current queue length: %d", res.QueueLength)
	logrus.Infof("Mean queue length: %.2f", res.Summary.MeanQueueLength)
	logrus.Infof("Average queue waiting time: %.1f minutes", res.Summary.MeanWaitingTime)
	if res.Trace != nil {
		ts := trace.Summarize(res.Trace)
		logrus.Infof("Planes started: %d, longest wait: %.1f minutes", ts.Unloaded+ts.BeingServed, ts.MaxWait)
	}
	logrus.Infof("Robot utilization: %.2f%%", res.Summary.RobotUtilization*100)
	logrus.Infof("Scenario execution time: %.2f seconds", res.WallTime.Seconds())
	if n := len(res.Series); n > 0 {
		logrus.Debugf("Collected %d time-series points, last at %.0f minutes", n, res.Series[n-1].Time)
	}
}
