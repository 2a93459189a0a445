package experiment

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Estimate summarizes one metric across replications with a Student-t
// confidence interval around the mean.
type Estimate struct {
	Mean      float64 `yaml:"mean"`
	Lower     float64 `yaml:"lower"`
	Upper     float64 `yaml:"upper"`
	HalfWidth float64 `yaml:"half_width"`
	StdDev    float64 `yaml:"std_dev"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Count     int     `yaml:"count"`
}

// NewEstimate computes an Estimate at the given confidence level (e.g. 0.95).
// Returns zero-value Estimate for empty input; a single value or zero spread
// yields a degenerate interval of width 0.
func NewEstimate(values []float64, level float64) Estimate {
	n := len(values)
	if n == 0 {
		return Estimate{}
	}
	e := Estimate{
		Min:   slices.Min(values),
		Max:   slices.Max(values),
		Count: n,
	}
	if n == 1 {
		e.Mean, e.Lower, e.Upper = values[0], values[0], values[0]
		return e
	}

	mean, std := stat.MeanStdDev(values, nil)
	e.Mean, e.StdDev = mean, std
	if std == 0 || math.IsNaN(std) {
		e.Lower, e.Upper = mean, mean
		return e
	}

	stdErr := stat.StdErr(std, float64(n))
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(0.5 + level/2)
	e.HalfWidth = t * stdErr
	e.Lower = mean - e.HalfWidth
	e.Upper = mean + e.HalfWidth
	return e
}
