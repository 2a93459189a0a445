package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEstimate_StudentT95(t *testing.T) {
	// GIVEN five replication values with mean 3 and sample std sqrt(2.5)
	e := NewEstimate([]float64{1, 2, 3, 4, 5}, 0.95)

	// THEN the half-width is t(0.975, 4) · s/√n ≈ 2.7764 · 0.7071
	assert.InDelta(t, 3.0, e.Mean, 1e-12)
	assert.InDelta(t, 1.5811, e.StdDev, 1e-4)
	assert.InDelta(t, 1.9632, e.HalfWidth, 1e-3)
	assert.InDelta(t, e.Mean-e.HalfWidth, e.Lower, 1e-12)
	assert.InDelta(t, e.Mean+e.HalfWidth, e.Upper, 1e-12)
	assert.Equal(t, 1.0, e.Min)
	assert.Equal(t, 5.0, e.Max)
	assert.Equal(t, 5, e.Count)
}

func TestNewEstimate_WiderAtHigherConfidence(t *testing.T) {
	values := []float64{4.1, 4.9, 5.3, 4.4, 5.0, 4.7}

	e90 := NewEstimate(values, 0.90)
	e99 := NewEstimate(values, 0.99)

	assert.Less(t, e90.HalfWidth, e99.HalfWidth)
	assert.InDelta(t, e90.Mean, e99.Mean, 1e-12)
}

func TestNewEstimate_Degenerate(t *testing.T) {
	assert.Equal(t, Estimate{}, NewEstimate(nil, 0.95))

	one := NewEstimate([]float64{7}, 0.95)
	assert.Equal(t, Estimate{Mean: 7, Lower: 7, Upper: 7, Min: 7, Max: 7, Count: 1}, one)

	flat := NewEstimate([]float64{2, 2, 2}, 0.95)
	assert.Zero(t, flat.HalfWidth)
	assert.Equal(t, 2.0, flat.Lower)
	assert.Equal(t, 2.0, flat.Upper)
}
