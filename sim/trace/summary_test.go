package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_NilTrace_ReturnsZero(t *testing.T) {
	assert.Equal(t, &TraceSummary{}, Summarize(nil))
}

func TestSummarize_CountsAndWaits(t *testing.T) {
	// GIVEN one plane in each state, with waits 0 and 4 for the started ones
	rt := NewReplicationTrace("run", 2, 0, 42)
	rt.RecordPlane(PlaneRecord{PlaneID: 1, Status: "UNLOADED", QueueEntry: 1, ServiceStart: 1, ServiceEnd: 9, Started: true, Unloaded: true})
	rt.RecordPlane(PlaneRecord{PlaneID: 2, Status: "BEING_SERVED", QueueEntry: 5, ServiceStart: 9, Started: true})
	rt.RecordPlane(PlaneRecord{PlaneID: 3, Status: "WAITING", QueueEntry: 12})

	// WHEN summarized
	s := Summarize(rt)

	// THEN the waiting plane contributes to counts but not to waits
	assert.Equal(t, 3, s.TotalPlanes)
	assert.Equal(t, 1, s.Unloaded)
	assert.Equal(t, 1, s.BeingServed)
	assert.Equal(t, 1, s.Waiting)
	assert.InDelta(t, 2.0, s.MeanWait, 1e-12)
	assert.InDelta(t, 4.0, s.MaxWait, 1e-12)
}

func TestPlaneRecord_Wait_NotStarted(t *testing.T) {
	assert.Zero(t, PlaneRecord{QueueEntry: 3}.Wait())
}

func TestIsValidTraceLevel(t *testing.T) {
	assert.True(t, IsValidTraceLevel("none"))
	assert.True(t, IsValidTraceLevel("planes"))
	assert.True(t, IsValidTraceLevel(""))
	assert.False(t, IsValidTraceLevel("events"))
}
