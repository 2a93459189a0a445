// Package trace provides per-airplane lifecycle recording for replication analysis.
// It stores plain data and imports nothing from sim, so exporters can depend on it freely.
package trace

// PlaneRecord captures one airplane's timeline in one replication.
type PlaneRecord struct {
	PlaneID      int
	Status       string  // WAITING, BEING_SERVED or UNLOADED
	QueueEntry   float64 // minutes
	ServiceStart float64 // valid when Started
	ServiceEnd   float64 // valid when Unloaded
	Started      bool
	Unloaded     bool
}

// Wait returns the time spent queued, 0 if the plane never started.
func (r PlaneRecord) Wait() float64 {
	if !r.Started {
		return 0
	}
	return r.ServiceStart - r.QueueEntry
}
