// Defines the Airplane struct that models one plane's stay at the airport.
// Tracks when it joined the queue, when robots started and finished unloading it.

package sim

import (
	"fmt"
)

// AirplaneStatus represents the lifecycle state of an airplane.
// Transitions are WAITING → BEING_SERVED → UNLOADED, never backwards.
type AirplaneStatus int

const (
	StatusWaiting AirplaneStatus = iota
	StatusBeingServed
	StatusUnloaded
)

func (s AirplaneStatus) String() string {
	switch s {
	case StatusWaiting:
		return "WAITING"
	case StatusBeingServed:
		return "BEING_SERVED"
	case StatusUnloaded:
		return "UNLOADED"
	default:
		return fmt.Sprintf("AirplaneStatus(%d)", int(s))
	}
}

type Airplane struct {
	ID     int            // Sequential per replication, starting at 1
	Status AirplaneStatus // WAITING, BEING_SERVED, UNLOADED

	QueueEntryTime   float64 // Arrival time; the plane joins the queue at once
	ServiceStartTime float64 // Valid once Status >= StatusBeingServed
	ServiceEndTime   float64 // Valid once Status == StatusUnloaded
}

// NewAirplane creates a waiting airplane that entered the queue at t.
func NewAirplane(id int, t float64) *Airplane {
	return &Airplane{ID: id, Status: StatusWaiting, QueueEntryTime: t}
}

// Started reports whether robots have been assigned.
func (a *Airplane) Started() bool { return a.Status >= StatusBeingServed }

// Unloaded reports whether the plane reached the terminal state.
func (a *Airplane) Unloaded() bool { return a.Status == StatusUnloaded }

// WaitingTime returns service start minus queue entry. ok is false until
// service has started.
func (a *Airplane) WaitingTime() (d float64, ok bool) {
	if !a.Started() {
		return 0, false
	}
	return a.ServiceStartTime - a.QueueEntryTime, true
}

// ServiceTime returns service end minus service start. ok is false until
// the plane is unloaded.
func (a *Airplane) ServiceTime() (d float64, ok bool) {
	if !a.Unloaded() {
		return 0, false
	}
	return a.ServiceEndTime - a.ServiceStartTime, true
}

// beginService moves a waiting plane to BEING_SERVED.
func (a *Airplane) beginService(now float64) {
	if a.Status != StatusWaiting {
		panic(fmt.Sprintf("beginService: plane %d is %s, want %s", a.ID, a.Status, StatusWaiting))
	}
	if now < a.QueueEntryTime {
		panic(fmt.Sprintf("beginService: plane %d starts at %.4f before arriving at %.4f", a.ID, now, a.QueueEntryTime))
	}
	a.Status = StatusBeingServed
	a.ServiceStartTime = now
}

// finishService moves a plane being served to UNLOADED.
func (a *Airplane) finishService(now float64) {
	if a.Status != StatusBeingServed {
		panic(fmt.Sprintf("finishService: plane %d is %s, want %s", a.ID, a.Status, StatusBeingServed))
	}
	if now < a.ServiceStartTime {
		panic(fmt.Sprintf("finishService: plane %d ends at %.4f before starting at %.4f", a.ID, now, a.ServiceStartTime))
	}
	a.Status = StatusUnloaded
	a.ServiceEndTime = now
}

// This method returns a human-readable string representation of an Airplane.
func (a Airplane) String() string {
	return fmt.Sprintf("Airplane: (ID: %d, Status: %s, QueueEntryTime: %.2f)", a.ID, a.Status, a.QueueEntryTime)
}
