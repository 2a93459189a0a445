package sim

import "fmt"

// EventType identifies which handler an Event is dispatched to.
type EventType int

const (
	// EventArrival fires when an airplane lands and joins the unloading queue.
	EventArrival EventType = iota
	// EventServiceStart fires when an airplane asks the robot pool for a slot.
	EventServiceStart
	// EventServiceEnd fires when the robots finish unloading an airplane.
	EventServiceEnd
)

func (t EventType) String() string {
	switch t {
	case EventArrival:
		return "ARRIVAL"
	case EventServiceStart:
		return "SERVICE_START"
	case EventServiceEnd:
		return "SERVICE_END"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is a scheduled occurrence in simulated time (minutes).
// Events are values: once scheduled they are never modified.
type Event struct {
	Time  float64   // Simulation time at which the event fires
	Type  EventType // Selects the registered handler
	Plane *Airplane // Airplane the event concerns (nil for ARRIVAL)

	seq uint64 // insertion order, assigned by EventQueue.Schedule
}

// Seq returns the insertion sequence number used to break timestamp ties.
func (e Event) Seq() uint64 {
	return e.seq
}

func (e Event) String() string {
	if e.Plane != nil {
		return fmt.Sprintf("%s(plane %d) at %.2f", e.Type, e.Plane.ID, e.Time)
	}
	return fmt.Sprintf("%s at %.2f", e.Type, e.Time)
}
