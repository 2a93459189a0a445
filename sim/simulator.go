// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnregisteredEventType is returned in strict mode when an event has no handler.
	ErrUnregisteredEventType = errors.New("no handler registered for event type")
	// ErrAlreadyRunning is returned when Run is called on a simulator that is not idle.
	ErrAlreadyRunning = errors.New("simulator already started")
)

// SimState is the lifecycle state of a Simulator.
type SimState int

const (
	StateIdle SimState = iota
	StateRunning
	StateStopped
)

func (s SimState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("SimState(%d)", int(s))
	}
}

// Handler processes one event. Handlers run synchronously inside the event
// loop and may schedule further events through the Simulator.
type Handler func(ev Event) error

// Simulator is the core object that holds simulation time and the event loop.
// It is single-threaded: one Simulator belongs to one replication.
type Simulator struct {
	// Clock is the authoritative simulation time; it never decreases.
	Clock float64
	// Strict makes Run fail on events whose type has no handler instead of
	// dropping them.
	Strict bool

	queue     *EventQueue
	handlers  map[EventType]Handler
	state     SimState
	processed int
	dropped   int
}

// NewSimulator returns an idle simulator with an empty event queue.
func NewSimulator() *Simulator {
	return &Simulator{
		queue:    NewEventQueue(),
		handlers: make(map[EventType]Handler),
		state:    StateIdle,
	}
}

// Register binds a handler to an event type, replacing any previous binding.
func (sim *Simulator) Register(t EventType, h Handler) {
	sim.handlers[t] = h
}

// Schedule pushes an event into the simulator's EventQueue.
// Scheduling into the past would break clock monotonicity and panics.
func (sim *Simulator) Schedule(ev Event) {
	if ev.Time < sim.Clock {
		panic(fmt.Sprintf("Schedule: %s precedes clock %.4f", ev, sim.Clock))
	}
	sim.queue.Schedule(ev)
}

// ScheduleAt is shorthand for Schedule(Event{...}).
func (sim *Simulator) ScheduleAt(t float64, typ EventType, plane *Airplane) {
	sim.Schedule(Event{Time: t, Type: typ, Plane: plane})
}

// Now returns the current simulation time.
func (sim *Simulator) Now() float64 { return sim.Clock }

// State returns the lifecycle state.
func (sim *Simulator) State() SimState { return sim.state }

// HasEvents reports whether any event is pending.
func (sim *Simulator) HasEvents() bool { return sim.queue.HasEvents() }

// Pending returns the number of events still queued. After a horizon stop
// these are the events that will never fire.
func (sim *Simulator) Pending() int { return sim.queue.Len() }

// Processed returns the number of events dispatched to a handler.
func (sim *Simulator) Processed() int { return sim.processed }

// Dropped returns the number of events discarded for lack of a handler.
func (sim *Simulator) Dropped() int { return sim.dropped }

// Run processes events in time order until the queue is exhausted or the
// next event lies strictly beyond horizon. Events at exactly horizon fire.
func (sim *Simulator) Run(horizon float64) error {
	if sim.state != StateIdle {
		return fmt.Errorf("%w: state is %s", ErrAlreadyRunning, sim.state)
	}
	if horizon < 0 {
		return fmt.Errorf("%w: horizon must be >= 0, got %v", ErrInvalidConfig, horizon)
	}
	sim.state = StateRunning
	defer func() { sim.state = StateStopped }()

	for sim.queue.HasEvents() {
		next, _ := sim.queue.PeekTime()
		if next > horizon {
			logrus.Debugf("[t %010.2f] Next event at %.2f beyond horizon %.2f, stopping", sim.Clock, next, horizon)
			break
		}
		ev, err := sim.queue.Next()
		if err != nil {
			return err
		}
		// advance the clock
		sim.Clock = ev.Time

		handler, ok := sim.handlers[ev.Type]
		if !ok {
			if sim.Strict {
				return fmt.Errorf("%w: %s", ErrUnregisteredEventType, ev)
			}
			sim.dropped++
			logrus.Debugf("[t %010.2f] No handler for %s, dropping", sim.Clock, ev.Type)
			continue
		}

		logrus.Debugf("[t %010.2f] Executing %s", sim.Clock, ev)
		if err := handler(ev); err != nil {
			return fmt.Errorf("handling %s: %w", ev, err)
		}
		sim.processed++
	}
	logrus.Debugf("[t %010.2f] Simulation ended after %d events", sim.Clock, sim.processed)
	return nil
}
