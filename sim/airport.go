package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Airport wires the airplane lifecycle onto a Simulator: arrivals join the
// queue, each plane requests a robot slot, and finished planes hand their
// slot straight to the next plane in line.
type Airport struct {
	cfg SimulationConfig
	sim *Simulator

	robots        *ResourcePool[*Airplane]
	interArrivals *ExponentialProcess
	unloading     *ExponentialProcess

	planes  []*Airplane
	tickets map[int]*Ticket[*Airplane]
	waiting int
	ran     bool
}

// NewAirport builds an airport for one replication. Everything it owns
// (clock, queue, RNG streams, pool) is private to this instance.
func NewAirport(cfg SimulationConfig) (*Airport, error) {
	if cfg.robots == 0 {
		return nil, fmt.Errorf("%w: zero-value SimulationConfig, use NewSimulationConfig", ErrInvalidConfig)
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed()))
	interArrivals, err := NewExponentialProcess(cfg.MeanInterArrival(), rng.ForSubsystem(SubsystemArrivals))
	if err != nil {
		return nil, err
	}
	unloading, err := NewExponentialProcess(cfg.MeanServiceTime(), rng.ForSubsystem(SubsystemService))
	if err != nil {
		return nil, err
	}
	robots, err := NewResourcePool[*Airplane](cfg.PoolCapacity())
	if err != nil {
		return nil, err
	}

	a := &Airport{
		cfg:           cfg,
		sim:           NewSimulator(),
		robots:        robots,
		interArrivals: interArrivals,
		unloading:     unloading,
		tickets:       make(map[int]*Ticket[*Airplane]),
	}
	a.sim.Register(EventArrival, a.onArrival)
	a.sim.Register(EventServiceStart, a.onServiceStart)
	a.sim.Register(EventServiceEnd, a.onServiceEnd)
	return a, nil
}

// Run schedules the first arrival and simulates until the horizon.
func (a *Airport) Run() error {
	if a.ran {
		return fmt.Errorf("%w: airport already ran", ErrAlreadyRunning)
	}
	a.ran = true
	logrus.Debugf("Starting airport run: robots=%d capacity=%d seed=%d horizon=%.1f",
		a.cfg.Robots(), a.robots.Capacity(), a.cfg.Seed(), a.cfg.Horizon())
	a.sim.ScheduleAt(a.interArrivals.Sample(), EventArrival, nil)
	return a.sim.Run(a.cfg.Horizon())
}

// onArrival creates the airplane, schedules the next arrival and asks for a robot.
func (a *Airport) onArrival(ev Event) error {
	plane := NewAirplane(len(a.planes)+1, ev.Time)
	a.planes = append(a.planes, plane)
	a.waiting++
	logrus.Debugf("<< Arrival: plane %d at %.2f (queue %d)", plane.ID, ev.Time, a.waiting)

	a.sim.ScheduleAt(ev.Time+a.interArrivals.Sample(), EventArrival, nil)
	a.sim.ScheduleAt(ev.Time, EventServiceStart, plane)
	return nil
}

// onServiceStart requests a robot slot; the plane either starts now or parks
// in the pool's FIFO until a release grants it.
func (a *Airport) onServiceStart(ev Event) error {
	if ev.Plane == nil {
		return fmt.Errorf("%s carries no airplane", ev.Type)
	}
	t, err := a.robots.Request(ev.Plane, ev.Time, a.startService)
	if err != nil {
		return err
	}
	if !t.Granted() {
		head, _ := a.robots.Head()
		logrus.Debugf("Plane %d parked at %.2f: %d waiting, head is plane %d",
			ev.Plane.ID, ev.Time, a.robots.Waiting(), head.ID)
	}
	return nil
}

// startService is the pool continuation: it runs at the instant a slot is granted.
func (a *Airport) startService(t *Ticket[*Airplane], now float64) error {
	plane := t.Owner
	plane.beginService(now)
	a.waiting--
	a.tickets[plane.ID] = t

	d := a.unloading.Sample()
	a.sim.ScheduleAt(now+d, EventServiceEnd, plane)
	logrus.Debugf("Plane %d starts unloading at %.2f after waiting %.2f (%d free, %d waiting)",
		plane.ID, now, t.Wait(), a.robots.Available(), a.robots.Waiting())
	return nil
}

// onServiceEnd marks the plane unloaded and releases its slot. If planes are
// waiting, the release starts the next one at this same timestamp.
func (a *Airport) onServiceEnd(ev Event) error {
	plane := ev.Plane
	if plane == nil {
		return fmt.Errorf("%s carries no airplane", ev.Type)
	}
	plane.finishService(ev.Time)
	t, ok := a.tickets[plane.ID]
	if !ok {
		return fmt.Errorf("plane %d finished without a robot ticket", plane.ID)
	}
	delete(a.tickets, plane.ID)
	logrus.Debugf(">> Unloaded: plane %d at %.2f", plane.ID, ev.Time)
	return a.robots.Release(t, ev.Time)
}

// Config returns the replication's configuration.
func (a *Airport) Config() SimulationConfig { return a.cfg }

// Simulator exposes the underlying event loop.
func (a *Airport) Simulator() *Simulator { return a.sim }

// Robots exposes the robot pool.
func (a *Airport) Robots() *ResourcePool[*Airplane] { return a.robots }

// Planes returns every airplane created so far, in arrival order.
// The slice is the airport's internal storage; callers MUST NOT modify it.
func (a *Airport) Planes() []*Airplane { return a.planes }

// QueueLength returns the number of planes currently waiting for a robot.
func (a *Airport) QueueLength() int { return a.waiting }

// InService returns the number of planes currently being unloaded.
func (a *Airport) InService() int { return a.robots.InUse() }

// Unloaded counts planes in the terminal state.
func (a *Airport) Unloaded() int {
	n := 0
	for _, p := range a.planes {
		if p.Unloaded() {
			n++
		}
	}
	return n
}
