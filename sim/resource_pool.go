package sim

import (
	"errors"
	"fmt"
)

// ErrTicketNotHeld is returned when releasing a ticket that was never granted
// or has already been released.
var ErrTicketNotHeld = errors.New("ticket does not hold a pool slot")

// GrantFunc is the continuation run when a ticket acquires a slot. It runs
// synchronously: immediately inside Request when a slot is free, or inside
// the Release that hands the slot over.
type GrantFunc[T any] func(t *Ticket[T], now float64) error

// Ticket is one outstanding request against a ResourcePool.
type Ticket[T any] struct {
	ID          uint64
	Owner       T
	RequestedAt float64
	GrantedAt   float64

	granted  bool
	released bool
	onGrant  GrantFunc[T]
}

// Granted reports whether the ticket currently holds or has held a slot.
func (t *Ticket[T]) Granted() bool { return t.granted }

// Wait returns how long the ticket queued before its grant, 0 while ungranted.
func (t *Ticket[T]) Wait() float64 {
	if !t.granted {
		return 0
	}
	return t.GrantedAt - t.RequestedAt
}

// ResourcePool models c identical units (the robots) shared by FIFO requests.
// Not safe for concurrent use; it is owned by a single Simulator.
type ResourcePool[T any] struct {
	capacity int
	inUse    int
	waiting  WaitQueue[*Ticket[T]]
	nextID   uint64

	// busy-time ledger: integral of inUse over simulated time
	busyTime   float64
	lastChange float64
	peakInUse  int
	grants     int
}

// NewResourcePool creates a pool with the given number of units.
func NewResourcePool[T any](capacity int) (*ResourcePool[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: pool capacity must be >= 1, got %d", ErrInvalidConfig, capacity)
	}
	return &ResourcePool[T]{capacity: capacity}, nil
}

// Request asks for one unit on behalf of owner. If a unit is free the ticket
// is granted at once and onGrant runs before Request returns. Otherwise the
// ticket joins the tail of the wait queue and onGrant runs later, from the
// Release that frees a unit for it.
func (p *ResourcePool[T]) Request(owner T, now float64, onGrant GrantFunc[T]) (*Ticket[T], error) {
	p.nextID++
	t := &Ticket[T]{ID: p.nextID, Owner: owner, RequestedAt: now, onGrant: onGrant}
	if p.inUse < p.capacity {
		return t, p.grant(t, now)
	}
	p.waiting.Enqueue(t)
	return t, nil
}

// Release returns the unit held by t. If requests are waiting, the head of
// the queue is granted the unit at the same instant.
func (p *ResourcePool[T]) Release(t *Ticket[T], now float64) error {
	if t == nil || !t.granted || t.released {
		return ErrTicketNotHeld
	}
	p.account(now)
	p.inUse--
	t.released = true

	next, ok := p.waiting.Dequeue()
	if !ok {
		return nil
	}
	return p.grant(next, now)
}

func (p *ResourcePool[T]) grant(t *Ticket[T], now float64) error {
	p.account(now)
	p.inUse++
	if p.inUse > p.peakInUse {
		p.peakInUse = p.inUse
	}
	p.grants++
	t.granted = true
	t.GrantedAt = now
	if t.onGrant == nil {
		return nil
	}
	return t.onGrant(t, now)
}

func (p *ResourcePool[T]) account(now float64) {
	p.busyTime += float64(p.inUse) * (now - p.lastChange)
	p.lastChange = now
}

// Capacity returns the number of units in the pool.
func (p *ResourcePool[T]) Capacity() int { return p.capacity }

// InUse returns the number of units currently granted.
func (p *ResourcePool[T]) InUse() int { return p.inUse }

// Available returns the number of free units.
func (p *ResourcePool[T]) Available() int { return p.capacity - p.inUse }

// Waiting returns the number of parked requests.
func (p *ResourcePool[T]) Waiting() int { return p.waiting.Len() }

// Head returns the owner of the oldest parked request.
func (p *ResourcePool[T]) Head() (T, bool) {
	var zero T
	t, ok := p.waiting.Peek()
	if !ok {
		return zero, false
	}
	return t.Owner, true
}

// PeakInUse returns the highest number of simultaneously granted units.
func (p *ResourcePool[T]) PeakInUse() int { return p.peakInUse }

// Grants returns how many tickets have been granted so far.
func (p *ResourcePool[T]) Grants() int { return p.grants }

// BusyTime returns cumulative unit-minutes spent granted up to now.
func (p *ResourcePool[T]) BusyTime(now float64) float64 {
	return p.busyTime + float64(p.inUse)*(now-p.lastChange)
}
