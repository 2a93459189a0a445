package sim

import (
	"container/heap"
	"errors"
)

// ErrEmptyQueue is returned by EventQueue.Next when no events remain.
// Callers are expected to check HasEvents first; hitting this is a bug.
var ErrEmptyQueue = errors.New("event queue is empty")

// EventQueue is a priority queue with deterministic ordering.
// Order by: timestamp → insertion sequence.
// Equal timestamps keep the order in which they were scheduled, so an
// arrival scheduled before a service end at the same instant fires first.
type EventQueue struct {
	events  []Event
	nextSeq uint64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{
		events: make([]Event, 0),
	}
	heap.Init(q)
	return q
}

// Len implements heap.Interface
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Less implements heap.Interface with deterministic ordering
func (q *EventQueue) Less(i, j int) bool {
	ei, ej := q.events[i], q.events[j]
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (q *EventQueue) Swap(i, j int) {
	q.events[i], q.events[j] = q.events[j], q.events[i]
}

// Push implements heap.Interface
func (q *EventQueue) Push(x any) {
	q.events = append(q.events, x.(Event))
}

// Pop implements heap.Interface
func (q *EventQueue) Pop() any {
	old := q.events
	n := len(old)
	item := old[n-1]
	q.events = old[0 : n-1]
	return item
}

// Schedule inserts an event in O(log n).
func (q *EventQueue) Schedule(e Event) {
	e.seq = q.nextSeq
	q.nextSeq++
	heap.Push(q, e)
}

// Next removes and returns the earliest event.
func (q *EventQueue) Next() (Event, error) {
	if q.Len() == 0 {
		return Event{}, ErrEmptyQueue
	}
	return heap.Pop(q).(Event), nil
}

// PeekTime returns the timestamp of the earliest event without removing it.
// The boolean is false when the queue is empty.
func (q *EventQueue) PeekTime() (float64, bool) {
	if q.Len() == 0 {
		return 0, false
	}
	return q.events[0].Time, true
}

// HasEvents reports whether any event is still pending.
func (q *EventQueue) HasEvents() bool {
	return q.Len() > 0
}
