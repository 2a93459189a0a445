// Package sim provides the discrete-event simulation engine for the airport
// unloading model.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - airplane.go: Airplane lifecycle (WAITING → BEING_SERVED → UNLOADED)
//   - event.go, event_queue.go: Event types and the stable time-ordered queue
//   - simulator.go: The event loop, handler dispatch and horizon handling
//   - resource_pool.go: The c-robot pool with FIFO waiting and continuations
//   - airport.go: Handlers that drive airplanes through the pool
//
// # Architecture
//
// The engine is single-threaded. A Simulator pops the earliest Event, moves
// its Clock to the event time and calls the Handler registered for the event
// type. Waiting for a robot is not a blocking call: the plane's ticket sits in
// the ResourcePool until a Release grants it, and the grant runs the plane's
// continuation at that instant.
//
// Sub-packages build on the engine:
//   - sim/experiment/: Replications, scenario sweeps and confidence intervals
//   - sim/trace/: Per-airplane lifecycle records and their sqlite export
//
// Metrics (metrics.go, timeseries.go) are free functions over []*Airplane and
// a half-open Window; they never fail and return 0 on empty denominators.
package sim
