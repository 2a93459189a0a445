// Derives the four airport performance metrics from airplane records:
// throughput, mean queue length, mean waiting time and robot utilization.
// All metrics are pure functions of the records and a half-open time window.

package sim

import "math"

// MinutesPerHour converts the minute clock into the planes-per-hour throughput unit.
const MinutesPerHour = 60.0

// Window is the half-open interval [Start, End) of simulated time.
// An event exactly at End belongs to the next window.
type Window struct {
	Start float64
	End   float64
}

// Until returns the cumulative window [0, t).
func Until(t float64) Window {
	return Window{Start: 0, End: t}
}

// Length returns End - Start, floored at 0. A NaN bound yields 0.
func (w Window) Length() float64 {
	if !(w.End > w.Start) {
		return 0
	}
	return w.End - w.Start
}

// Contains reports whether t lies in [Start, End).
func (w Window) Contains(t float64) bool {
	return t >= w.Start && t < w.End
}

// overlap returns the length of [from, to) ∩ w.
func (w Window) overlap(from, to float64) float64 {
	lo := math.Max(from, w.Start)
	hi := math.Min(to, w.End)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Summary holds the four metrics evaluated over one window.
type Summary struct {
	Throughput       float64 `yaml:"planes_per_hour"`   // unloaded planes per hour
	MeanQueueLength  float64 `yaml:"mean_queue_length"` // time-averaged planes waiting
	MeanWaitingTime  float64 `yaml:"mean_waiting_time"` // minutes from queue entry to robot grant
	RobotUtilization float64 `yaml:"robot_utilization"` // fraction of pool-time busy, in [0, 1]
	Unloaded         int     `yaml:"unloaded"`          // planes finished inside the window
}

// CountUnloaded returns the number of planes whose service ended inside w.
func CountUnloaded(planes []*Airplane, w Window) int {
	n := 0
	for _, p := range planes {
		if p.Unloaded() && w.Contains(p.ServiceEndTime) {
			n++
		}
	}
	return n
}

// Throughput returns planes unloaded inside w per hour of window length.
// Returns 0 for an empty window.
func Throughput(planes []*Airplane, w Window) float64 {
	hours := w.Length() / MinutesPerHour
	if hours <= 0 {
		return 0
	}
	return float64(CountUnloaded(planes, w)) / hours
}

// MeanQueueLength returns the plane-minutes spent waiting inside w divided by
// the window length. Planes that never started count as waiting to the end.
func MeanQueueLength(planes []*Airplane, w Window) float64 {
	length := w.Length()
	if length <= 0 {
		return 0
	}
	waited := 0.0
	for _, p := range planes {
		end := math.Inf(1)
		if p.Started() {
			end = p.ServiceStartTime
		}
		waited += w.overlap(p.QueueEntryTime, end)
	}
	return waited / length
}

// MeanWaitingTime averages waiting time over planes unloaded inside w.
// Returns 0 when no plane finished in the window.
func MeanWaitingTime(planes []*Airplane, w Window) float64 {
	total, n := 0.0, 0
	for _, p := range planes {
		if !p.Unloaded() || !w.Contains(p.ServiceEndTime) {
			continue
		}
		d, _ := p.WaitingTime()
		total += d
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// BusyTime returns pool unit-minutes spent unloading inside w. A plane still
// being served counts as busy to the end of the window.
func BusyTime(planes []*Airplane, w Window) float64 {
	busy := 0.0
	for _, p := range planes {
		if !p.Started() {
			continue
		}
		end := math.Inf(1)
		if p.Unloaded() {
			end = p.ServiceEndTime
		}
		busy += w.overlap(p.ServiceStartTime, end)
	}
	return busy
}

// RobotUtilization returns busy unit-minutes over (window length × capacity).
// Returns 0 for an empty window or a non-positive capacity.
func RobotUtilization(planes []*Airplane, w Window, capacity int) float64 {
	denom := w.Length() * float64(capacity)
	if denom <= 0 {
		return 0
	}
	return BusyTime(planes, w) / denom
}

// Summarize evaluates all four metrics over w.
func Summarize(planes []*Airplane, w Window, capacity int) Summary {
	return Summary{
		Throughput:       Throughput(planes, w),
		MeanQueueLength:  MeanQueueLength(planes, w),
		MeanWaitingTime:  MeanWaitingTime(planes, w),
		RobotUtilization: RobotUtilization(planes, w, capacity),
		Unloaded:         CountUnloaded(planes, w),
	}
}

// StatusCounts tallies airplanes per lifecycle state.
type StatusCounts struct {
	Waiting     int `yaml:"waiting"`
	BeingServed int `yaml:"being_served"`
	Unloaded    int `yaml:"unloaded"`
}

// Total returns the number of airplanes counted.
func (c StatusCounts) Total() int {
	return c.Waiting + c.BeingServed + c.Unloaded
}

// CountStatuses tallies the airplanes by status.
func CountStatuses(planes []*Airplane) StatusCounts {
	var c StatusCounts
	for _, p := range planes {
		switch p.Status {
		case StatusWaiting:
			c.Waiting++
		case StatusBeingServed:
			c.BeingServed++
		case StatusUnloaded:
			c.Unloaded++
		}
	}
	return c
}
