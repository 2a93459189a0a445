package trace

// TraceSummary aggregates statistics from a ReplicationTrace.
type TraceSummary struct {
	TotalPlanes int
	Waiting     int
	BeingServed int
	Unloaded    int
	MeanWait    float64 // over planes that started service
	MaxWait     float64
}

// Summarize computes aggregate statistics from a ReplicationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *ReplicationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if rt == nil {
		return summary
	}

	summary.TotalPlanes = len(rt.Planes)
	totalWait, started := 0.0, 0
	for _, p := range rt.Planes {
		switch {
		case p.Unloaded:
			summary.Unloaded++
		case p.Started:
			summary.BeingServed++
		default:
			summary.Waiting++
		}
		if !p.Started {
			continue
		}
		started++
		w := p.Wait()
		totalWait += w
		if w > summary.MaxWait {
			summary.MaxWait = w
		}
	}
	if started > 0 {
		summary.MeanWait = totalWait / float64(started)
	}
	return summary
}
