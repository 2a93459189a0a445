package trace

// TraceLevel controls the verbosity of lifecycle tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelPlanes captures one record per airplane per replication.
	TraceLevelPlanes TraceLevel = "planes"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelPlanes: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// ReplicationTrace collects plane records for one replication of one scenario.
type ReplicationTrace struct {
	RunID       string
	Robots      int
	Replication int
	Seed        int64
	Planes      []PlaneRecord
}

// NewReplicationTrace creates a ReplicationTrace ready for recording.
func NewReplicationTrace(runID string, robots, replication int, seed int64) *ReplicationTrace {
	return &ReplicationTrace{
		RunID:       runID,
		Robots:      robots,
		Replication: replication,
		Seed:        seed,
		Planes:      make([]PlaneRecord, 0),
	}
}

// RecordPlane appends a plane record.
func (rt *ReplicationTrace) RecordPlane(record PlaneRecord) {
	rt.Planes = append(rt.Planes, record)
}
