package trace

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrace(replication int) *ReplicationTrace {
	rt := NewReplicationTrace("run-1", 3, replication, int64(42+replication))
	rt.RecordPlane(PlaneRecord{PlaneID: 1, Status: "UNLOADED", QueueEntry: 2, ServiceStart: 2, ServiceEnd: 8, Started: true, Unloaded: true})
	rt.RecordPlane(PlaneRecord{PlaneID: 2, Status: "BEING_SERVED", QueueEntry: 4, ServiceStart: 8, Started: true})
	rt.RecordPlane(PlaneRecord{PlaneID: 3, Status: "WAITING", QueueEntry: 9})
	return rt
}

func TestSQLiteWriter_RoundTrip(t *testing.T) {
	// GIVEN a writer with a tiny batch so Write flushes mid-trace
	path := filepath.Join(t.TempDir(), "trace.sqlite3")
	w, err := NewSQLiteWriter(path)
	require.NoError(t, err)
	w.batchSize = 2

	// WHEN two replications are written and the writer closed
	require.NoError(t, w.Write(sampleTrace(0)))
	require.NoError(t, w.Write(sampleTrace(1)))
	require.NoError(t, w.Close())
	assert.Equal(t, 6, w.Written())

	// THEN every row is there, with NULL for unset transitions
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM planes`).Scan(&n))
	assert.Equal(t, 6, n)

	var start, end sql.NullFloat64
	var status string
	var seed int64
	err = db.QueryRow(`SELECT status, seed, service_start, service_end FROM planes
		WHERE replication = 1 AND plane_id = 2`).Scan(&status, &seed, &start, &end)
	require.NoError(t, err)
	assert.Equal(t, "BEING_SERVED", status)
	assert.Equal(t, int64(43), seed)
	assert.True(t, start.Valid)
	assert.Equal(t, 8.0, start.Float64)
	assert.False(t, end.Valid)

	var waiting int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM planes WHERE service_start IS NULL`).Scan(&waiting))
	assert.Equal(t, 2, waiting)
}

func TestSQLiteWriter_RefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.sqlite3")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewSQLiteWriter(path)

	assert.Error(t, err)
}

func TestSQLiteWriter_DuplicateKeyFailsFlush(t *testing.T) {
	w, err := NewSQLiteWriter(filepath.Join(t.TempDir(), "dup.sqlite3"))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Write(sampleTrace(0)))
	require.NoError(t, w.Write(sampleTrace(0)))

	assert.Error(t, w.Flush())
	assert.Zero(t, w.Written(), "failed transaction is rolled back")
}

func TestSQLiteWriter_NilTraceIsNoop(t *testing.T) {
	w, err := NewSQLiteWriter(filepath.Join(t.TempDir(), "nil.sqlite3"))
	require.NoError(t, err)

	require.NoError(t, w.Write(nil))
	require.NoError(t, w.Close())
	assert.Zero(t, w.Written())
}
