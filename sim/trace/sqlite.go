package trace

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

const defaultBatchSize = 10000

// SQLiteWriter buffers plane records and writes them to a SQLite database in
// batched transactions. Not safe for concurrent use.
type SQLiteWriter struct {
	db        *sql.DB
	statement *sql.Stmt

	path      string
	pending   []planeRow
	batchSize int
	written   int
}

type planeRow struct {
	runID       string
	robots      int
	replication int
	seed        int64
	rec         PlaneRecord
}

// NewSQLiteWriter creates the database file at path and its planes table.
// An empty path picks a unique name. Existing files are never overwritten.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if path == "" {
		path = "airport_trace_" + xid.New().String() + ".sqlite3"
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("trace database %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database %s: %w", path, err)
	}
	w := &SQLiteWriter{db: db, path: path, batchSize: defaultBatchSize}
	if err := w.createTable(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := w.prepareStatement(); err != nil {
		_ = db.Close()
		return nil, err
	}
	logrus.Infof("Trace is collected in database %s", path)
	return w, nil
}

func (w *SQLiteWriter) createTable() error {
	_, err := w.db.Exec(`
		CREATE TABLE planes (
			run_id        TEXT    NOT NULL,
			robots        INTEGER NOT NULL,
			replication   INTEGER NOT NULL,
			seed          INTEGER NOT NULL,
			plane_id      INTEGER NOT NULL,
			status        TEXT    NOT NULL,
			queue_entry   REAL    NOT NULL,
			service_start REAL,
			service_end   REAL,
			PRIMARY KEY (run_id, robots, replication, plane_id)
		)`)
	if err != nil {
		return fmt.Errorf("creating planes table: %w", err)
	}
	return nil
}

func (w *SQLiteWriter) prepareStatement() error {
	stmt, err := w.db.Prepare(`
		INSERT INTO planes (run_id, robots, replication, seed, plane_id, status,
			queue_entry, service_start, service_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	w.statement = stmt
	return nil
}

// Path returns the database file name.
func (w *SQLiteWriter) Path() string { return w.path }

// Written returns how many rows have been committed.
func (w *SQLiteWriter) Written() int { return w.written }

// Write buffers every plane of rt, flushing when the batch is full.
func (w *SQLiteWriter) Write(rt *ReplicationTrace) error {
	if rt == nil {
		return nil
	}
	for _, rec := range rt.Planes {
		w.pending = append(w.pending, planeRow{
			runID:       rt.RunID,
			robots:      rt.Robots,
			replication: rt.Replication,
			seed:        rt.Seed,
			rec:         rec,
		})
		if len(w.pending) >= w.batchSize {
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush writes all buffered rows in one transaction.
func (w *SQLiteWriter) Flush() error {
	if len(w.pending) == 0 {
		return nil
	}
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning trace transaction: %w", err)
	}
	stmt := tx.Stmt(w.statement)
	for _, row := range w.pending {
		var start, end any
		if row.rec.Started {
			start = row.rec.ServiceStart
		}
		if row.rec.Unloaded {
			end = row.rec.ServiceEnd
		}
		_, err := stmt.Exec(row.runID, row.robots, row.replication, row.seed,
			row.rec.PlaneID, row.rec.Status, row.rec.QueueEntry, start, end)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("inserting plane %d (robots=%d rep=%d): %w",
				row.rec.PlaneID, row.robots, row.replication, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trace transaction: %w", err)
	}
	w.written += len(w.pending)
	w.pending = nil
	return nil
}

// Close flushes pending rows and closes the database.
func (w *SQLiteWriter) Close() error {
	flushErr := w.Flush()
	if w.statement != nil {
		_ = w.statement.Close()
	}
	closeErr := w.db.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
