// Package recorder persists per-tick component snapshots into a sqlite file,
// the durable form of the capped in-memory history the UI keeps for plotting.
package recorder

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/procsim/procsim/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	tick      INTEGER NOT NULL,
	sim_time  REAL    NOT NULL,
	component TEXT    NOT NULL,
	field     TEXT    NOT NULL,
	value     REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_samples_component ON samples (component, field, tick);
`

// Recorder writes numeric component state to a sqlite database, one row per
// (tick, component, field).
type Recorder struct {
	db   *sql.DB
	tick int64
}

// Open creates or opens the database at path and ensures the schema exists.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open recorder db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create recorder schema: %w", err)
	}
	return &Recorder{db: db}, nil
}

// RecordNetwork snapshots every component's numeric Info fields at the given
// simulation time. One transaction per tick.
func (r *Recorder) RecordNetwork(simTime float64, n *sim.FlowNetwork) error {
	r.tick++
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("record tick %d: %w", r.tick, err)
	}
	stmt, err := tx.Prepare("INSERT INTO samples (tick, sim_time, component, field, value) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("record tick %d: %w", r.tick, err)
	}
	defer stmt.Close()

	for _, c := range n.Components() {
		for field, v := range c.Info() {
			value, ok := numeric(v)
			if !ok {
				continue
			}
			if _, err := stmt.Exec(r.tick, simTime, c.ID(), field, value); err != nil {
				tx.Rollback()
				return fmt.Errorf("record tick %d: %w", r.tick, err)
			}
		}
	}
	return tx.Commit()
}

// numeric coerces the Info value types worth persisting: floats and bools.
func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Ticks returns the number of recorded ticks.
func (r *Recorder) Ticks() int64 { return r.tick }

// Close flushes and closes the database.
func (r *Recorder) Close() error { return r.db.Close() }
