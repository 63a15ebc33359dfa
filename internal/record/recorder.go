// Package record persists per-step simulation results to SQLite, one row
// per entity op per timestep. Recording what a run produced is separate
// from checkpointing model state, which this project does not do.
package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/spikeflow-ml/spikeflow/internal/snn"
)

const schema = `
CREATE TABLE IF NOT EXISTS steps (
	step    INTEGER NOT NULL,
	entity  TEXT    NOT NULL,
	op      TEXT    NOT NULL,
	shape   TEXT    NOT NULL,
	payload TEXT    NOT NULL,
	PRIMARY KEY (step, entity, op)
);
`

// Recorder appends step results to a SQLite trace file.
type Recorder struct {
	db *sql.DB
}

// Open creates or opens a trace database at path.
func Open(ctx context.Context, path string) (*Recorder, error) {
	if path == "" {
		return nil, errors.New("record: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("record: open %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("record: ping %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("record: create schema: %w", err)
	}
	return &Recorder{db: db}, nil
}

// RecordStep writes every entity op value of one timestep in a single
// transaction.
func (r *Recorder) RecordStep(ctx context.Context, step int, results snn.StepResults) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record: begin step %d: %w", step, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO steps (step, entity, op, shape, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("record: prepare: %w", err)
	}
	defer stmt.Close()

	for entity, ops := range results {
		for op, value := range ops {
			shape, err := json.Marshal([]int(value.Shape()))
			if err != nil {
				return fmt.Errorf("record: encode shape: %w", err)
			}
			payload, err := json.Marshal(value.Data())
			if err != nil {
				return fmt.Errorf("record: encode payload: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, step, entity, op, string(shape), string(payload)); err != nil {
				return fmt.Errorf("record: insert step %d %s/%s: %w", step, entity, op, err)
			}
		}
	}
	return tx.Commit()
}

// Steps returns the number of distinct recorded timesteps.
func (r *Recorder) Steps(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT step) FROM steps`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("record: count steps: %w", err)
	}
	return n, nil
}

// Values returns the recorded payload for one entity op at one step.
func (r *Recorder) Values(ctx context.Context, step int, entity, op string) ([]float32, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM steps WHERE step = ? AND entity = ? AND op = ?`,
		step, entity, op).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("record: read step %d %s/%s: %w", step, entity, op, err)
	}
	var vals []float32
	if err := json.Unmarshal([]byte(payload), &vals); err != nil {
		return nil, fmt.Errorf("record: decode payload: %w", err)
	}
	return vals, nil
}

// Close releases the database handle.
func (r *Recorder) Close() error {
	return r.db.Close()
}
