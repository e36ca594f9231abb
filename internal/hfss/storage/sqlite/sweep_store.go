// Package sqlite persists sweep runs and their per-variation results.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SweepRun is one persisted sweep: its strategy, the swept variable
// definition and lifecycle state.
type SweepRun struct {
	RunID         string          `json:"run_id"`
	Strategy      string          `json:"strategy"`
	VariablesJSON json.RawMessage `json:"variables_json"`
	Status        string          `json:"status"`
	Error         string          `json:"error,omitempty"`
	StartedAt     int64           `json:"started_at"`
	CompletedAt   int64           `json:"completed_at,omitempty"`
}

// Run lifecycle states.
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusError    = "error"
)

// SweepResult is one persisted report row: the variation it came from, its
// snapshot key and the flat result fields as JSON.
type SweepResult struct {
	ResultID    string          `json:"result_id"`
	RunID       string          `json:"run_id"`
	VariationID string          `json:"variation_id"`
	SnapshotKey string          `json:"snapshot_key"`
	ResultJSON  json.RawMessage `json:"result_json"`
	CreatedAt   int64           `json:"created_at"`
}

// SweepStore provides persistence for sweep runs and results.
type SweepStore struct {
	db *sql.DB
}

// NewSweepStore creates a SweepStore over an already-migrated database.
func NewSweepStore(db *sql.DB) *SweepStore {
	return &SweepStore{db: db}
}

// InsertRun persists a new run. If RunID is empty, a UUID is generated;
// if StartedAt is zero, the current time is used.
func (s *SweepStore) InsertRun(run *SweepRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().UnixNano()
	}
	if run.Status == "" {
		run.Status = RunStatusRunning
	}

	_, err := s.db.Exec(`
		INSERT INTO sweep_runs (run_id, strategy, variables_json, status, error, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Strategy, string(run.VariablesJSON), run.Status, nullable(run.Error), run.StartedAt)
	if err != nil {
		return fmt.Errorf("inserting sweep run: %w", err)
	}
	return nil
}

// CompleteRun marks a run finished with the given status and optional error
// text.
func (s *SweepStore) CompleteRun(runID, status, errText string) error {
	res, err := s.db.Exec(`
		UPDATE sweep_runs SET status = ?, error = ?, completed_at = ? WHERE run_id = ?`,
		status, nullable(errText), time.Now().UnixNano(), runID)
	if err != nil {
		return fmt.Errorf("completing sweep run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no sweep run with id %s", runID)
	}
	return nil
}

// InsertResult persists one report row for a run.
func (s *SweepStore) InsertResult(res *SweepResult) error {
	if res.ResultID == "" {
		res.ResultID = uuid.New().String()
	}
	if res.CreatedAt == 0 {
		res.CreatedAt = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO sweep_results (result_id, run_id, variation_id, snapshot_key, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		res.ResultID, res.RunID, res.VariationID, res.SnapshotKey, string(res.ResultJSON), res.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting sweep result: %w", err)
	}
	return nil
}

// GetRun fetches one run by id.
func (s *SweepStore) GetRun(runID string) (*SweepRun, error) {
	row := s.db.QueryRow(`
		SELECT run_id, strategy, variables_json, status, COALESCE(error, ''), started_at, COALESCE(completed_at, 0)
		FROM sweep_runs WHERE run_id = ?`, runID)

	var run SweepRun
	var varsJSON string
	if err := row.Scan(&run.RunID, &run.Strategy, &varsJSON, &run.Status, &run.Error, &run.StartedAt, &run.CompletedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no sweep run with id %s", runID)
		}
		return nil, fmt.Errorf("fetching sweep run %s: %w", runID, err)
	}
	run.VariablesJSON = json.RawMessage(varsJSON)
	return &run, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *SweepStore) ListRuns(limit int) ([]SweepRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT run_id, strategy, variables_json, status, COALESCE(error, ''), started_at, COALESCE(completed_at, 0)
		FROM sweep_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sweep runs: %w", err)
	}
	defer rows.Close()

	var out []SweepRun
	for rows.Next() {
		var run SweepRun
		var varsJSON string
		if err := rows.Scan(&run.RunID, &run.Strategy, &varsJSON, &run.Status, &run.Error, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		run.VariablesJSON = json.RawMessage(varsJSON)
		out = append(out, run)
	}
	return out, rows.Err()
}

// ResultsForRun returns a run's report rows in insertion order.
func (s *SweepStore) ResultsForRun(runID string) ([]SweepResult, error) {
	rows, err := s.db.Query(`
		SELECT result_id, run_id, variation_id, snapshot_key, result_json, created_at
		FROM sweep_results WHERE run_id = ? ORDER BY created_at, result_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []SweepResult
	for rows.Next() {
		var res SweepResult
		var resultJSON string
		if err := rows.Scan(&res.ResultID, &res.RunID, &res.VariationID, &res.SnapshotKey, &resultJSON, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.ResultJSON = json.RawMessage(resultJSON)
		out = append(out, res)
	}
	return out, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
