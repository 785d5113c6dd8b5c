package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnalysisRun is one recorded pipeline execution.
type AnalysisRun struct {
	ID            string     `json:"id"`
	Area          string     `json:"area"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	Sensors       int        `json:"sensors"`
	FailedSensors []string   `json:"failed_sensors,omitempty"`
	Status        string     `json:"status"`
}

// RunsRepository records analysis runs for the viewer.
type RunsRepository struct {
	db *sql.DB
}

// NewRunsRepository creates a new runs repository.
func NewRunsRepository(db *sql.DB) *RunsRepository {
	return &RunsRepository{db: db}
}

// Start records the beginning of a run and returns its id.
func (r *RunsRepository) Start(area string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(
		`INSERT INTO analysis_runs (id, area, started_at, status) VALUES (?, ?, ?, 'running')`,
		id, area, time.Now().UTC().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("record run start: %w", err)
	}
	return id, nil
}

// Finish marks a run complete, recording how many sensors contributed and
// which ones failed to fetch.
func (r *RunsRepository) Finish(id string, sensors int, failedSensors []string) error {
	_, err := r.db.Exec(
		`UPDATE analysis_runs SET finished_at = ?, sensors = ?, failed = ?, status = 'done' WHERE id = ?`,
		time.Now().UTC().Unix(), sensors, strings.Join(failedSensors, ","), id,
	)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	return nil
}

// List returns recorded runs, newest first.
func (r *RunsRepository) List(limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, area, started_at, finished_at, sensors, failed, status
		FROM analysis_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRun
	for rows.Next() {
		var run AnalysisRun
		var started int64
		var finished sql.NullInt64
		var failed string
		if err := rows.Scan(&run.ID, &run.Area, &started, &finished, &run.Sensors, &failed, &run.Status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = time.Unix(started, 0).UTC()
		if finished.Valid {
			t := time.Unix(finished.Int64, 0).UTC()
			run.FinishedAt = &t
		}
		if failed != "" {
			run.FailedSensors = strings.Split(failed, ",")
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return out, nil
}
