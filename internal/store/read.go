package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run token has no record.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is a stored run as read back from the database.
type RunRecord struct {
	Token       string `json:"token"`
	Name        string `json:"name"`
	Definition  string `json:"-"` // original experiment YAML
	Seed        int64  `json:"seed"`
	Shots       int    `json:"shots"`
	Fingerprint string `json:"fingerprint"`
	Trace       string `json:"-"` // canonical trace JSON
	CreatedAt   string `json:"created_at"`
}

// RunSummary is the listing view of a run.
type RunSummary struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	Shots     int    `json:"shots"`
	CreatedAt string `json:"created_at"`
}

// GetRun returns the stored run for a token, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, token string) (*RunRecord, error) {
	var rec RunRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT token, name, definition, seed, shots, fingerprint, trace, created_at
		FROM runs WHERE token = ?
	`, token).Scan(
		&rec.Token, &rec.Name, &rec.Definition, &rec.Seed,
		&rec.Shots, &rec.Fingerprint, &rec.Trace, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, token)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &rec, nil
}

// ListRuns returns all recorded runs ordered by creation (token order, since
// tokens are UUIDv7 and time-sortable).
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, name, shots, created_at FROM runs ORDER BY token
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.Token, &r.Name, &r.Shots, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Counts returns, for one run, the number of shots observed per label,
// in deterministic label order.
func (s *Store) Counts(ctx context.Context, token string) (map[string]int, error) {
	// Distinguish "no shots" from "no run".
	if _, err := s.GetRun(ctx, token); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT label, COUNT(*) FROM shots
		WHERE run_token = ?
		GROUP BY label
		ORDER BY label
	`, token)
	if err != nil {
		return nil, fmt.Errorf("counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("counts: %w", err)
		}
		counts[label] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counts: %w", err)
	}
	return counts, nil
}
