package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/agomlabs/psikit/internal/experiment"
	"github.com/agomlabs/psikit/internal/trace"
)

// WriteRun records a completed run: the run row and every shot row in one
// transaction. Either the whole run persists or none of it does.
//
// Idempotent: re-writing a token that already exists is a silent no-op
// (ON CONFLICT DO NOTHING on the run row, and the shot inserts are skipped).
//
// The definition bytes are the original experiment YAML, stored verbatim so
// replay re-parses exactly what was run.
func (s *Store) WriteRun(ctx context.Context, result *experiment.Result, definition []byte) error {
	snapshot := &trace.Snapshot{Name: result.Name, Token: result.Token, Events: result.Events}
	traceJSON, err := snapshot.MarshalCanonical()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (token, name, definition, seed, shots, fingerprint, trace)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		result.Token,
		result.Name,
		string(definition),
		result.Seed,
		result.Shots,
		result.Fingerprint,
		string(traceJSON),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if inserted == 0 {
		// Run already recorded; nothing more to do.
		return tx.Commit()
	}

	for _, event := range result.Events {
		if event.Type != trace.EventShot {
			continue
		}
		probability, err := strconv.ParseFloat(event.Probability, 64)
		if err != nil {
			return fmt.Errorf("write run: shot %d has malformed probability %q: %w",
				event.Shot, event.Probability, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO shots (run_token, seq, shot, label, probability)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			result.Token,
			event.Seq,
			event.Shot,
			event.Label,
			probability,
		)
		if err != nil {
			return fmt.Errorf("write run: shot %d: %w", event.Shot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}
