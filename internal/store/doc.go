// Package store provides durable storage for experiment runs.
//
// SQLite with WAL mode, one writer. A run is written atomically: the run row
// and all its shot rows land in a single transaction, so a recorded run is
// always complete. Writes are idempotent (ON CONFLICT DO NOTHING keyed on
// the run token), which makes re-recording the same run a no-op.
//
// The stored run carries everything replay needs: the original definition
// bytes, the effective seed, and the trace fingerprint to compare against.
package store
