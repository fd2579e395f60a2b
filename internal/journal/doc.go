// Package journal provides SQLite-backed storage for pipeline run history.
//
// The journal is append-only:
//   - Runs: one row per pipeline run over a module, with tree hashes before
//     and after the rewrite
//   - Rewrites: one row per switch a pass restored or aborted, keyed by
//     (run_id, seq)
//
// # Ordering
//
// Run ids are UUIDv7, so ordering runs by id orders them by start time.
// Rewrites are ordered by their logical seq within a run. Queries always
// carry an explicit ORDER BY with COLLATE BINARY on text keys.
//
// # Idempotency
//
// Every insert uses ON CONFLICT DO NOTHING, so recording the same run twice
// is harmless.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON: rewrites must reference a recorded run
package journal
