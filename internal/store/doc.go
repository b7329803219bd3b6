// Package store provides SQLite-backed run history.
//
// Each written report becomes:
//   - Runs: one row per run with its status counts
//   - Unit results: one row per unit attempted, in report order
//   - Outcomes: one row per recorded assertion outcome
//
// Runs are append-only. Writing a run ID that is already stored is a
// no-op, so a report can be written twice safely.
//
// Ordering uses the seq and position columns, never timestamps, so reads
// return reports exactly as they were written. Outcome IDs are
// content-addressed: SHA-256 over the run, unit and sequence number with
// domain separation (see OutcomeID).
//
// Messages and errors are stored in Unicode NFC so that history searches
// do not depend on how the asserting code composed its strings.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
