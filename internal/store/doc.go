// Package store provides SQLite-backed storage for patient records.
//
// Birth dates are stored as INTEGER Unix milliseconds in UTC, which makes
// every date predicate a plain integer comparison that SQLite can answer from
// the birth_date index.
//
// # Deterministic Query Results
//
// All queries MUST include: ORDER BY birth_date ASC, id ASC COLLATE BINARY.
// The in-memory source returns records in the same order when they were
// inserted in that order, so both sources can be compared directly.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
