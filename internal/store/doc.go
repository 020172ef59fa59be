// Package store provides the SQLite-backed run log for reldir.
//
// Every normalization the CLI performs with --db is appended to the runs
// table: the query, the rendered output, the outcome and the hash of the
// schema it ran against. The history and replay commands read it back.
//
// # Ordering
//
// Runs are ordered by seq INTEGER (a logical clock), never by timestamps.
// All queries use ORDER BY seq ASC, id ASC COLLATE BINARY so that listings
// and replays are identical across invocations.
//
// # Identity
//
// Run ids are UUIDv7 strings; tests inject fixed generators. Query and
// schema hashes come from internal/ir/hash.go (SHA-256 with domain
// separation).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
