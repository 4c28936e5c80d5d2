// Package store provides SQLite-backed durable storage for launcher icons.
//
// One table holds both record kinds:
//   - Standard icons: the shared catalog, one per module
//   - User icons: per-user overrides and custom shortcuts
//
// A second table holds the per-user blocked-module sets used for access
// control in the merged view.
//
// # Uniqueness
//
//   - UNIQUE(module_name, owner, standard): at most one override per user
//     and module
//   - partial UNIQUE(module_name) WHERE standard = 1: at most one catalog
//     entry per module
//
// Violations surface as icon errors with ErrCodeConflict so copy-on-write races can be
// resolved by re-fetching the winner.
//
// # Deterministic Reads
//
// Every list query ends in ORDER BY idx ASC, seq ASC, where seq is the
// insertion sequence. Equal idx values therefore keep creation order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
