// Package store provides the SQLite-backed run ledger.
//
// The ledger is opt-in: it is only opened when a command is given
// --ledger. It records one batch per verifier invocation and one entry
// per verified case, so verification history can be inspected later with
// `normverify history`. The ledger file must live outside the fixture
// and output roots; the verifier itself never writes there.
//
// # Ordering
//
// Batches are ordered by a logical seq assigned at insert time
// (MAX(seq)+1 inside the insert transaction), never by wall-clock time.
// Entries within a batch keep the order of the verified case list.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
