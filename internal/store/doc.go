// Package store provides SQLite-backed durable storage for the storefront.
//
// The store holds two things:
//   - Key/value snapshots: the cart engine's persisted line items under
//     cart.StorageKey (implements cart.Storage)
//   - Orders: an append-only log of placed orders with their line items
//     (implements checkout.OrderRecorder)
//
// # Ordering
//
// Orders carry a seq INTEGER assigned at write time. All order queries use
// ORDER BY seq ASC, id ASC COLLATE BINARY, never created_at, so listings are
// stable even when the wall clock moves backwards.
//
// # Idempotency
//
// WriteOrder uses ON CONFLICT(id) DO NOTHING. Writing the same order id
// twice keeps the first record and reports inserted=false.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
