// Package cart implements the client-side shopping cart engine.
//
// The engine owns the ordered list of line items, their identity and merge
// rules, quantity mutation rules, and persistence to durable client storage.
// It also computes order totals and renders the plain-text order summary
// handed to the messaging channel at checkout.
//
// # Identity
//
// A line item is keyed by its CartItemID: the product id when no variant is
// selected, else "productID-variantID". Adding a product+variant that is
// already in the cart increments the existing line's quantity; there is never
// more than one line per CartItemID.
//
// # Persistence
//
// Load must run before any mutation is written. It reads the snapshot stored
// under StorageKey, migrates items written by older clients (missing
// cartItemId or variant), and from then on every mutation re-serializes the
// whole item list. Mutations made before Load stay in memory only. A snapshot
// that cannot be read or parsed is logged and discarded.
//
// # Events
//
// Every mutation returns an Event and delivers it to subscribers. AddItem's
// event carries OpenPanel so that UI layers (see Panel) can surface the cart
// without the engine holding any view state.
//
// One Engine is shared by every view of a client session. Mutations are
// serialized by an internal mutex; subscribers run after the lock is released.
package cart
