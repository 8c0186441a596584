// Package harness runs YAML cart scenarios against the real cart engine.
//
// # Scenario Format
//
//	name: merge_variants
//	description: "Adding the same variant twice merges into one line"
//	locale: en
//	catalog: ../catalog          # optional, relative to the scenario file
//	products:                    # optional inline products, override catalog
//	  - id: silk-red
//	    name: {en: Red Silk}
//	    price: 120000
//	seed: '[...]'                # optional raw snapshot stored before load
//	customer:
//	  name: Siti
//	  whatsapp: "081234567890"
//	  address: Jl. Malioboro 12
//	  payment: bank_transfer
//	  delivery: courier
//	steps:
//	  - op: add
//	    product: batik-cotton
//	    variant: indigo
//	    quantity: 1.5
//	  - op: update
//	    item: batik-cotton-indigo
//	    quantity: 3
//	  - op: reload
//	  - op: checkout
//	assertions:
//	  - type: total
//	    value: 255000
//	  - type: trace_order
//	    kinds: [item_added, quantity_updated, loaded]
//
// Steps are add, remove, update, clear, load, reload and checkout. The
// engine is loaded before the first step unless a step loads it
// explicitly, which lets scenarios exercise mutations made before load.
//
// # Assertion Types
//
//   - total: cart total equals value
//   - item_count: number of line items equals count
//   - quantity: line item quantity equals value
//   - item_absent: no line item with the given id
//   - message_contains: rendered order message contains text
//   - snapshot_items: persisted snapshot holds count items
//   - orders: count orders were recorded
//   - panel_open: cart panel open state equals open
//   - trace_contains: an event of kind (and item, if given) was produced
//   - trace_count: events of kind were produced exactly count times
//   - trace_order: kinds appear in order, gaps allowed
//
// # Deterministic Testing
//
// Each run uses a fresh in-memory SQLite store, a fixed checkout clock
// and sequential order references, so traces and messages are
// reproducible for golden file comparison.
package harness
