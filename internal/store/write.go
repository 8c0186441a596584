package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/kain/internal/checkout"
)

// WriteOrder inserts an order and its line items in one transaction.
// Returns the order's seq and whether a new record was inserted.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: if the order id already
// exists, nothing is written and the existing seq is returned with
// inserted=false. order.Seq is ignored; seq is assigned as MAX(seq)+1.
func (s *Store) WriteOrder(ctx context.Context, order checkout.Order) (seq int64, inserted bool, err error) {
	customerJSON, err := marshalCustomer(order.Customer)
	if err != nil {
		return 0, false, fmt.Errorf("write order: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("write order: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM orders`).Scan(&seq); err != nil {
		return 0, false, fmt.Errorf("write order: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders
		(id, seq, customer, locale, total, message, link, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		order.ID,
		seq,
		customerJSON,
		string(order.Locale),
		order.Total,
		order.Message,
		order.Link,
		order.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, false, fmt.Errorf("write order: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("write order: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Conflict - order already recorded, report its seq
		if err := tx.QueryRowContext(ctx, `SELECT seq FROM orders WHERE id = ?`, order.ID).Scan(&seq); err != nil {
			return 0, false, fmt.Errorf("write order: select existing: %w", err)
		}
		return seq, false, nil
	}

	for i, it := range order.Items {
		itemJSON, err := marshalItem(it)
		if err != nil {
			return 0, false, fmt.Errorf("write order: %w", err)
		}
		var variantID string
		if it.Variant != nil {
			variantID = it.Variant.ID
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			(order_id, position, cart_item_id, product_id, variant_id, price, quantity, item)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			order.ID,
			i,
			it.CartItemID,
			it.ProductID,
			variantID,
			it.Price,
			it.Quantity,
			itemJSON,
		)
		if err != nil {
			return 0, false, fmt.Errorf("write order: insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("write order: commit: %w", err)
	}

	return seq, true, nil
}

// RecordOrder implements checkout.OrderRecorder.
// Re-recording an existing order id is not an error.
func (s *Store) RecordOrder(ctx context.Context, order checkout.Order) error {
	_, _, err := s.WriteOrder(ctx, order)
	return err
}
