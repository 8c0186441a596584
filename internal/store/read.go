package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/kain/internal/cart"
	"github.com/roach88/kain/internal/checkout"
	"github.com/roach88/kain/internal/shop"
)

// rowScanner is implemented by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ReadOrder retrieves a single order with its line items.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadOrder(ctx context.Context, id string) (checkout.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, customer, locale, total, message, link, created_at
		FROM orders
		WHERE id = ?
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		return checkout.Order{}, err
	}

	items, err := s.readOrderItems(ctx, order.ID)
	if err != nil {
		return checkout.Order{}, err
	}
	order.Items = items
	return order, nil
}

// ListOrders returns all orders with their line items.
// Results are ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if no orders exist.
func (s *Store) ListOrders(ctx context.Context) ([]checkout.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, customer, locale, total, message, link, created_at
		FROM orders
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	var orders []checkout.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	// Close before the item queries; the pool has a single connection.
	rows.Close()

	for i := range orders {
		items, err := s.readOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	// Return empty slice instead of nil
	if orders == nil {
		orders = []checkout.Order{}
	}

	return orders, nil
}

// CountOrdersForProduct returns how many recorded orders include productID.
func (s *Store) CountOrdersForProduct(ctx context.Context, productID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT order_id) FROM order_items WHERE product_id = ?
	`, productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders for product: %w", err)
	}
	return count, nil
}

func (s *Store) readOrderItems(ctx context.Context, orderID string) ([]cart.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item
		FROM order_items
		WHERE order_id = ?
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := []cart.LineItem{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it, err := unmarshalItem(data)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

func scanOrder(row rowScanner) (checkout.Order, error) {
	var (
		order        checkout.Order
		customerJSON string
		locale       string
		createdAt    string
	)
	err := row.Scan(
		&order.ID,
		&order.Seq,
		&customerJSON,
		&locale,
		&order.Total,
		&order.Message,
		&order.Link,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return checkout.Order{}, err
	}
	if err != nil {
		return checkout.Order{}, fmt.Errorf("scan order: %w", err)
	}

	order.Customer, err = unmarshalCustomer(customerJSON)
	if err != nil {
		return checkout.Order{}, err
	}
	order.Locale = shop.Locale(locale)
	order.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return checkout.Order{}, fmt.Errorf("parse created_at: %w", err)
	}
	return order, nil
}
