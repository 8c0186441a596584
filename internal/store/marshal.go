package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/kain/internal/cart"
	"github.com/roach88/kain/internal/shop"
)

// marshalJSON encodes v as compact JSON TEXT.
// HTML escaping is disabled so product names and chat text with "&" or
// "<" are stored as written.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func marshalCustomer(c shop.Customer) (string, error) {
	data, err := marshalJSON(c)
	if err != nil {
		return "", fmt.Errorf("marshal customer: %w", err)
	}
	return data, nil
}

func marshalItem(it cart.LineItem) (string, error) {
	data, err := marshalJSON(it)
	if err != nil {
		return "", fmt.Errorf("marshal item %s: %w", it.CartItemID, err)
	}
	return data, nil
}

func unmarshalCustomer(data string) (shop.Customer, error) {
	var c shop.Customer
	if data == "" || data == "{}" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return shop.Customer{}, fmt.Errorf("unmarshal customer: %w", err)
	}
	return c, nil
}

func unmarshalItem(data string) (cart.LineItem, error) {
	var it cart.LineItem
	if err := json.Unmarshal([]byte(data), &it); err != nil {
		return cart.LineItem{}, fmt.Errorf("unmarshal item: %w", err)
	}
	return it, nil
}
