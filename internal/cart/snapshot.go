package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StorageKey is the fixed key the cart snapshot is stored under.
const StorageKey = "kain:cart"

// EncodeSnapshot serializes items as a JSON array. An empty cart encodes
// as "[]", never "null".
func EncodeSnapshot(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return bytes.TrimSpace(buf.Bytes()), nil
}

// DecodeSnapshot parses a stored snapshot and migrates every item.
// A JSON null decodes to an empty cart. Lines that share a CartItemID after
// migration are folded into the first one.
func DecodeSnapshot(data []byte) ([]LineItem, error) {
	var raw []LineItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	items := make([]LineItem, 0, len(raw))
	index := make(map[string]int, len(raw))
	for _, it := range raw {
		it = migrate(it)
		if i, ok := index[it.CartItemID]; ok {
			items[i].Quantity += it.Quantity
			continue
		}
		index[it.CartItemID] = len(items)
		items = append(items, it)
	}
	return items, nil
}
