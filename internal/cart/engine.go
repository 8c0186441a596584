package cart

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/roach88/kain/internal/shop"
)

// Storage is durable client-side key/value storage.
// Implemented by store.Store (SQLite) and testutil.MemoryStorage.
type Storage interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
}

// Engine owns the cart's line items.
//
// Thread-safety model:
//   - All methods are safe from any goroutine
//   - Mutations and storage writes happen under one mutex, so writes reach
//     storage in mutation order
//   - Subscribers are called after the mutex is released, in Seq order per
//     calling goroutine
//
// INVARIANTS:
//   - At most one line item per CartItemID
//   - Storage is never written before Load has completed
type Engine struct {
	mu         sync.Mutex
	storage    Storage
	key        string
	logger     *slog.Logger
	clock      *Clock
	items      []LineItem
	loaded     bool
	persistErr error

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSubID   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithStorageKey overrides StorageKey. Used to keep several carts in one store.
func WithStorageKey(key string) Option {
	return func(e *Engine) {
		e.key = key
	}
}

// WithLogger sets the logger for load and persistence diagnostics.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an empty, not yet loaded engine over storage.
// Call Load before relying on persisted state.
func New(storage Storage, opts ...Option) *Engine {
	e := &Engine{
		storage:     storage,
		key:         StorageKey,
		logger:      slog.Default(),
		clock:       NewClock(),
		subscribers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load hydrates the cart from storage and enables persistence.
//
// A valid snapshot replaces the in-memory items. A missing, unreadable or
// unparsable snapshot leaves them as they are. Either way, Load finishes by
// writing the current items back, so a corrupt snapshot is overwritten.
// Calling Load again is a no-op.
func (e *Engine) Load(ctx context.Context) Event {
	e.mu.Lock()
	if e.loaded {
		ev := Event{Seq: e.clock.Current(), Kind: EventLoaded}
		e.mu.Unlock()
		return ev
	}

	if items, ok := e.readSnapshot(ctx); ok {
		e.items = items
	}
	e.loaded = true
	e.persistLocked(ctx)

	ev := Event{Seq: e.clock.Next(), Kind: EventLoaded, Changed: true}
	e.mu.Unlock()

	e.notify(ev)
	return ev
}

// readSnapshot returns the stored items. ok is false when nothing usable
// is stored; failures are logged, never returned.
func (e *Engine) readSnapshot(ctx context.Context) ([]LineItem, bool) {
	if e.storage == nil {
		return nil, false
	}
	data, found, err := e.storage.Get(ctx, e.key)
	if err != nil {
		e.logger.Warn("cart snapshot read failed, starting empty", "key", e.key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	items, err := DecodeSnapshot(data)
	if err != nil {
		e.logger.Warn("cart snapshot discarded", "key", e.key, "error", err)
		return nil, false
	}
	e.logger.Debug("cart snapshot loaded", "key", e.key, "items", len(items))
	return items, true
}

// Loaded reports whether Load has completed.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// AddItem adds quantity meters of product (and optional variant).
//
// If a line with the same CartItemID exists its quantity is incremented,
// otherwise a new line is appended with a snapshot of the product. A
// quantity <= 0, NaN or infinite is treated as DefaultQuantity. A variant
// with an empty ID is treated as no variant. Stock limits are not checked
// here; callers enforce them before calling.
//
// The returned event always has OpenPanel set.
func (e *Engine) AddItem(ctx context.Context, product shop.Product, quantity float64, variant *shop.VariantRef) Event {
	if !(quantity > 0) || math.IsInf(quantity, 0) {
		quantity = DefaultQuantity
	}
	if variant != nil && variant.ID == "" {
		variant = nil
	}
	id := itemID(product.ID, variant)

	e.mu.Lock()
	ev := Event{Kind: EventItemAdded, CartItemID: id, Changed: true, OpenPanel: true}
	if i := e.indexLocked(id); i >= 0 {
		e.items[i].Quantity += quantity
		ev.Kind = EventItemMerged
		ev.Quantity = e.items[i].Quantity
	} else {
		e.items = append(e.items, newLineItem(product, quantity, variant))
		ev.Quantity = quantity
	}
	ev.Seq = e.clock.Next()
	e.persistLocked(ctx)
	e.mu.Unlock()

	e.notify(ev)
	return ev
}

// RemoveItem deletes the line with the given id. Removing an absent id is
// a no-op.
func (e *Engine) RemoveItem(ctx context.Context, cartItemID string) Event {
	e.mu.Lock()
	ev := Event{Kind: EventItemRemoved, CartItemID: cartItemID}
	i := e.indexLocked(cartItemID)
	if i < 0 {
		ev.Seq = e.clock.Current()
		e.mu.Unlock()
		return ev
	}
	e.items = append(e.items[:i], e.items[i+1:]...)
	ev.Changed = true
	ev.Seq = e.clock.Next()
	e.persistLocked(ctx)
	e.mu.Unlock()

	e.notify(ev)
	return ev
}

// UpdateQuantity sets the quantity of an existing line.
//
// Quantities below MinQuantity, NaN and infinities are rejected without
// mutation; callers
// route that case to RemoveItem. ok is false when the update was rejected.
// An absent id is a no-op and reports ok with Changed false.
func (e *Engine) UpdateQuantity(ctx context.Context, cartItemID string, quantity float64) (ev Event, ok bool) {
	e.mu.Lock()
	ev = Event{Kind: EventQuantityUpdated, CartItemID: cartItemID}
	if !(quantity >= MinQuantity) || math.IsInf(quantity, 0) {
		ev.Kind = EventUpdateRejected
		ev.Seq = e.clock.Current()
		if i := e.indexLocked(cartItemID); i >= 0 {
			ev.Quantity = e.items[i].Quantity
		}
		e.mu.Unlock()
		return ev, false
	}

	i := e.indexLocked(cartItemID)
	if i < 0 {
		ev.Seq = e.clock.Current()
		e.mu.Unlock()
		return ev, true
	}
	e.items[i].Quantity = quantity
	ev.Quantity = quantity
	ev.Changed = true
	ev.Seq = e.clock.Next()
	e.persistLocked(ctx)
	e.mu.Unlock()

	e.notify(ev)
	return ev, true
}

// Clear empties the cart unconditionally. Used after an order is placed.
func (e *Engine) Clear(ctx context.Context) Event {
	e.mu.Lock()
	e.items = nil
	ev := Event{Seq: e.clock.Next(), Kind: EventCleared, Changed: true}
	e.persistLocked(ctx)
	e.mu.Unlock()

	e.notify(ev)
	return ev
}

// Items returns a copy of the line items in display order.
func (e *Engine) Items() []LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneItems(e.items)
}

// Item returns the line with the given id.
func (e *Engine) Item(cartItemID string) (LineItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexLocked(cartItemID); i >= 0 {
		return cloneItems(e.items[i : i+1])[0], true
	}
	return LineItem{}, false
}

// Len returns the number of line items.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}

// Total returns the sum of Price * Quantity over all lines.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Total(e.items)
}

// Total returns the sum of Price * Quantity over items.
func Total(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

// PersistErr returns the error from the most recent failed storage write,
// or nil once a later write succeeds.
func (e *Engine) PersistErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistErr
}

// Subscribe registers fn to receive every event that changed the cart.
// The returned function unregisters it.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.subMu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subscribers, id)
		e.subMu.Unlock()
	}
}

// Close drops all subscribers. The engine stays usable.
func (e *Engine) Close() {
	e.subMu.Lock()
	e.subscribers = make(map[int]func(Event))
	e.subMu.Unlock()
}

func (e *Engine) notify(ev Event) {
	e.subMu.Lock()
	fns := make([]func(Event), 0, len(e.subscribers))
	for id := 0; id < e.nextSubID; id++ {
		if fn, ok := e.subscribers[id]; ok {
			fns = append(fns, fn)
		}
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (e *Engine) indexLocked(cartItemID string) int {
	for i := range e.items {
		if e.items[i].CartItemID == cartItemID {
			return i
		}
	}
	return -1
}

// persistLocked writes the full item list. Must hold e.mu.
// Writes before Load are suppressed.
func (e *Engine) persistLocked(ctx context.Context) {
	if !e.loaded || e.storage == nil {
		return
	}
	data, err := EncodeSnapshot(e.items)
	if err == nil {
		err = e.storage.Set(ctx, e.key, data)
	}
	if err != nil {
		e.persistErr = fmt.Errorf("persist cart: %w", err)
		e.logger.Warn("cart snapshot write failed", "key", e.key, "error", err)
		return
	}
	e.persistErr = nil
}
