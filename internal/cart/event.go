package cart

import "sync"

// EventKind names the mutation an Event describes.
type EventKind string

const (
	EventLoaded          EventKind = "loaded"
	EventItemAdded       EventKind = "item_added"
	EventItemMerged      EventKind = "item_merged"
	EventItemRemoved     EventKind = "item_removed"
	EventQuantityUpdated EventKind = "quantity_updated"
	EventUpdateRejected  EventKind = "update_rejected"
	EventCleared         EventKind = "cleared"
)

// Event describes the outcome of one engine operation.
type Event struct {
	// Seq is the engine's logical clock value for this event.
	Seq int64 `json:"seq"`

	Kind EventKind `json:"kind"`

	// CartItemID is the affected line, empty for Loaded and Cleared.
	CartItemID string `json:"cart_item_id,omitempty"`

	// Quantity is the line's quantity after the operation.
	Quantity float64 `json:"quantity,omitempty"`

	// Changed reports whether the item list was modified.
	Changed bool `json:"changed"`

	// OpenPanel asks views to surface the cart panel. Set by AddItem.
	OpenPanel bool `json:"open_panel,omitempty"`
}

// Panel tracks whether the cart's side panel is visible.
//
// It holds view state only and never touches cart data. Wire it to an
// engine with eng.Subscribe(panel.Observe).
type Panel struct {
	mu   sync.Mutex
	open bool
}

// NewPanel returns a closed panel.
func NewPanel() *Panel {
	return &Panel{}
}

// Observe opens the panel for events that request it.
func (p *Panel) Observe(ev Event) {
	if !ev.OpenPanel {
		return
	}
	p.mu.Lock()
	p.open = true
	p.mu.Unlock()
}

// IsOpen reports whether the panel is visible.
func (p *Panel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// SetOpen shows or hides the panel.
func (p *Panel) SetOpen(open bool) {
	p.mu.Lock()
	p.open = open
	p.mu.Unlock()
}

// Toggle flips visibility and returns the new state.
func (p *Panel) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = !p.open
	return p.open
}
