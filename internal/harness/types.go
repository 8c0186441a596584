package harness

import (
	"github.com/roach88/kain/internal/cart"
	"github.com/roach88/kain/internal/checkout"
)

// Trace event kinds produced by checkout steps, in addition to the
// cart.EventKind values.
const (
	KindOrderPlaced      = "order_placed"
	KindCheckoutRejected = "checkout_rejected"
)

// TraceEvent records the outcome of one step.
type TraceEvent struct {
	Step       int     `json:"step"`
	Op         string  `json:"op"`
	Kind       string  `json:"kind"`
	Seq        int64   `json:"seq"`
	CartItemID string  `json:"cart_item_id,omitempty"`
	Quantity   float64 `json:"quantity,omitempty"`
	Changed    bool    `json:"changed,omitempty"`
	OpenPanel  bool    `json:"open_panel,omitempty"`
	OrderID    string  `json:"order_id,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per step, plus the implicit initial load.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`

	// Items and Total describe the final cart.
	Items []cart.LineItem `json:"items"`
	Total float64         `json:"total"`

	// Message is the order message for the final cart and scenario customer.
	Message string `json:"message"`

	// Snapshot is the raw persisted cart snapshot at the end of the run.
	Snapshot string `json:"snapshot"`

	// PanelOpen is the cart panel state at the end of the run.
	PanelOpen bool `json:"panel_open"`

	// Orders are the orders recorded by checkout steps.
	Orders []checkout.Order `json:"orders,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addCartEvent records a cart engine event for step.
func (r *Result) addCartEvent(step int, op string, ev cart.Event) {
	r.Trace = append(r.Trace, TraceEvent{
		Step:       step,
		Op:         op,
		Kind:       string(ev.Kind),
		Seq:        ev.Seq,
		CartItemID: ev.CartItemID,
		Quantity:   ev.Quantity,
		Changed:    ev.Changed,
		OpenPanel:  ev.OpenPanel,
	})
}
