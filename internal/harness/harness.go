package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/kain/internal/cart"
	"github.com/roach88/kain/internal/catalog"
	"github.com/roach88/kain/internal/checkout"
	"github.com/roach88/kain/internal/shop"
	"github.com/roach88/kain/internal/store"
)

// DefaultShopWhatsApp is used when a scenario names no shop number.
const DefaultShopWhatsApp = "6280000000000"

// checkoutTime stamps every order placed by a scenario.
var checkoutTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Harness executes one scenario.
type Harness struct {
	scenario *Scenario
	store    *store.Store
	products map[string]shop.Product
	engine   *cart.Engine
	panel    *cart.Panel
	unsub    func()
	refs     *sequentialRefs
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and seed the snapshot
// 2. Load the catalog and inline products
// 3. Load the engine (unless a step does it)
// 4. Execute steps, recording one trace event each
// 5. Evaluate assertions against the final cart
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if scenario.Seed != "" {
		if err := st.Set(ctx, cart.StorageKey, []byte(scenario.Seed)); err != nil {
			return nil, fmt.Errorf("failed to seed snapshot: %w", err)
		}
	}

	h := &Harness{
		scenario: scenario,
		store:    st,
		refs:     &sequentialRefs{prefix: scenario.Name},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	if err := h.loadProducts(ctx); err != nil {
		return nil, err
	}
	h.newEngine()
	defer h.unsub()

	result := NewResult()
	if !hasExplicitLoad(scenario.Steps) {
		result.addCartEvent(0, OpLoad, h.engine.Load(ctx))
	}

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i+1, step, result); err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Op, err)
		}
	}

	if err := h.collect(ctx, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func hasExplicitLoad(steps []Step) bool {
	for _, s := range steps {
		if s.Op == OpLoad {
			return true
		}
	}
	return false
}

// loadProducts indexes catalog products, then inline products over them.
func (h *Harness) loadProducts(ctx context.Context) error {
	h.products = make(map[string]shop.Product)
	if h.scenario.Catalog != "" {
		c, err := catalog.Load(ctx, h.scenario.Catalog, catalog.WithLogger(h.logger))
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		for _, p := range c.Products() {
			h.products[p.ID] = p
		}
	}
	for _, p := range h.scenario.Products {
		h.products[p.ID] = p
	}
	return nil
}

// newEngine replaces the engine with a fresh, unloaded one over the same
// store, as a page reload would.
func (h *Harness) newEngine() {
	if h.unsub != nil {
		h.unsub()
	}
	h.engine = cart.New(h.store, cart.WithLogger(h.logger))
	h.panel = cart.NewPanel()
	h.unsub = h.engine.Subscribe(h.panel.Observe)
}

func (h *Harness) executeStep(ctx context.Context, n int, step Step, result *Result) error {
	switch step.Op {
	case OpAdd:
		p, ok := h.products[step.Product]
		if !ok {
			return fmt.Errorf("unknown product %q", step.Product)
		}
		var variant *shop.VariantRef
		if step.Variant != "" {
			v, ok := p.Variant(step.Variant)
			if !ok {
				return fmt.Errorf("product %q has no variant %q", step.Product, step.Variant)
			}
			variant = &v
		}
		result.addCartEvent(n, step.Op, h.engine.AddItem(ctx, p, step.Quantity, variant))

	case OpRemove:
		result.addCartEvent(n, step.Op, h.engine.RemoveItem(ctx, step.Item))

	case OpUpdate:
		ev, _ := h.engine.UpdateQuantity(ctx, step.Item, step.Quantity)
		result.addCartEvent(n, step.Op, ev)

	case OpClear:
		result.addCartEvent(n, step.Op, h.engine.Clear(ctx))

	case OpLoad:
		result.addCartEvent(n, step.Op, h.engine.Load(ctx))

	case OpReload:
		h.newEngine()
		result.addCartEvent(n, step.Op, h.engine.Load(ctx))

	case OpCheckout:
		h.checkout(ctx, n, step, result)

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

func (h *Harness) checkout(ctx context.Context, n int, step Step, result *Result) {
	customer := h.scenario.Customer
	if step.Customer != nil {
		customer = *step.Customer
	}
	number := h.scenario.ShopWhatsApp
	if number == "" {
		number = DefaultShopWhatsApp
	}

	svc := checkout.NewService(h.engine, number,
		checkout.WithRecorder(h.store),
		checkout.WithRefGenerator(h.refs),
		checkout.WithClock(func() time.Time { return checkoutTime }),
		checkout.WithServiceLogger(h.logger),
	)
	order, err := svc.PlaceOrder(ctx, customer, h.locale())
	ev := TraceEvent{Step: n, Op: step.Op, Kind: KindOrderPlaced, OrderID: order.ID, Changed: err == nil}
	if err != nil {
		ev.Kind = KindCheckoutRejected
		ev.Error = err.Error()
	}
	result.Trace = append(result.Trace, ev)
}

// collect fills the final cart state into result.
func (h *Harness) collect(ctx context.Context, result *Result) error {
	result.Items = h.engine.Items()
	result.Total = h.engine.Total()
	result.Message = h.engine.FormatOrderMessage(h.scenario.Customer, h.locale())
	result.PanelOpen = h.panel.IsOpen()

	raw, _, err := h.store.Get(ctx, cart.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	result.Snapshot = string(raw)

	orders, err := h.store.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}
	result.Orders = orders
	return nil
}

func (h *Harness) locale() shop.Locale {
	return shop.ParseLocale(string(h.scenario.Locale))
}

// sequentialRefs generates "{prefix}-001", "{prefix}-002", ...
type sequentialRefs struct {
	prefix string
	n      int
}

func (g *sequentialRefs) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n)
}
