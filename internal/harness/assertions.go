package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/kain/internal/cart"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s -> %s", ev.Step, ev.Op, ev.Kind)
			if ev.CartItemID != "" {
				fmt.Fprintf(&buf, " %s", ev.CartItemID)
			}
			if ev.Quantity != 0 {
				fmt.Fprintf(&buf, " q=%s", cart.FormatQuantity(ev.Quantity))
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertTotal:
		return compareFloat(a.Type, *a.Value, r.Total)
	case AssertItemCount:
		return compareInt(a.Type, *a.Count, len(r.Items))
	case AssertQuantity:
		it, ok := findItem(r.Items, a.Item)
		if !ok {
			return &AssertionError{Type: a.Type, Expected: "line " + a.Item, Actual: "not in cart", Trace: r.Trace}
		}
		return compareFloat(a.Type+" "+a.Item, *a.Value, it.Quantity)
	case AssertItemAbsent:
		if _, ok := findItem(r.Items, a.Item); ok {
			return &AssertionError{Type: a.Type, Expected: "no line " + a.Item, Actual: "line present", Trace: r.Trace}
		}
		return nil
	case AssertMessageContains:
		if !strings.Contains(r.Message, a.Text) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("message containing %q", a.Text), Actual: r.Message}
		}
		return nil
	case AssertSnapshotItems:
		items, err := cart.DecodeSnapshot([]byte(r.Snapshot))
		if err != nil {
			return &AssertionError{Type: a.Type, Expected: "decodable snapshot", Actual: err.Error()}
		}
		return compareInt(a.Type, *a.Count, len(items))
	case AssertOrders:
		return compareInt(a.Type, *a.Count, len(r.Orders))
	case AssertPanelOpen:
		if *a.Open != r.PanelOpen {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(*a.Open), Actual: fmt.Sprint(r.PanelOpen), Trace: r.Trace}
		}
		return nil
	case AssertTraceContains:
		return assertTraceContains(r.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(r.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(r.Trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTraceContains checks for an event of the given kind, optionally
// for a specific line item.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Kind == a.Kind && (a.Item == "" || ev.CartItemID == a.Item) {
			return nil
		}
	}
	expected := "event " + a.Kind
	if a.Item != "" {
		expected += " for " + a.Item
	}
	return &AssertionError{Type: a.Type, Expected: expected, Actual: "not found in trace", Trace: trace}
}

// assertTraceCount checks that kind appears exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	n := 0
	for _, ev := range trace {
		if ev.Kind == a.Kind {
			n++
		}
	}
	if n != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s %d times", a.Kind, *a.Count),
			Actual:   fmt.Sprintf("%d times", n),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks that kinds appear in order.
// Kinds don't need to be consecutive (intervening events are allowed).
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, ev := range trace {
		if next < len(a.Kinds) && ev.Kind == a.Kinds[next] {
			next++
		}
	}
	if next < len(a.Kinds) {
		return &AssertionError{
			Type:     a.Type,
			Expected: strings.Join(a.Kinds, " -> "),
			Actual:   fmt.Sprintf("stopped before %s", a.Kinds[next]),
			Trace:    trace,
		}
	}
	return nil
}

func findItem(items []cart.LineItem, id string) (cart.LineItem, bool) {
	for _, it := range items {
		if it.CartItemID == id {
			return it, true
		}
	}
	return cart.LineItem{}, false
}

// compareFloat compares exactly; cart totals are exact sums.
func compareFloat(what string, want, got float64) error {
	if want != got {
		return &AssertionError{Type: what, Expected: fmt.Sprint(want), Actual: fmt.Sprint(got)}
	}
	return nil
}

func compareInt(what string, want, got int) error {
	if want != got {
		return &AssertionError{Type: what, Expected: fmt.Sprint(want), Actual: fmt.Sprint(got)}
	}
	return nil
}
