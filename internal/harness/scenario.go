package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kain/internal/shop"
)

// Scenario defines a cart scenario: a product set, a sequence of cart
// operations, and assertions over the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Locale selects the order message language. Default: en.
	Locale shop.Locale `yaml:"locale,omitempty"`

	// Catalog is a directory of CUE product files.
	// Relative paths are resolved against the scenario file.
	Catalog string `yaml:"catalog,omitempty"`

	// Products are inline products. They override catalog products with
	// the same id.
	Products []shop.Product `yaml:"products,omitempty"`

	// Seed is a raw snapshot written to storage before the engine loads.
	Seed string `yaml:"seed,omitempty"`

	// ShopWhatsApp is the number checkout links point at.
	ShopWhatsApp string `yaml:"shop_whatsapp,omitempty"`

	// Customer fills the order message and checkout form.
	Customer shop.Customer `yaml:"customer"`

	// Steps are the cart operations, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final cart and the event trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step operations.
const (
	OpAdd      = "add"
	OpRemove   = "remove"
	OpUpdate   = "update"
	OpClear    = "clear"
	OpLoad     = "load"
	OpReload   = "reload"
	OpCheckout = "checkout"
)

// Step is one cart operation.
type Step struct {
	Op string `yaml:"op"`

	// Product and Variant select what to add (add).
	Product string `yaml:"product,omitempty"`
	Variant string `yaml:"variant,omitempty"`

	// Item is the CartItemID to change (remove, update).
	Item string `yaml:"item,omitempty"`

	// Quantity in meters (add, update). Zero on add means the default.
	Quantity float64 `yaml:"quantity,omitempty"`

	// Customer overrides the scenario customer (checkout).
	Customer *shop.Customer `yaml:"customer,omitempty"`
}

// Assertion validates the final cart or the trace.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Value *float64 `yaml:"value,omitempty"`
	Count *int     `yaml:"count,omitempty"`
	Open  *bool    `yaml:"open,omitempty"`

	// Item is a CartItemID (quantity, item_absent, trace_contains).
	Item string `yaml:"item,omitempty"`

	// Text is a substring of the order message (message_contains).
	Text string `yaml:"text,omitempty"`

	// Kind is an event kind (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Kinds is the expected event kind order (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`
}

// Assertion type constants.
const (
	AssertTotal           = "total"
	AssertItemCount       = "item_count"
	AssertQuantity        = "quantity"
	AssertItemAbsent      = "item_absent"
	AssertMessageContains = "message_contains"
	AssertSnapshotItems   = "snapshot_items"
	AssertOrders          = "orders"
	AssertPanelOpen       = "panel_open"
	AssertTraceContains   = "trace_contains"
	AssertTraceCount      = "trace_count"
	AssertTraceOrder      = "trace_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative Catalog path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.Catalog != "" && !filepath.IsAbs(s.Catalog) {
		s.Catalog = filepath.Join(filepath.Dir(path), s.Catalog)
	}
	if s.Catalog != "" {
		if _, err := os.Stat(s.Catalog); err != nil {
			return nil, fmt.Errorf("invalid scenario: catalog: %w", err)
		}
	}
	return s, nil
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, p := range s.Products {
		if p.ID == "" {
			return fmt.Errorf("products[%d]: id is required", i)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step Step) error {
	switch step.Op {
	case OpAdd:
		if step.Product == "" {
			return fmt.Errorf("steps[%d]: product is required for add", i)
		}
	case OpRemove:
		if step.Item == "" {
			return fmt.Errorf("steps[%d]: item is required for remove", i)
		}
	case OpUpdate:
		if step.Item == "" {
			return fmt.Errorf("steps[%d]: item is required for update", i)
		}
	case OpClear, OpLoad, OpReload, OpCheckout:
	case "":
		return fmt.Errorf("steps[%d]: op is required", i)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	need := func(ok bool, what string) error {
		if !ok {
			return fmt.Errorf("assertions[%d]: %s is required for %s", index, what, a.Type)
		}
		return nil
	}

	switch a.Type {
	case AssertTotal:
		return need(a.Value != nil, "value")
	case AssertItemCount, AssertSnapshotItems, AssertOrders:
		return need(a.Count != nil, "count")
	case AssertQuantity:
		if err := need(a.Item != "", "item"); err != nil {
			return err
		}
		return need(a.Value != nil, "value")
	case AssertItemAbsent:
		return need(a.Item != "", "item")
	case AssertMessageContains:
		return need(a.Text != "", "text")
	case AssertPanelOpen:
		return need(a.Open != nil, "open")
	case AssertTraceContains:
		return need(a.Kind != "", "kind")
	case AssertTraceCount:
		if err := need(a.Kind != "", "kind"); err != nil {
			return err
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		return need(len(a.Kinds) > 0, "kinds")
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
