package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/kain/internal/cart"
	"github.com/roach88/kain/internal/catalog"
	"github.com/roach88/kain/internal/config"
	"github.com/roach88/kain/internal/money"
	"github.com/roach88/kain/internal/shop"
	"github.com/roach88/kain/internal/store"
)

// Error codes reported in CLIResponse.Error.Code.
const (
	ErrCodeStore      = "E_STORE"
	ErrCodeCatalog    = "E_CATALOG"
	ErrCodeNotFound   = "E_NOT_FOUND"
	ErrCodeStock      = "E_STOCK"
	ErrCodeQuantity   = "E_QUANTITY"
	ErrCodeValidation = "E_VALIDATION"
	ErrCodeEmptyCart  = "E_EMPTY_CART"
	ErrCodeCheckout   = "E_CHECKOUT"
	ErrCodePersist    = "E_PERSIST"
	ErrCodeTestFailed = "E_TEST_FAILED"
)

// session is one command's view of the shop: config, database and a
// loaded cart.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	store  *store.Store
	cart   *cart.Engine
}

// openSession opens the database and loads the cart from it.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	cfg := opts.settings()
	logger := opts.log()

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Database, err)
	}

	engine := cart.New(st, cart.WithLogger(logger))
	engine.Load(ctx)
	logger.Debug("cart loaded", "db", cfg.Database, "items", engine.Len())

	return &session{cfg: cfg, logger: logger, store: st, cart: engine}, nil
}

// Close releases the database.
func (s *session) Close() error {
	s.cart.Close()
	return s.store.Close()
}

// locale is the display locale for this command.
func (s *session) locale() shop.Locale {
	return s.cfg.Locale
}

// catalog loads the product catalog named by the config.
func (s *session) catalog(ctx context.Context) (*catalog.Catalog, error) {
	opts := []catalog.Option{catalog.WithLogger(s.logger)}
	if tr := s.cfg.Translator(s.logger); tr != nil {
		opts = append(opts, catalog.WithTranslator(tr))
	}
	return catalog.Load(ctx, s.cfg.Catalog, opts...)
}

// newFormatter builds the output formatter for cmd.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// commandError reports an error through the formatter and returns the
// matching ExitError.
func commandError(f *OutputFormatter, exitCode int, code, message string, err error) error {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(code, msg, nil)
	return reported(WrapExitError(exitCode, code, err))
}

// ItemView is the JSON shape of one cart line.
type ItemView struct {
	CartItemID string  `json:"cart_item_id"`
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Variant    string  `json:"variant,omitempty"`
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
	Formatted  string  `json:"formatted"`
}

// CartView is the JSON shape of the cart after a command.
type CartView struct {
	Event          *cart.Event `json:"event,omitempty"`
	Items          []ItemView  `json:"items"`
	Total          float64     `json:"total"`
	FormattedTotal string      `json:"formatted_total"`
}

func newCartView(items []cart.LineItem, locale shop.Locale, ev *cart.Event) CartView {
	view := CartView{
		Event: ev,
		Items: make([]ItemView, 0, len(items)),
		Total: cart.Total(items),
	}
	for _, it := range items {
		iv := ItemView{
			CartItemID: it.CartItemID,
			ProductID:  it.ProductID,
			Name:       it.Name.Get(locale),
			Price:      it.Price,
			Quantity:   it.Quantity,
			LineTotal:  it.LineTotal(),
			Formatted:  money.Format(it.LineTotal(), locale),
		}
		if it.Variant != nil {
			iv.Variant = it.Variant.Value.Get(locale)
		}
		view.Items = append(view.Items, iv)
	}
	view.FormattedTotal = money.Format(view.Total, locale)
	return view
}
