package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/kain/internal/cart"
	"github.com/roach88/kain/internal/checkout"
	"github.com/roach88/kain/internal/shop"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Variant  string
	Quantity float64
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add fabric to the cart",
		Long: `Add a product from the catalog to the cart.

Quantities are in meters and rounded to 0.25m steps. Adding a product
(and variant) already in the cart increases its quantity.

Examples:
  kain add silk-red
  kain add batik-cotton --variant indigo --qty 2.5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Variant, "variant", "", "variant id")
	cmd.Flags().Float64Var(&opts.Quantity, "qty", cart.DefaultQuantity, "quantity in meters")

	return cmd
}

func runAdd(opts *AddOptions, productID string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := newFormatter(opts.RootOptions, cmd)

	s, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return commandError(f, ExitCommandError, ErrCodeStore, "opening cart", err)
	}
	defer s.Close()

	cat, err := s.catalog(ctx)
	if err != nil {
		return commandError(f, ExitCommandError, ErrCodeCatalog, "loading catalog", err)
	}
	f.VerboseLog("Loaded %d product(s) from %s", cat.Len(), s.cfg.Catalog)

	product, ok := cat.Product(productID)
	if !ok {
		return commandError(f, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("product %q not in catalog", productID), nil)
	}

	var variant *shop.VariantRef
	if opts.Variant != "" {
		v, ok := product.Variant(opts.Variant)
		if !ok {
			return commandError(f, ExitCommandError, ErrCodeNotFound,
				fmt.Sprintf("product %q has no variant %q", productID, opts.Variant), nil)
		}
		variant = &v
	}

	qty := checkout.StepQuantity(opts.Quantity)
	var inCart float64
	if it, ok := s.cart.Item(shop.ItemID(productID, opts.Variant)); ok {
		inCart = it.Quantity
	}
	if !checkout.CanAdd(product, variant, inCart, qty) {
		left := checkout.Remaining(product, variant, inCart)
		return commandError(f, ExitFailure, ErrCodeStock,
			fmt.Sprintf("only %sm left of %s", cart.FormatQuantity(left), product.Name.Get(s.locale())), nil)
	}

	ev := s.cart.AddItem(ctx, product, qty, variant)
	if err := s.cart.PersistErr(); err != nil {
		return commandError(f, ExitCommandError, ErrCodePersist, "saving cart", err)
	}

	return outputCart(f, s, &ev)
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <cart-item-id>",
		Short: "Remove a line from the cart",
		Long: `Remove a line from the cart. Removing a line that is not in the cart
does nothing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(rootOpts, cmd, func(s *session) (cart.Event, error) {
				return s.cart.RemoveItem(cmd.Context(), args[0]), nil
			})
		},
	}
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <cart-item-id> <qty>",
		Short: "Set the quantity of a cart line",
		Long: `Set the quantity of a cart line in meters.

Quantities below 1 are rejected and the line is left unchanged; use
remove to take a line out of the cart.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				f := newFormatter(rootOpts, cmd)
				return commandError(f, ExitCommandError, ErrCodeQuantity, fmt.Sprintf("invalid quantity %q", args[1]), nil)
			}
			return mutate(rootOpts, cmd, func(s *session) (cart.Event, error) {
				ev, ok := s.cart.UpdateQuantity(cmd.Context(), args[0], qty)
				if !ok && (math.IsNaN(qty) || math.IsInf(qty, 0)) {
					return ev, fmt.Errorf("quantity %s is not a finite number", args[1])
				}
				if !ok {
					return ev, fmt.Errorf("quantity %s is below the minimum of %sm", args[1], cart.FormatQuantity(cart.MinQuantity))
				}
				return ev, nil
			})
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Empty the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(rootOpts, cmd, func(s *session) (cart.Event, error) {
				return s.cart.Clear(cmd.Context()), nil
			})
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the cart and its total",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			s, err := openSession(cmd.Context(), rootOpts)
			if err != nil {
				return commandError(f, ExitCommandError, ErrCodeStore, "opening cart", err)
			}
			defer s.Close()
			return outputCart(f, s, nil)
		},
	}
}

// mutate opens the cart, applies fn and prints the result. An error from
// fn is a rejected change and exits with ExitFailure.
func mutate(opts *RootOptions, cmd *cobra.Command, fn func(s *session) (cart.Event, error)) error {
	f := newFormatter(opts, cmd)

	s, err := openSession(cmd.Context(), opts)
	if err != nil {
		return commandError(f, ExitCommandError, ErrCodeStore, "opening cart", err)
	}
	defer s.Close()

	ev, err := fn(s)
	if err != nil {
		return commandError(f, ExitFailure, ErrCodeQuantity, "update rejected", err)
	}
	if err := s.cart.PersistErr(); err != nil {
		return commandError(f, ExitCommandError, ErrCodePersist, "saving cart", err)
	}
	f.VerboseLog("%s seq=%d changed=%t", ev.Kind, ev.Seq, ev.Changed)

	return outputCart(f, s, &ev)
}

// outputCart prints the cart in the configured format.
func outputCart(f *OutputFormatter, s *session, ev *cart.Event) error {
	view := newCartView(s.cart.Items(), s.locale(), ev)
	if f.Format == "json" {
		return f.Success(view)
	}

	w := f.Writer
	if ev != nil && !ev.Changed {
		fmt.Fprintln(w, "Cart unchanged.")
	}
	if len(view.Items) == 0 {
		fmt.Fprintln(w, "Cart is empty.")
		return nil
	}

	fmt.Fprintf(w, "Cart (%d item(s)):\n", len(view.Items))
	for _, it := range view.Items {
		name := it.Name
		if it.Variant != "" {
			name = fmt.Sprintf("%s - %s", it.Name, it.Variant)
		}
		fmt.Fprintf(w, "  %-24s %s (%sm) %s\n", it.CartItemID, name, cart.FormatQuantity(it.Quantity), it.Formatted)
	}
	fmt.Fprintf(w, "Total: %s\n", view.FormattedTotal)
	return nil
}
