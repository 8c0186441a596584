package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kain/internal/checkout"
	"github.com/roach88/kain/internal/shop"
)

// CheckoutOptions holds flags for the checkout command.
type CheckoutOptions struct {
	*RootOptions
	Customer shop.Customer
	Payment  string
	Delivery string
	DryRun   bool
}

// CheckoutResult is the JSON shape of a placed (or previewed) order.
type CheckoutResult struct {
	OrderID string  `json:"order_id,omitempty"`
	Seq     int64   `json:"seq,omitempty"`
	Total   float64 `json:"total"`
	Message string  `json:"message"`
	Link    string  `json:"link"`
	DryRun  bool    `json:"dry_run,omitempty"`
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place the order and print the WhatsApp link",
		Long: `Validate the customer details, record the order, print the WhatsApp
order message and link, and clear the cart.

Exit codes:
  0 - Order placed
  1 - Customer details invalid or cart empty
  2 - Command error (database, config, etc.)

Examples:
  kain checkout --name "Siti" --whatsapp 0812345678 --address "Jl. Malioboro 12"
  kain checkout --name "Siti" --whatsapp 0812345678 --delivery pickup --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckout(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Customer.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&opts.Customer.WhatsApp, "whatsapp", "", "customer WhatsApp number")
	cmd.Flags().StringVar(&opts.Customer.Address, "address", "", "delivery address")
	cmd.Flags().StringVar(&opts.Customer.Notes, "notes", "", "order notes")
	cmd.Flags().StringVar(&opts.Payment, "payment", string(shop.PaymentBankTransfer), "payment method")
	cmd.Flags().StringVar(&opts.Delivery, "delivery", string(shop.DeliveryCourier), "delivery method")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the message without placing the order")

	return cmd
}

func runCheckout(opts *CheckoutOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := newFormatter(opts.RootOptions, cmd)

	s, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return commandError(f, ExitCommandError, ErrCodeStore, "opening cart", err)
	}
	defer s.Close()

	customer := opts.Customer
	customer.Payment = shop.PaymentMethod(opts.Payment)
	customer.Delivery = shop.DeliveryMethod(opts.Delivery)

	svc := checkout.NewService(s.cart, s.cfg.WhatsApp,
		checkout.WithRecorder(s.store),
		checkout.WithServiceLogger(s.logger),
	)

	if opts.DryRun {
		if s.cart.Len() == 0 {
			return commandError(f, ExitFailure, ErrCodeEmptyCart, checkout.ErrEmptyCart.Error(), nil)
		}
		message, link := svc.Preview(customer, s.locale())
		return outputCheckout(f, CheckoutResult{
			Total:   s.cart.Total(),
			Message: message,
			Link:    link,
			DryRun:  true,
		})
	}

	order, err := svc.PlaceOrder(ctx, customer, s.locale())
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return commandError(f, ExitFailure, ErrCodeEmptyCart, "nothing to check out", err)
	case checkout.IsValidationError(err):
		return commandError(f, ExitFailure, ErrCodeValidation, "invalid customer details", err)
	case err != nil:
		return commandError(f, ExitCommandError, ErrCodeCheckout, "placing order", err)
	}

	seq := order.Seq
	if stored, err := s.store.ReadOrder(ctx, order.ID); err == nil {
		seq = stored.Seq
	}
	f.VerboseLog("Recorded order %s (seq %d)", order.ID, seq)

	return outputCheckout(f, CheckoutResult{
		OrderID: order.ID,
		Seq:     seq,
		Total:   order.Total,
		Message: order.Message,
		Link:    order.Link,
	})
}

func outputCheckout(f *OutputFormatter, res CheckoutResult) error {
	if f.Format == "json" {
		return f.Success(res)
	}

	w := f.Writer
	if res.DryRun {
		fmt.Fprintln(w, "Order preview (not placed):")
	} else {
		fmt.Fprintf(w, "✓ Order %s placed\n", res.OrderID)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, res.Message)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Send it: %s\n", res.Link)
	return nil
}
