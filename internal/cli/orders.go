package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/kain/internal/checkout"
	"github.com/roach88/kain/internal/money"
)

// OrderSummary is one row of the orders listing.
type OrderSummary struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Customer  string    `json:"customer"`
	Items     int       `json:"items"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductOrders is the orders listing narrowed to one product.
type ProductOrders struct {
	Product string         `json:"product"`
	Count   int            `json:"count"`
	Orders  []OrderSummary `json:"orders"`
}

// OrdersOptions holds flags for the orders command.
type OrdersOptions struct {
	Product string
}

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrdersOptions{}
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List placed orders",
		Long: `List orders placed from this database, oldest first.

Examples:
  kain orders
  kain orders --product batik-cotton
  kain orders --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrders(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Product, "product", "", "Only list orders that include this product id")
	return cmd
}

func runOrders(opts *RootOptions, ordersOpts *OrdersOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := newFormatter(opts, cmd)

	s, err := openSession(ctx, opts)
	if err != nil {
		return commandError(f, ExitCommandError, ErrCodeStore, "opening database", err)
	}
	defer s.Close()

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return commandError(f, ExitCommandError, ErrCodeStore, "listing orders", err)
	}

	if ordersOpts.Product != "" {
		return outputProductOrders(ctx, f, s, ordersOpts.Product, orders)
	}

	summaries := summarize(orders)
	if f.Format == "json" {
		return f.Success(summaries)
	}

	w := f.Writer
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return nil
	}
	printSummaries(f, s, summaries)
	return nil
}

func outputProductOrders(ctx context.Context, f *OutputFormatter, s *session, productID string, orders []checkout.Order) error {
	count, err := s.store.CountOrdersForProduct(ctx, productID)
	if err != nil {
		return commandError(f, ExitCommandError, ErrCodeStore, "counting orders", err)
	}

	matching := make([]checkout.Order, 0, count)
	for _, o := range orders {
		if containsProduct(o, productID) {
			matching = append(matching, o)
		}
	}
	result := ProductOrders{Product: productID, Count: count, Orders: summarize(matching)}
	if f.Format == "json" {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "%d order(s) include %s\n", result.Count, productID)
	printSummaries(f, s, result.Orders)
	return nil
}

func printSummaries(f *OutputFormatter, s *session, summaries []OrderSummary) {
	w := f.Writer
	for _, o := range summaries {
		fmt.Fprintf(w, "#%d  %s  %s  %s  %d item(s)  %s\n",
			o.Seq, o.CreatedAt.Format(time.DateTime), o.ID, o.Customer, o.Items, money.Format(o.Total, s.locale()))
	}
}

func containsProduct(o checkout.Order, productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func summarize(orders []checkout.Order) []OrderSummary {
	out := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderSummary{
			ID:        o.ID,
			Seq:       o.Seq,
			Customer:  o.Customer.Name,
			Items:     len(o.Items),
			Total:     o.Total,
			CreatedAt: o.CreatedAt,
		})
	}
	return out
}
