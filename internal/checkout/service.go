package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/kain/internal/cart"
	"github.com/roach88/kain/internal/shop"
)

// Service places orders from a shared cart engine.
type Service struct {
	engine     *cart.Engine
	recorder   OrderRecorder
	refs       RefGenerator
	shopNumber string
	now        func() time.Time
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRecorder records every placed order. Without one, orders are only
// handed to the chat link.
func WithRecorder(r OrderRecorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithRefGenerator overrides the UUIDv7 order reference generator.
func WithRefGenerator(g RefGenerator) ServiceOption {
	return func(s *Service) {
		s.refs = g
	}
}

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithServiceLogger sets the logger. Default: slog.Default().
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a checkout service for engine. shopNumber is the
// WhatsApp number orders are sent to.
func NewService(engine *cart.Engine, shopNumber string, opts ...ServiceOption) *Service {
	s := &Service{
		engine:     engine,
		refs:       UUIDv7Generator{},
		shopNumber: shopNumber,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preview renders the order message and link without placing the order.
func (s *Service) Preview(c shop.Customer, locale shop.Locale) (message, link string) {
	message = s.engine.FormatOrderMessage(Normalize(c), locale)
	return message, WhatsAppLink(s.shopNumber, message)
}

// PlaceOrder validates the customer, records the order, and clears the cart.
//
// The cart is left untouched when validation or recording fails.
func (s *Service) PlaceOrder(ctx context.Context, c shop.Customer, locale shop.Locale) (Order, error) {
	c = Normalize(c)
	if err := Validate(c); err != nil {
		return Order{}, fmt.Errorf("place order: %w", err)
	}

	items := s.engine.Items()
	if len(items) == 0 {
		return Order{}, fmt.Errorf("place order: %w", ErrEmptyCart)
	}

	message := cart.FormatOrderMessage(items, c, locale)
	order := Order{
		ID:        s.refs.Generate(),
		Customer:  c,
		Locale:    locale,
		Items:     items,
		Total:     cart.Total(items),
		Message:   message,
		Link:      WhatsAppLink(s.shopNumber, message),
		CreatedAt: s.now().UTC(),
	}

	if s.recorder != nil {
		if err := s.recorder.RecordOrder(ctx, order); err != nil {
			return Order{}, fmt.Errorf("place order: record: %w", err)
		}
	}

	s.engine.Clear(ctx)
	s.logger.Info("order placed", "order_id", order.ID, "items", len(order.Items), "total", order.Total)
	return order, nil
}
