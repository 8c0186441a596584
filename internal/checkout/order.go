package checkout

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/kain/internal/cart"
	"github.com/roach88/kain/internal/shop"
)

// Order is a placed order as recorded locally.
type Order struct {
	ID        string          `json:"id"`
	Seq       int64           `json:"seq,omitempty"`
	Customer  shop.Customer   `json:"customer"`
	Locale    shop.Locale     `json:"locale"`
	Items     []cart.LineItem `json:"items"`
	Total     float64         `json:"total"`
	Message   string          `json:"message"`
	Link      string          `json:"link"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderRecorder persists placed orders. Implemented by store.Store.
type OrderRecorder interface {
	RecordOrder(ctx context.Context, order Order) error
}

// RefGenerator generates order references.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type RefGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 order references.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined references for testing.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu   sync.Mutex
	refs []string
	idx  int
}

// NewFixedGenerator creates a generator that returns refs in order.
func NewFixedGenerator(refs ...string) *FixedGenerator {
	return &FixedGenerator{refs: refs}
}

// Generate returns the next predetermined reference.
//
// Panics if all references have been consumed.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.refs) {
		panic("FixedGenerator: all refs exhausted")
	}
	ref := g.refs[g.idx]
	g.idx++
	return ref
}

// WhatsAppLink builds the chat deep link that opens a conversation with
// the shop's number and the message pre-filled. Spaces are encoded as %20.
func WhatsAppLink(number, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + InternationalNumber(number) + "?text=" + text
}
