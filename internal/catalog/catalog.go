// Package catalog loads the storefront's product catalog from CUE files.
//
// Each file in the catalog directory declares `package catalog` and adds
// products under the top-level `product` struct, keyed by product id:
//
//	package catalog
//
//	product: "batik-cotton": {
//		name: {en: "Batik Cotton", id: "Katun Batik"}
//		price: 85000
//		stock: 40
//		variants: [{id: "indigo", value: {en: "Indigo", id: "Nila"}, stock: 12}]
//	}
//
// Files are unified with an embedded schema (schema.cue) before decoding,
// so type and range errors carry CUE source positions.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/kain/internal/shop"
)

//go:embed schema.cue
var schemaCUE string

// Translator translates catalog strings. Implemented by translate.Client.
// It returns "" when no translation is available.
type Translator interface {
	Translate(ctx context.Context, text string, source, target shop.Locale) string
}

// Catalog is an immutable set of products.
type Catalog struct {
	products []shop.Product
	byID     map[string]int
}

// Option configures Load.
type Option func(*loader)

// WithTranslator fills missing English strings from Indonesian.
func WithTranslator(t Translator) Option {
	return func(l *loader) {
		l.translator = t
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(lg *slog.Logger) Option {
	return func(l *loader) {
		l.logger = lg
	}
}

type loader struct {
	translator Translator
	logger     *slog.Logger
}

// Load reads every *.cue file in dir, validates it against the product
// schema, and returns the products sorted by id.
//
// Products without an English name get one translated from Indonesian
// when a Translator is configured. If translation is unavailable the
// Indonesian text is copied so English display never comes out blank.
func Load(ctx context.Context, dir string, opts ...Option) (*Catalog, error) {
	l := &loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "not a directory: " + dir}
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("scan %s: %v", dir, err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: "no CUE files found in " + dir}
	}

	cctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	data := cctx.BuildInstance(inst)
	if err := data.Err(); err != nil {
		return nil, schemaError(err)
	}
	schema := cctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile product schema: %w", err)
	}

	value := schema.Unify(data)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, schemaError(err)
	}

	products, err := l.decodeProducts(ctx, value.LookupPath(cue.ParsePath("product")))
	if err != nil {
		return nil, err
	}
	l.logger.Debug("catalog loaded", "dir", dir, "files", len(files), "products", len(products))
	return New(products), nil
}

// New builds a catalog from already decoded products.
func New(products []shop.Product) *Catalog {
	sorted := append([]shop.Product(nil), products...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	c := &Catalog{products: sorted, byID: make(map[string]int, len(sorted))}
	for i, p := range sorted {
		c.byID[p.ID] = i
	}
	return c
}

// Product returns the product with the given id.
func (c *Catalog) Product(id string) (shop.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return shop.Product{}, false
	}
	return c.products[i], true
}

// Products returns all products sorted by id.
func (c *Catalog) Products() []shop.Product {
	return append([]shop.Product(nil), c.products...)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// cueProduct mirrors #Product for decoding.
type cueProduct struct {
	ID          string            `json:"id"`
	Name        map[string]string `json:"name"`
	Description map[string]string `json:"description"`
	Price       float64           `json:"price"`
	Category    string            `json:"category"`
	Stock       float64           `json:"stock"`
	Images      []string          `json:"images"`
	Variants    []cueVariant      `json:"variants"`
}

// cueVariant mirrors #Variant for decoding.
type cueVariant struct {
	ID    string            `json:"id"`
	Value map[string]string `json:"value"`
	Image string            `json:"image"`
	Stock float64           `json:"stock"`
}

func localized(m map[string]string) shop.LocalizedText {
	if m == nil {
		return nil
	}
	t := make(shop.LocalizedText, len(m))
	for k, v := range m {
		t[shop.Locale(k)] = v
	}
	return t.Normalize()
}

func (l *loader) decodeProducts(ctx context.Context, v cue.Value) ([]shop.Product, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, schemaError(err)
	}

	var products []shop.Product
	for iter.Next() {
		pv := iter.Value()
		var raw cueProduct
		if err := pv.Decode(&raw); err != nil {
			return nil, schemaError(err)
		}
		p, err := l.convert(ctx, raw, pv)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (l *loader) convert(ctx context.Context, raw cueProduct, pv cue.Value) (shop.Product, error) {
	p := shop.Product{
		ID:          raw.ID,
		Name:        localized(raw.Name),
		Description: localized(raw.Description),
		Price:       raw.Price,
		Category:    strings.TrimSpace(raw.Category),
		Stock:       raw.Stock,
		Images:      raw.Images,
	}
	if len(p.Name) == 0 {
		return shop.Product{}, &LoadError{
			Code:    ErrCodeInvalidProduct,
			Product: raw.ID,
			Message: "name needs an en or id entry",
			Pos:     pv.LookupPath(cue.ParsePath("name")).Pos(),
		}
	}

	seen := make(map[string]bool, len(raw.Variants))
	for i, v := range raw.Variants {
		if seen[v.ID] {
			return shop.Product{}, &LoadError{
				Code:    ErrCodeInvalidProduct,
				Product: raw.ID,
				Message: "duplicate variant id " + v.ID,
				Pos:     pv.LookupPath(cue.MakePath(cue.Str("variants"), cue.Index(i))).Pos(),
			}
		}
		seen[v.ID] = true
		p.Variants = append(p.Variants, shop.VariantRef{
			ID:    v.ID,
			Value: localized(v.Value),
			Image: v.Image,
			Stock: v.Stock,
		})
	}

	p.Name = l.fillEnglish(ctx, raw.ID, p.Name)
	if len(p.Description) > 0 {
		p.Description = l.fillEnglish(ctx, raw.ID, p.Description)
	}
	for i := range p.Variants {
		if len(p.Variants[i].Value) > 0 {
			p.Variants[i].Value = l.fillEnglish(ctx, raw.ID, p.Variants[i].Value)
		}
	}
	return p, nil
}

// fillEnglish sets t["en"] from t["id"] when English is missing.
func (l *loader) fillEnglish(ctx context.Context, productID string, t shop.LocalizedText) shop.LocalizedText {
	if t[shop.LocaleEnglish] != "" {
		return t
	}
	src := t[shop.LocaleIndonesian]
	if src == "" {
		return t
	}
	out := t.Clone()
	if l.translator != nil {
		if en := l.translator.Translate(ctx, src, shop.LocaleIndonesian, shop.LocaleEnglish); en != "" {
			out[shop.LocaleEnglish] = en
			return out
		}
	}
	l.logger.Warn("no English text, using Indonesian", "product", productID, "text", src)
	out[shop.LocaleEnglish] = src
	return out
}
