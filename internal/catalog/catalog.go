package catalog

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/abgdnv/butcherpos/internal/docstore"
	poserrors "github.com/abgdnv/butcherpos/internal/errors"
	"github.com/go-playground/validator/v10"
)

// Catalog is the ordered product set. It does no locking of its own;
// the ledger engine serialises every access.
type Catalog struct {
	store    docstore.Store
	seed     []Product
	validate *validator.Validate
	logger   *slog.Logger

	products []*Product
	index    map[string]int
}

// New creates an empty catalog backed by store. seed is written when the store has no catalog yet;
// a nil seed means DefaultSeed.
func New(store docstore.Store, seed []Product, logger *slog.Logger) *Catalog {
	if seed == nil {
		seed = DefaultSeed()
	}
	return &Catalog{
		store:    store,
		seed:     seed,
		validate: newValidator(),
		logger:   logger,
		index:    make(map[string]int),
	}
}

// Load replaces the in-memory products with the persisted catalog, seeding and saving it if absent.
// Returns ErrStoreCorrupt when the persisted catalog cannot be decoded or holds an invalid product;
// the products held before the call are then left as they were.
func (c *Catalog) Load(ctx context.Context) error {
	records, err := docstore.LoadJSON[[]record](ctx, c.store, docstore.Catalog, nil)
	if err != nil {
		return err
	}

	var next productSet
	if records == nil {
		for _, p := range c.seed {
			next.put(p)
		}
		c.products, c.index = next.products, next.index
		c.logger.Info("catalog seeded", "products", len(c.products))
		return c.Save(ctx)
	}

	for i, r := range records {
		p, err := c.fromRecord(r)
		if err != nil {
			return fmt.Errorf("%w: catalog entry %d: %w", poserrors.ErrStoreCorrupt, i, err)
		}
		next.put(p)
	}
	c.products, c.index = next.products, next.index
	c.logger.Debug("catalog loaded", "products", len(c.products))
	return nil
}

func (c *Catalog) fromRecord(r record) (Product, error) {
	if err := c.validate.Struct(r); err != nil {
		return Product{}, err
	}
	p := Product{
		Name:          r.Name,
		PricePerKg:    *r.PricePerKg,
		InitialWeight: *r.InitialWeight,
		CurrentWeight: *r.InitialWeight,
	}
	if r.CurrentWeight != nil {
		p.CurrentWeight = *r.CurrentWeight
	}
	if p.CurrentWeight.GreaterThan(p.InitialWeight) {
		return Product{}, fmt.Errorf("product %q: current weight %s exceeds initial weight %s",
			p.Name, p.CurrentWeight, p.InitialWeight)
	}
	return p, nil
}

// productSet is a catalog under construction.
type productSet struct {
	products []*Product
	index    map[string]int
}

// put inserts p, replacing an existing product of the same name in place.
func (s *productSet) put(p Product) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[p.Name]; ok {
		*s.products[i] = p
		return
	}
	s.index[p.Name] = len(s.products)
	s.products = append(s.products, &p)
}

// Save overwrites the persisted catalog with the full ordered product set.
func (c *Catalog) Save(ctx context.Context) error {
	out := make([]Product, 0, len(c.products))
	for p := range c.List() {
		out = append(out, p)
	}
	return docstore.SaveJSON(ctx, c.store, docstore.Catalog, out)
}

// List yields copies of the products in insertion order.
func (c *Catalog) List() iter.Seq[Product] {
	return func(yield func(Product) bool) {
		for _, p := range c.products {
			if !yield(*p) {
				return
			}
		}
	}
}

// Get returns the live product named name.
func (c *Catalog) Get(name string) (*Product, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", poserrors.ErrProductNotFound, name)
	}
	return c.products[i], nil
}

// At returns the live product at the 1-based position index.
func (c *Catalog) At(index int) (*Product, error) {
	if index < 1 || index > len(c.products) {
		return nil, fmt.Errorf("%w: no product at position %d", poserrors.ErrProductNotFound, index)
	}
	return c.products[index-1], nil
}

func (c *Catalog) Len() int { return len(c.products) }
