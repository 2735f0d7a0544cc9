package catalog

import (
	"errors"
	"fmt"
	"slices"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
)

var ErrInvalidProduct = errors.New("invalid product")

// Catalog is the read-only product list. It is built once and never mutated.
type Catalog struct {
	products []d.Product
	byID     map[string]int
}

func New(products []d.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]d.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidProduct, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, clone(p))
	}
	return c, nil
}

// Default returns the catalog built from the seed products.
func Default() *Catalog {
	c, err := New(SeedProducts())
	if err != nil {
		panic(err)
	}
	return c
}

func validate(p d.Product) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidProduct)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: product %q has a negative price", ErrInvalidProduct, p.ID)
	case len(p.Images) == 0:
		return fmt.Errorf("%w: product %q has no images", ErrInvalidProduct, p.ID)
	case !p.Category.Valid():
		return fmt.Errorf("%w: product %q has unknown category %q", ErrInvalidProduct, p.ID, p.Category)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: product %q rating %v out of range", ErrInvalidProduct, p.ID, p.Rating)
	case p.Reviews < 0:
		return fmt.Errorf("%w: product %q has a negative review count", ErrInvalidProduct, p.ID)
	}
	return nil
}

func (c *Catalog) ByID(id string) (d.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return d.Product{}, false
	}
	return clone(c.products[i]), true
}

func (c *Catalog) All() []d.Product {
	return c.where(func(d.Product) bool { return true })
}

// ByCategory returns every product for CategoryAll.
func (c *Catalog) ByCategory(category d.Category) []d.Product {
	if category == d.CategoryAll || category == "" {
		return c.All()
	}
	return c.where(func(p d.Product) bool { return p.Category == category })
}

func (c *Catalog) Featured() []d.Product {
	return c.where(func(p d.Product) bool { return p.IsFeatured })
}

func (c *Catalog) NewArrivals() []d.Product {
	return c.where(func(p d.Product) bool { return p.IsNew })
}

// Related returns up to limit other products of the same category.
func (c *Catalog) Related(id string, limit int) []d.Product {
	p, ok := c.ByID(id)
	if !ok {
		return nil
	}
	related := c.where(func(o d.Product) bool { return o.Category == p.Category && o.ID != p.ID })
	if limit >= 0 && len(related) > limit {
		related = related[:limit]
	}
	return related
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) where(keep func(d.Product) bool) []d.Product {
	out := make([]d.Product, 0)
	for _, p := range c.products {
		if keep(p) {
			out = append(out, clone(p))
		}
	}
	return out
}

// clone copies the slices so callers cannot reach the catalog's backing arrays.
func clone(p d.Product) d.Product {
	p.Images = slices.Clone(p.Images)
	p.Features = slices.Clone(p.Features)
	return p
}
