package catalog

import (
	"cmp"
	"slices"
	"strings"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/shopspring/decimal"
)

type Sort string

const (
	SortNewest     Sort = "newest"
	SortPriceAsc   Sort = "price-asc"
	SortPriceDesc  Sort = "price-desc"
	SortPopularity Sort = "popularity"
	SortRating     Sort = "rating"
)

var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(200)
)

// Query mirrors the product page filters.
type Query struct {
	Category d.Category
	Search   string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Sort     Sort
}

func DefaultQuery() Query {
	return Query{
		Category: d.CategoryAll,
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		Sort:     SortNewest,
	}
}

func (c *Catalog) Filter(q Query) []d.Product {
	products := c.ByCategory(q.Category)

	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		products = slices.DeleteFunc(products, func(p d.Product) bool {
			return !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Description), search)
		})
	}

	products = slices.DeleteFunc(products, func(p d.Product) bool {
		return p.Price.LessThan(q.MinPrice) || p.Price.GreaterThan(q.MaxPrice)
	})

	switch q.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b d.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b d.Product) int { return b.Price.Cmp(a.Price) })
	case SortPopularity:
		slices.SortStableFunc(products, func(a, b d.Product) int { return cmp.Compare(b.Reviews, a.Reviews) })
	case SortRating:
		slices.SortStableFunc(products, func(a, b d.Product) int { return cmp.Compare(b.Rating, a.Rating) })
	default:
		// new arrivals first, original order otherwise
		slices.SortStableFunc(products, func(a, b d.Product) int {
			switch {
			case a.IsNew == b.IsNew:
				return 0
			case a.IsNew:
				return -1
			default:
				return 1
			}
		})
	}
	return products
}
