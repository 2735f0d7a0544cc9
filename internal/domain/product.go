package domain

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryAll    Category = "all"
	CategoryButter Category = "butter"
	CategoryOil    Category = "oil"
	CategorySoap   Category = "soap"
	CategoryCream  Category = "cream"
	CategoryOther  Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryButter, CategoryOil, CategorySoap, CategoryCream, CategoryOther:
		return true
	}
	return false
}

// Product is immutable reference data loaded once at startup.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Category    Category        `json:"category"`
	Features    []string        `json:"features"`
	InStock     bool            `json:"in_stock"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	IsNew       bool            `json:"is_new"`
	IsFeatured  bool            `json:"is_featured"`
	Weight      string          `json:"weight,omitempty"`
	Dimensions  string          `json:"dimensions,omitempty"`
}
