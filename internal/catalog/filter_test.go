package catalog

import (
	"testing"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFilter_DefaultQueryPutsNewArrivalsFirst(t *testing.T) {
	got := Default().Filter(DefaultQuery())
	assert.Equal(t, []string{"2", "4", "6", "8", "1", "3", "5", "7"}, ids(got))
}

func TestFilter(t *testing.T) {
	c := Default()

	tests := []struct {
		name   string
		mutate func(q *Query)
		want   []string
	}{
		{
			name:   "category",
			mutate: func(q *Query) { q.Category = d.CategoryOil },
			want:   []string{"4", "8"},
		},
		{
			name:   "search matches name case-insensitively",
			mutate: func(q *Query) { q.Search = "  SOAP " },
			want:   []string{"2", "5"},
		},
		{
			name:   "search matches description",
			mutate: func(q *Query) { q.Search = "argan" },
			want:   []string{"8"},
		},
		{
			name: "price range is inclusive",
			mutate: func(q *Query) {
				q.MinPrice = decimal.RequireFromString("58.99")
				q.MaxPrice = decimal.RequireFromString("75.99")
			},
			want: []string{"6", "3", "7"},
		},
		{
			name:   "price ascending keeps ties stable",
			mutate: func(q *Query) { q.Sort = SortPriceAsc },
			want:   []string{"2", "5", "7", "3", "6", "1", "4", "8"},
		},
		{
			name:   "price descending",
			mutate: func(q *Query) { q.Sort = SortPriceDesc },
			want:   []string{"8", "4", "1", "6", "3", "7", "2", "5"},
		},
		{
			name:   "popularity",
			mutate: func(q *Query) { q.Sort = SortPopularity },
			want:   []string{"1", "2", "6", "3", "7", "4", "5", "8"},
		},
		{
			name:   "rating",
			mutate: func(q *Query) { q.Sort = SortRating },
			want:   []string{"3", "6", "1", "8", "4", "7", "2", "5"},
		},
		{
			name: "combined",
			mutate: func(q *Query) {
				q.Category = d.CategoryButter
				q.Search = "whipped"
				q.Sort = SortPriceDesc
			},
			want: []string{"6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := DefaultQuery()
			tt.mutate(&q)
			assert.Equal(t, tt.want, ids(c.Filter(q)))
		})
	}
}
