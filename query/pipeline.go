// Package query turns the loaded product set plus the user's current
// search/filter/sort intent into a deterministic, paginated result.
package query

import (
	"sort"
	"strings"

	"github.com/abdulhalimzhr/tokotok/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Apply computes the ordered result for a product set and query state.
// Predicates are AND-composed in fixed order: text match, price range
// (inclusive), rating threshold. The category filter is deliberately not
// evaluated here: a non-empty category means the set was already scoped
// server-side, and re-filtering locally would double-filter. The input
// slice is never mutated; sorting happens on the returned copy and is
// stable, so key-tied products keep their relative order.
func Apply(products []models.Product, state models.SearchState) []models.Product {
	out := make([]models.Product, 0, len(products))
	needle := strings.ToLower(state.Query)

	for i := range products {
		p := products[i]
		if needle != "" && !matchesText(&p, needle) {
			continue
		}
		if p.Price < state.Filters.PriceRange.Min || p.Price > state.Filters.PriceRange.Max {
			continue
		}
		if state.Filters.Rating > 0 && p.Rating.Rate < state.Filters.Rating {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, state.SortBy, state.SortOrder)
	return out
}

func matchesText(p *models.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}

func sortProducts(products []models.Product, key models.SortKey, order models.SortOrder) {
	var cmp func(a, b *models.Product) int

	switch key {
	case models.SortByPrice:
		cmp = func(a, b *models.Product) int {
			return compareFloat(a.Price, b.Price)
		}
	case models.SortByRating:
		cmp = func(a, b *models.Product) int {
			return compareFloat(a.Rating.Rate, b.Rating.Rate)
		}
	default:
		coll := collate.New(language.English)
		cmp = func(a, b *models.Product) int {
			return coll.CompareString(a.Title, b.Title)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		c := cmp(&products[i], &products[j])
		if order == models.OrderDesc {
			return c > 0
		}
		return c < 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
