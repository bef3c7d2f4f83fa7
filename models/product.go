// Package models defines data structures for the storefront catalog.
package models

import "fmt"

// Rating holds the aggregate review score for a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product represents a single catalog item as served by the remote API.
// Records are immutable once fetched except for whole-record replacement
// on a by-id re-fetch.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// Validate ensures the remote payload carried the required fields.
func (p *Product) Validate() error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}
	if p.ID <= 0 {
		return fmt.Errorf("product missing id")
	}
	if p.Title == "" {
		return fmt.Errorf("product %d missing title", p.ID)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %d has negative price", p.ID)
	}
	return nil
}

// SortKey selects the pipeline's sort dimension.
type SortKey string

// SortOrder selects the sort direction.
type SortOrder string

const (
	SortByPrice  SortKey = "price"
	SortByRating SortKey = "rating"
	SortByName   SortKey = "name"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Valid reports whether the key is one of the supported sort dimensions.
func (k SortKey) Valid() bool {
	return k == SortByPrice || k == SortByRating || k == SortByName
}

// Valid reports whether the order is a supported direction.
func (o SortOrder) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

// PriceRange is an inclusive price band.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterOptions holds the predicate parameters of a query. An empty
// Category means no constraint; a zero Rating means no threshold.
type FilterOptions struct {
	Category   string     `json:"category"`
	PriceRange PriceRange `json:"priceRange"`
	Rating     float64    `json:"rating"`
}

// SearchState is the complete description of the user's current
// search/filter/sort intent. It is replaced atomically on every update.
type SearchState struct {
	Query     string        `json:"query"`
	Filters   FilterOptions `json:"filters"`
	SortBy    SortKey       `json:"sortBy"`
	SortOrder SortOrder     `json:"sortOrder"`
}

// DefaultSearchState returns the reset state: no query, no category,
// price band 0-1000, no rating threshold, name ascending.
func DefaultSearchState() SearchState {
	return SearchState{
		Filters: FilterOptions{
			PriceRange: PriceRange{Min: 0, Max: 1000},
		},
		SortBy:    SortByName,
		SortOrder: OrderAsc,
	}
}
