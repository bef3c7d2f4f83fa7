package query

import (
	"testing"

	"github.com/abdulhalimzhr/tokotok/models"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: 1, Title: "Laptop Pro", Description: "Fast workstation", Category: "electronics", Price: 10, Rating: models.Rating{Rate: 3, Count: 120}},
		{ID: 2, Title: "Desktop", Description: "Tower for the office", Category: "electronics", Price: 20, Rating: models.Rating{Rate: 5, Count: 40}},
		{ID: 3, Title: "Laptop Air", Description: "Light and quiet", Category: "electronics", Price: 5, Rating: models.Rating{Rate: 4, Count: 300}},
	}
}

func stateWith(mutate func(*models.SearchState)) models.SearchState {
	state := models.DefaultSearchState()
	if mutate != nil {
		mutate(&state)
	}
	return state
}

func TestApplyPriceSortAscending(t *testing.T) {
	state := stateWith(func(s *models.SearchState) {
		s.SortBy = models.SortByPrice
		s.SortOrder = models.OrderAsc
	})

	result := Apply(sampleProducts(), state)

	prices := []float64{5, 10, 20}
	if len(result) != len(prices) {
		t.Fatalf("result length = %d, want %d", len(result), len(prices))
	}
	for i, want := range prices {
		if result[i].Price != want {
			t.Fatalf("result[%d].Price = %v, want %v", i, result[i].Price, want)
		}
	}
}

func TestApplyTextMatch(t *testing.T) {
	state := stateWith(func(s *models.SearchState) {
		s.Query = "lap"
	})

	result := Apply(sampleProducts(), state)

	if len(result) != 2 {
		t.Fatalf("matches = %d, want 2", len(result))
	}
	// Name sort: "Laptop Air" before "Laptop Pro".
	if result[0].Title != "Laptop Air" || result[1].Title != "Laptop Pro" {
		t.Fatalf("order = [%q, %q], want [Laptop Air, Laptop Pro]", result[0].Title, result[1].Title)
	}
}

func TestApplyTextMatchFields(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "title substring", query: "desk", want: 1},
		{name: "description substring", query: "quiet", want: 1},
		{name: "category substring", query: "electron", want: 3},
		{name: "case insensitive", query: "LAPTOP", want: 2},
		{name: "no match", query: "banana", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := stateWith(func(s *models.SearchState) {
				s.Query = tt.query
			})
			if got := len(Apply(sampleProducts(), state)); got != tt.want {
				t.Fatalf("matches for %q = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestApplyIsSubsequence(t *testing.T) {
	products := sampleProducts()
	state := stateWith(func(s *models.SearchState) {
		s.Filters.Rating = 3.5
	})

	result := Apply(products, state)

	for _, item := range result {
		found := false
		for _, p := range products {
			if p.ID == item.ID {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("result contains product %d not in the source set", item.ID)
		}
	}
	if len(result) >= len(products) {
		t.Fatalf("rating threshold should have excluded at least one product")
	}
}

func TestApplyFilterCompositionIsIntersection(t *testing.T) {
	products := sampleProducts()

	priceOnly := Apply(products, stateWith(func(s *models.SearchState) {
		s.Filters.PriceRange = models.PriceRange{Min: 6, Max: 25}
	}))
	ratingOnly := Apply(products, stateWith(func(s *models.SearchState) {
		s.Filters.Rating = 4
	}))
	both := Apply(products, stateWith(func(s *models.SearchState) {
		s.Filters.PriceRange = models.PriceRange{Min: 6, Max: 25}
		s.Filters.Rating = 4
	}))

	inResult := func(result []models.Product, id int) bool {
		for _, p := range result {
			if p.ID == id {
				return true
			}
		}
		return false
	}

	for _, p := range products {
		want := inResult(priceOnly, p.ID) && inResult(ratingOnly, p.ID)
		if got := inResult(both, p.ID); got != want {
			t.Fatalf("product %d: composed = %v, intersection = %v", p.ID, got, want)
		}
	}
}

func TestApplyPriceRangeInclusive(t *testing.T) {
	state := stateWith(func(s *models.SearchState) {
		s.Filters.PriceRange = models.PriceRange{Min: 5, Max: 20}
	})

	result := Apply(sampleProducts(), state)

	if len(result) != 3 {
		t.Fatalf("inclusive bounds should keep all 3 products, got %d", len(result))
	}
}

func TestApplySortIdempotent(t *testing.T) {
	state := stateWith(func(s *models.SearchState) {
		s.SortBy = models.SortByRating
		s.SortOrder = models.OrderDesc
	})

	once := Apply(sampleProducts(), state)
	twice := Apply(once, state)

	if len(once) != len(twice) {
		t.Fatalf("lengths differ: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("position %d: %d vs %d, sort should be idempotent", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestApplySortStable(t *testing.T) {
	products := []models.Product{
		{ID: 1, Title: "First", Price: 10, Rating: models.Rating{Rate: 4}},
		{ID: 2, Title: "Second", Price: 10, Rating: models.Rating{Rate: 4}},
		{ID: 3, Title: "Third", Price: 10, Rating: models.Rating{Rate: 4}},
	}
	state := stateWith(func(s *models.SearchState) {
		s.SortBy = models.SortByPrice
	})

	for i := 0; i < 5; i++ {
		result := Apply(products, state)
		for j, want := range []int{1, 2, 3} {
			if result[j].ID != want {
				t.Fatalf("pass %d: price-tied products reordered: got %d at %d", i, result[j].ID, j)
			}
		}
		products = result
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	state := stateWith(func(s *models.SearchState) {
		s.SortBy = models.SortByPrice
	})

	Apply(products, state)

	for i, want := range []int{1, 2, 3} {
		if products[i].ID != want {
			t.Fatalf("input order changed at %d: got %d", i, products[i].ID)
		}
	}
}

func TestApplyRatingThresholdZeroMeansNoConstraint(t *testing.T) {
	result := Apply(sampleProducts(), models.DefaultSearchState())
	if len(result) != 3 {
		t.Fatalf("zero rating threshold should keep everything, got %d", len(result))
	}
}

func TestApplyCategoryFieldIsNotFilteredLocally(t *testing.T) {
	// The category filter rescopes the set server-side; by the time the
	// pipeline runs, re-filtering would double-filter. A set holding a
	// stray category therefore passes through untouched.
	products := sampleProducts()
	products = append(products, models.Product{
		ID: 9, Title: "Gold Ring", Category: "jewelery", Price: 50, Rating: models.Rating{Rate: 4.5},
	})
	state := stateWith(func(s *models.SearchState) {
		s.Filters.Category = "electronics"
		s.Filters.PriceRange.Max = 100
	})

	result := Apply(products, state)

	if len(result) != 4 {
		t.Fatalf("category must not be evaluated locally: got %d products, want 4", len(result))
	}
}

func TestApplyDescendingReversesComparison(t *testing.T) {
	state := stateWith(func(s *models.SearchState) {
		s.SortBy = models.SortByPrice
		s.SortOrder = models.OrderDesc
	})

	result := Apply(sampleProducts(), state)

	prices := []float64{20, 10, 5}
	for i, want := range prices {
		if result[i].Price != want {
			t.Fatalf("result[%d].Price = %v, want %v", i, result[i].Price, want)
		}
	}
}
