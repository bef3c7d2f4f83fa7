package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/abdulhalimzhr/tokotok/models"
)

// Fetcher is the remote side of the store. *Client satisfies it; tests
// substitute their own.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]models.Product, error)
	FetchByCategory(ctx context.Context, category string) ([]models.Product, error)
	FetchByID(ctx context.Context, id int) (*models.Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

// Store owns the loaded product set and category list. List fetches
// replace the set wholesale; by-id fetches upsert. A failed fetch leaves
// the previously loaded data untouched and records an error message for
// the UI. Each list and category fetch carries a monotonically
// increasing token; a completion whose token has been superseded is
// discarded so the later *request* wins, not the later response.
type Store struct {
	fetcher Fetcher
	cache   *CategoryCache
	metrics *Metrics

	mu         sync.Mutex
	products   []models.Product
	categories []string
	scope      string // server-scoped category, "" = full catalog
	lastErr    string
	inFlight   int
	listSeq    uint64
	catSeq     uint64
}

// NewStore builds a store. The category list is seeded from the
// persisted cache so the filter UI has data before any fetch completes.
func NewStore(fetcher Fetcher, cache *CategoryCache, metrics *Metrics) *Store {
	s := &Store{
		fetcher: fetcher,
		cache:   cache,
		metrics: metrics,
	}
	if cached, ok := cache.Load(); ok {
		s.categories = cached
	}
	return s
}

// LoadAll replaces the entire product set with the full catalog. On
// failure the previous set is untouched and the error flag is set.
func (s *Store) LoadAll(ctx context.Context) error {
	return s.loadList(ctx, "")
}

// LoadByCategory replaces the product set with a category-scoped fetch.
// This is the one filter dimension evaluated server-side.
func (s *Store) LoadByCategory(ctx context.Context, category string) error {
	if category == "" {
		return s.loadList(ctx, "")
	}
	return s.loadList(ctx, category)
}

func (s *Store) loadList(ctx context.Context, scope string) error {
	s.mu.Lock()
	s.listSeq++
	token := s.listSeq
	s.inFlight++
	s.mu.Unlock()

	var (
		products []models.Product
		err      error
	)
	if scope == "" {
		products, err = s.fetcher.FetchAll(ctx)
	} else {
		products, err = s.fetcher.FetchByCategory(ctx, scope)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if token != s.listSeq {
		s.metrics.IncStale()
		slog.Debug("discarding stale product fetch",
			slog.String("scope", scope),
			slog.Uint64("token", token),
		)
		return nil
	}

	if err != nil {
		s.lastErr = fetchErrorMessage(scope)
		slog.Error("product fetch failed",
			slog.String("scope", scope),
			slog.Any("error", err),
		)
		return err
	}

	s.products = products
	s.scope = scope
	s.lastErr = ""
	return nil
}

// LoadByID fetches a single product and upserts it into the held set:
// replaced in place when present by id, appended otherwise. On failure
// the set is unmodified and nil is returned.
func (s *Store) LoadByID(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.fetcher.FetchByID(ctx, id)
	if err != nil {
		slog.Error("product fetch by id failed",
			slog.Int("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := false
	for i := range s.products {
		if s.products[i].ID == product.ID {
			s.products[i] = *product
			replaced = true
			break
		}
	}
	if !replaced {
		s.products = append(s.products, *product)
	}

	out := *product
	return &out, nil
}

// LoadCategories refreshes the category list from the remote API. On
// success the list is replaced and persisted. On failure it degrades to
// distinct categories derived from the loaded products in first-seen
// order; categories are non-critical metadata, so no error surfaces.
func (s *Store) LoadCategories(ctx context.Context) []string {
	s.mu.Lock()
	s.catSeq++
	token := s.catSeq
	s.mu.Unlock()

	categories, err := s.fetcher.FetchCategories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.catSeq {
		s.metrics.IncStale()
		return copyStrings(s.categories)
	}

	if err != nil {
		slog.Error("category fetch failed", slog.Any("error", err))
		s.metrics.IncCategoryFallback()
		if derived := deriveCategories(s.products); len(derived) > 0 {
			s.categories = derived
		}
		return copyStrings(s.categories)
	}

	s.categories = categories
	if err := s.cache.Save(categories); err != nil {
		slog.Debug("category cache save failed", slog.Any("error", err))
	}
	return copyStrings(s.categories)
}

// Retry re-issues the list fetch for the current scope. This is the
// user-facing retry path after a failed load.
func (s *Store) Retry(ctx context.Context) error {
	s.mu.Lock()
	scope := s.scope
	s.mu.Unlock()
	return s.loadList(ctx, scope)
}

// Products returns a copy of the currently loaded product set.
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Categories returns a copy of the current category list.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStrings(s.categories)
}

// Scope returns the category the set is currently server-scoped to, or
// the empty string for the full catalog.
func (s *Store) Scope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Err returns the recorded error message from the last failed list
// fetch, or the empty string.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Loading reports whether any list fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Get returns the loaded product with the given id, if present.
func (s *Store) Get(id int) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			return s.products[i], true
		}
	}
	return models.Product{}, false
}

// HasProducts reports whether any products are loaded.
func (s *Store) HasProducts() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products) > 0
}

func fetchErrorMessage(scope string) string {
	if scope == "" {
		return "Failed to fetch products. Please try again."
	}
	return "Failed to fetch products for category \"" + scope + "\". Please try again."
}

func deriveCategories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for i := range products {
		category := products[i].Category
		if category == "" {
			continue
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		out = append(out, category)
	}
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
