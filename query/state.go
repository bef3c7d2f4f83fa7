package query

import (
	"context"
	"fmt"

	"github.com/abdulhalimzhr/tokotok/models"
)

// Rescoper is the product source the manager filters over and rescopes
// through. *catalog.Store satisfies it.
type Rescoper interface {
	LoadAll(ctx context.Context) error
	LoadByCategory(ctx context.Context, category string) error
	Products() []models.Product
}

// FilterPatch is a partial filter update. Nil fields are left unchanged.
// A non-nil Category switches the update onto the server-fetch path.
type FilterPatch struct {
	Category   *string
	PriceRange *models.PriceRange
	Rating     *float64
}

// View is the render-ready projection of the engine's current output.
type View struct {
	Items      []models.Product `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	TotalPages int              `json:"totalPages"`
	Pages      []int            `json:"pages"`
}

// Manager owns the query state for one logical session. Every update
// replaces the state atomically; readers never observe a torn state.
// Local filter changes and category rescoping are two distinct
// operations: only a category change touches the remote API.
type Manager struct {
	source Rescoper
	state  models.SearchState
	pager  *Pager
}

// NewManager builds a manager over source with the default query state.
func NewManager(source Rescoper, itemsPerPage int) *Manager {
	return &Manager{
		source: source,
		state:  models.DefaultSearchState(),
		pager:  NewPager(itemsPerPage),
	}
}

// SetSearchText replaces the free-text query and resets to page 1. The
// category scope is untouched; search narrows the current set.
func (m *Manager) SetSearchText(text string) {
	next := m.state
	next.Query = text
	m.state = next
	m.pager.ResetPage()
}

// SetFilters merges patch into the filters atomically. When the patch
// carries a category, the update takes the server-fetch path: an empty
// category re-fetches the full catalog, a non-empty one fetches the
// category-scoped set. Price range and rating apply purely locally.
// Either way the page resets to 1.
func (m *Manager) SetFilters(ctx context.Context, patch FilterPatch) error {
	next := m.state
	if patch.Category != nil {
		next.Filters.Category = *patch.Category
	}
	if patch.PriceRange != nil {
		next.Filters.PriceRange = *patch.PriceRange
	}
	if patch.Rating != nil {
		next.Filters.Rating = *patch.Rating
	}
	m.state = next
	m.pager.ResetPage()

	if patch.Category != nil {
		return m.rescopeByCategory(ctx, *patch.Category)
	}
	return nil
}

// SetSort replaces the sort directive. No fetch, no page reset.
func (m *Manager) SetSort(key models.SortKey, order models.SortOrder) error {
	if !key.Valid() {
		return fmt.Errorf("invalid sort key %q", key)
	}
	if !order.Valid() {
		return fmt.Errorf("invalid sort order %q", order)
	}
	next := m.state
	next.SortBy = key
	next.SortOrder = order
	m.state = next
	return nil
}

// Clear resets the query state to its defaults and returns to page 1.
// It resets filters on the current data only; it does not re-fetch.
func (m *Manager) Clear() {
	m.state = models.DefaultSearchState()
	m.pager.ResetPage()
}

// rescopeByCategory switches the product set's server-side scope.
func (m *Manager) rescopeByCategory(ctx context.Context, category string) error {
	if category == "" {
		return m.source.LoadAll(ctx)
	}
	return m.source.LoadByCategory(ctx, category)
}

// State returns a copy of the current query state.
func (m *Manager) State() models.SearchState {
	return m.state
}

// IsFiltered reports whether any dimension deviates from the defaults.
func (m *Manager) IsFiltered() bool {
	defaults := models.DefaultSearchState()
	return m.state.Query != "" ||
		m.state.Filters.Category != "" ||
		m.state.Filters.Rating > 0 ||
		m.state.Filters.PriceRange.Min > defaults.Filters.PriceRange.Min ||
		m.state.Filters.PriceRange.Max < defaults.Filters.PriceRange.Max
}

// Results runs the pipeline over the source's current product set.
func (m *Manager) Results() []models.Product {
	return Apply(m.source.Products(), m.state)
}

// SetPage moves the pager, clamped against the current result size.
func (m *Manager) SetPage(n int) {
	m.pager.SetPage(n, len(m.Results()))
}

// SetItemsPerPage resizes pages, clamping but never resetting the page.
func (m *Manager) SetItemsPerPage(n int) {
	m.pager.SetItemsPerPage(n, len(m.Results()))
}

// Pager exposes the pagination state for page-control rendering.
func (m *Manager) Pager() *Pager {
	return m.pager
}

// View computes the full render projection: the ordered result's
// current page slice plus the totals a page-control needs.
func (m *Manager) View() View {
	results := m.Results()
	total := len(results)
	totalPages := TotalPages(total, m.pager.ItemsPerPage())

	// Clamp rather than reset: the result may have shrunk under us.
	if m.pager.Page() > totalPages {
		m.pager.SetPage(totalPages, total)
	}

	return View{
		Items:      m.pager.Slice(results),
		Total:      total,
		Page:       m.pager.Page(),
		PerPage:    m.pager.ItemsPerPage(),
		TotalPages: totalPages,
		Pages:      PageNumbers(m.pager.Page(), totalPages),
	}
}
