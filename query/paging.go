package query

import "github.com/abdulhalimzhr/tokotok/models"

// Ellipsis marks a gap in a page-number display sequence.
const Ellipsis = -1

// Pager derives the visible page slice from an ordered result. Pages
// are 1-indexed. The current page resets to 1 on search/filter identity
// changes (the manager calls ResetPage); sort and items-per-page changes
// only clamp, they never reset.
type Pager struct {
	page    int
	perPage int
}

// NewPager creates a pager on page 1.
func NewPager(itemsPerPage int) *Pager {
	if itemsPerPage <= 0 {
		itemsPerPage = 10
	}
	return &Pager{page: 1, perPage: itemsPerPage}
}

// Page returns the current page number.
func (p *Pager) Page() int {
	return p.page
}

// ItemsPerPage returns the current page size.
func (p *Pager) ItemsPerPage() int {
	return p.perPage
}

// SetPage moves to page n, clamped into [1, TotalPages(totalItems)].
func (p *Pager) SetPage(n, totalItems int) {
	total := TotalPages(totalItems, p.perPage)
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	p.page = n
}

// SetItemsPerPage changes the page size and clamps the current page to
// the new page count. It does not reset to page 1.
func (p *Pager) SetItemsPerPage(n, totalItems int) {
	if n <= 0 {
		return
	}
	p.perPage = n
	if total := TotalPages(totalItems, p.perPage); p.page > total {
		p.page = total
	}
}

// ResetPage returns to the first page.
func (p *Pager) ResetPage() {
	p.page = 1
}

// Slice returns the current page of result, clamped to its bounds. An
// out-of-range page yields an empty slice, never an error.
func (p *Pager) Slice(result []models.Product) []models.Product {
	start := (p.page - 1) * p.perPage
	if start >= len(result) || start < 0 {
		return []models.Product{}
	}
	end := start + p.perPage
	if end > len(result) {
		end = len(result)
	}
	return result[start:end]
}

// TotalPages returns the page count for totalItems, never below 1: an
// empty result still renders as page 1 of 1.
func TotalPages(totalItems, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		return 1
	}
	total := (totalItems + itemsPerPage - 1) / itemsPerPage
	if total < 1 {
		return 1
	}
	return total
}

// PageNumbers returns the page-selector display sequence for the given
// current page and page count: the first page, a gap marker if needed,
// up to two pages either side of current, another gap marker if needed,
// and the last page. Overlapping ranges near the edges are deduplicated.
func PageNumbers(current, totalPages int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	pages := []int{1}
	if totalPages == 1 {
		return pages
	}

	start := current - 2
	if start < 2 {
		start = 2
	}
	end := current + 2
	if end > totalPages-1 {
		end = totalPages - 1
	}

	if start > 2 {
		pages = append(pages, Ellipsis)
	}
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	if end < totalPages-1 {
		pages = append(pages, Ellipsis)
	}

	return append(pages, totalPages)
}
