package aggregate

import "github.com/jask/expensetracker/internal/domain"

// Paginate returns items [(page-1)*size, page*size) of group. Pages start at 1.
// Out of range or non-positive arguments give an empty slice.
func Paginate(group []domain.Transaction, page, size int) []domain.Transaction {
	if page < 1 || size < 1 {
		return []domain.Transaction{}
	}
	if len(group) == 0 || page-1 > (len(group)-1)/size {
		return []domain.Transaction{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(group) {
		end = len(group)
	}
	return group[start:end]
}

// Page is one page of a group plus enough context to draw the pager.
type Page struct {
	Items  []domain.Transaction
	Number int
	Size   int
	Total  int
}

func PageOf(group []domain.Transaction, page, size int) Page {
	if page < 1 {
		page = 1
	}
	return Page{
		Items:  Paginate(group, page, size),
		Number: page,
		Size:   size,
		Total:  len(group),
	}
}

func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext is exact: true only when rows exist past this page.
func (p Page) HasNext() bool {
	return p.Size > 0 && p.Number < p.PageCount()
}

// PageCount is at least 1 so an empty list still shows "page 1 of 1".
func (p Page) PageCount() int {
	if p.Size < 1 || p.Total == 0 {
		return 1
	}
	return 1 + (p.Total-1)/p.Size
}
