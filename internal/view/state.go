// Package view holds the client-side view state of a catalog session and the
// pure transitions applied to it. Nothing here performs I/O: every function
// takes a State and returns the next one.
package view

import (
	"github.com/talkincode/stockbook/internal/domain"
)

const DefaultItemsPerPage = 10

// State is the whole client-held state of one catalog session.
// EditProductID is 0 while EditMode is false.
type State struct {
	CurrentPage   int
	ItemsPerPage  int
	EditMode      bool
	EditProductID int64
	Modal         Modal
	Search        Search
}

// New returns the initial state: page 1, create mode, modal closed, free-text search.
func New(itemsPerPage int) State {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return State{
		CurrentPage:  1,
		ItemsPerPage: itemsPerPage,
		Modal:        Modal{Title: TitleCreate},
		Search:       Search{Mode: domain.SearchByName},
	}
}

// TotalPages is ceil(count / ItemsPerPage).
func (s State) TotalPages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + s.ItemsPerPage - 1) / s.ItemsPerPage
}

// PageBounds returns the [start, end) slice of a collection of the given size
// shown on CurrentPage. A page past the end yields an empty range.
func (s State) PageBounds(count int) (start, end int) {
	start = (s.CurrentPage - 1) * s.ItemsPerPage
	end = start + s.ItemsPerPage
	if start > count {
		start = count
	}
	if start < 0 {
		start = 0
	}
	if end > count {
		end = count
	}
	if end < start {
		end = start
	}
	return start, end
}

// Visible slices the collection for CurrentPage, preserving backend order.
func (s State) Visible(products []domain.Product) []domain.Product {
	start, end := s.PageBounds(len(products))
	return products[start:end]
}

// SelectPage moves to page k. It is not clamped against the collection size.
func (s State) SelectPage(k int) State {
	if k < 1 {
		k = 1
	}
	s.CurrentPage = k
	return s
}
