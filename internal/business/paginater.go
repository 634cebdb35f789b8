package business

import (
	"math"

	"github.com/Agurato/filmdelegate/internal/model"
)

// Paginater implements the GetPagination method
type Paginater[T any] struct {
	itemsPerPage int64
}

// NewPaginater instantiates a new Paginater
func NewPaginater[T any](itemsPerPage int64) *Paginater[T] {
	if itemsPerPage < 1 {
		itemsPerPage = 1
	}
	return &Paginater[T]{
		itemsPerPage: itemsPerPage,
	}
}

// GetPagination returns the items of the current page and the page links around it:
// first page, dots, previous, current, next, dots, last page
func (p *Paginater[T]) GetPagination(currentPage int64, items []T) ([]T, []model.Pagination) {
	var pages []model.Pagination
	pageMax := int64(math.Ceil(float64(len(items)) / float64(p.itemsPerPage)))

	pages = append(pages, model.Pagination{
		Number: 1,
		Active: currentPage == 1,
	})
	if currentPage > 3 {
		pages = append(pages, model.Pagination{
			Dots: true,
		})
	}
	for i := currentPage - 1; i <= currentPage+1; i++ {
		if i <= 1 || i >= pageMax {
			continue
		}
		pages = append(pages, model.Pagination{
			Number: i,
			Active: i == currentPage,
		})
	}
	if currentPage < pageMax-2 {
		pages = append(pages, model.Pagination{
			Dots: true,
		})
	}
	if pageMax > 1 {
		pages = append(pages, model.Pagination{
			Number: pageMax,
			Active: currentPage == pageMax,
		})
	}

	itemsIndexStart := (currentPage - 1) * p.itemsPerPage
	itemsIndexEnd := itemsIndexStart + p.itemsPerPage

	pagedItems := []T{}
	for i := itemsIndexStart; i >= 0 && i < itemsIndexEnd && i < int64(len(items)); i++ {
		pagedItems = append(pagedItems, items[i])
	}

	return pagedItems, pages
}
