package storage

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPageNumber keeps the window end of any normalized page within int.
	MaxPageNumber = math.MaxInt/MaxPageSize - 1
)

// Page selects a window of a result set. Number is zero based.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into the accepted range.
func (p Page) Normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}

	return p
}

// Offset is the index of the first item of a normalized page.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// Paged is one page of results plus the total number of matches.
type Paged[T any] struct {
	Items []T
	Page  int
	Size  int
	Total int
}

// Pager collects the items of one page while counting every match of a scan.
type Pager[T any] struct {
	page  Page
	items []T
	total int
}

func NewPager[T any](page Page) *Pager[T] {
	page = page.Normalize()
	return &Pager[T]{
		page:  page,
		items: make([]T, 0, page.Size),
	}
}

// Add counts item and keeps it when it falls into the page window.
func (p *Pager[T]) Add(item T) {
	offset := p.page.Offset()
	if p.total >= offset && p.total < offset+p.page.Size {
		p.items = append(p.items, item)
	}
	p.total++
}

func (p *Pager[T]) Result() Paged[T] {
	return Paged[T]{
		Items: p.items,
		Page:  p.page.Number,
		Size:  p.page.Size,
		Total: p.total,
	}
}
