// Package pagination splits ordered result sets into numbered pages.
package pagination

import (
	"strconv"
	"strings"
)

type Paginator struct {
	Count   int64
	PerPage int
}

// Page describes one window of a result set. Numbers are 1-based.
type Page struct {
	Number   int
	NumPages int
	Count    int64
	PerPage  int
}

func New(count int64, perPage int) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

// NumPages is never below one, so an empty result still has a first page.
func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return int((p.Count + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Get resolves a raw ?page= value leniently: anything unparsable or below one
// is the first page and anything past the end is the last page.
func (p Paginator) Get(raw string) Page {
	last := p.NumPages()
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil, number < 1:
		number = 1
	case number > last:
		number = last
	}
	return Page{Number: number, NumPages: last, Count: p.Count, PerPage: p.PerPage}
}

// ParseNumber is the page number requested before it is clamped to a result
// set. Cache keys use it so they can be computed without a count query.
func ParseNumber(raw string) int {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || number < 1 {
		return 1
	}
	return number
}

func (pg Page) Offset() int {
	return (pg.Number - 1) * pg.PerPage
}

func (pg Page) Limit() int {
	return pg.PerPage
}

func (pg Page) HasNext() bool {
	return pg.Number < pg.NumPages
}

func (pg Page) HasPrevious() bool {
	return pg.Number > 1
}

func (pg Page) HasOtherPages() bool {
	return pg.HasNext() || pg.HasPrevious()
}

func (pg Page) NextPageNumber() int {
	if !pg.HasNext() {
		return pg.Number
	}
	return pg.Number + 1
}

func (pg Page) PreviousPageNumber() int {
	if !pg.HasPrevious() {
		return pg.Number
	}
	return pg.Number - 1
}

func (pg Page) PageRange() []int {
	pages := make([]int, pg.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// StartIndex is the 1-based position of the first item on the page.
func (pg Page) StartIndex() int64 {
	if pg.Count == 0 {
		return 0
	}
	return int64(pg.Offset()) + 1
}

func (pg Page) EndIndex() int64 {
	end := int64(pg.Offset() + pg.PerPage)
	if end > pg.Count {
		end = pg.Count
	}
	return end
}
