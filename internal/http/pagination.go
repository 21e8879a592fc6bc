package http

import (
	"errors"
	"strconv"
)

// ErrInvalidPage is returned for a page number outside the paginated range.
var ErrInvalidPage = errors.New("invalid page")

// Page describes one page of a paginated list for the templates.
type Page struct {
	Number       int
	NumPages     int
	PreviousPage int
	NextPage     int
	Count        int64
	HasPrevious  bool
	HasNext      bool
}

// parsePageNumber reads the 1-based "?page=" value. Empty means the first page.
func parsePageNumber(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrInvalidPage
	}
	return n, nil
}

// newPage validates number against count items split into pages of size.
// An empty list still has a first page.
func newPage(number, size int, count int64) (Page, error) {
	if size <= 0 {
		size = 1
	}

	numPages := int((count + int64(size) - 1) / int64(size))
	if numPages == 0 {
		numPages = 1
	}
	if number < 1 || number > numPages {
		return Page{}, ErrInvalidPage
	}

	return Page{
		Number:       number,
		NumPages:     numPages,
		PreviousPage: number - 1,
		NextPage:     number + 1,
		Count:        count,
		HasPrevious:  number > 1,
		HasNext:      number < numPages,
	}, nil
}
