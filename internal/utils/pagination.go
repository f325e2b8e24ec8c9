package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// Page describes one page of a listing for templates.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// maxOffset keeps OFFSET inside a 32-bit column on every dialect.
const maxOffset = math.MaxInt32

// NewPaginationParams clamps page to at least 1 and computes the offset.
// Pages whose offset would not fit maxOffset are clamped to the last page
// that does, which is still past the end of any listing.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize {
		limit = constants.MinPageSize
	}
	if lastPage := maxOffset/limit + 1; page > lastPage {
		page = lastPage
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetPaginationParams reads ?page= from the request. The page size is fixed
// per listing, so it is not taken from the query string.
func GetPaginationParams(c *gin.Context, limit int) PaginationParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = constants.MinPageSize
	}
	return NewPaginationParams(page, limit)
}

// NewPage builds page metadata. A page past the end is still a valid, empty page.
func NewPage(params PaginationParams, total int64) Page {
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	if totalPages == 0 {
		totalPages = 1
	}
	return Page{
		Number:     params.Page,
		Size:       params.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page) PreviousNumber() int {
	return p.Number - 1
}

func (p Page) NextNumber() int {
	return p.Number + 1
}

// IsPaginated reports whether the listing spans more than one page.
func (p Page) IsPaginated() bool {
	return p.TotalPages > 1
}
