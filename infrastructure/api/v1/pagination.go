// Package v1 provides the v1 API routes.
package v1

import (
	"net/http"
	"strconv"

	"github.com/scoutline/scoutline/domain/query"
	"github.com/scoutline/scoutline/infrastructure/api/v1/dto"
)

// PaginationParams holds pagination parameters parsed from query strings.
type PaginationParams struct {
	page     int
	pageSize int
}

// DefaultPageSize is the default number of items per page.
const DefaultPageSize = 20

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 100

// ParsePagination parses pagination parameters from an HTTP request.
// Default: page=1, page_size=20. Max page_size: 100.
func ParsePagination(r *http.Request) PaginationParams {
	params := PaginationParams{page: 1, pageSize: DefaultPageSize}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page >= 1 {
			params.page = page
		}
	}
	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size >= 1 {
			params.pageSize = size
			if params.pageSize > MaxPageSize {
				params.pageSize = MaxPageSize
			}
		}
	}
	return params
}

// Page returns the page number (1-indexed).
func (p PaginationParams) Page() int { return p.page }

// PageSize returns the page size.
func (p PaginationParams) PageSize() int { return p.pageSize }

// Options returns the query options applying this page window.
func (p PaginationParams) Options() []query.Option {
	return []query.Option{
		query.WithLimit(p.pageSize),
		query.WithOffset((p.page - 1) * p.pageSize),
	}
}

// Meta builds the pagination metadata for a list response.
func (p PaginationParams) Meta(total int64) dto.Meta {
	return dto.Meta{Page: p.page, PageSize: p.pageSize, Total: total}
}
