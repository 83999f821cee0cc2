package utils

import (
	"net/http"
	"strconv"
)

type QueryOptions struct {
	Page      int
	Limit     int
	Status    string
	SortBy    string
	SortOrder string
	Search    string
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}

	sortOrder := q.Get("sortOrder")
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	return QueryOptions{
		Page:      page,
		Limit:     limit,
		Status:    q.Get("status"),
		SortBy:    q.Get("sortBy"),
		SortOrder: sortOrder,
		Search:    q.Get("search"),
	}
}

// Pagination is the envelope block returned alongside paged lists.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
}

func Paginate(opts QueryOptions, total int64) Pagination {
	pages := total / int64(opts.Limit)
	if total%int64(opts.Limit) != 0 {
		pages++
	}
	return Pagination{Current: opts.Page, Pages: pages, Total: total}
}
