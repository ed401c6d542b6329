package dto

import (
	"net/url"
	"strconv"
)

// Page is the paginated list envelope: count plus links to the neighbouring
// pages, nil at either end.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds the envelope. self is the absolute URL of the current
// request; its query string is kept and only "page" is rewritten.
func NewPage[T any](results []T, total int64, page, pageSize int, self *url.URL) Page[T] {
	if results == nil {
		results = []T{}
	}
	p := Page[T]{Count: total, Results: results}
	if int64(page*pageSize) < total {
		next := pageLink(self, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := pageLink(self, page-1)
		p.Previous = &prev
	}
	return p
}

func pageLink(self *url.URL, page int) string {
	u := *self
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
