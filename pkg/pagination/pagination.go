// Package pagination windows list responses with limit/offset or page
// query parameters.
package pagination

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params selects one window of a list.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads ?limit= and either ?offset= or a 1-based ?page=.
// Offset wins when both are given. Bad values fall back to the defaults and
// pages past math.MaxInt/limit are clamped to the last addressable one.
func FromContext(c echo.Context) Params {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	switch {
	case err != nil || limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	p := Params{Limit: limit}
	if off, err := strconv.Atoi(c.QueryParam("offset")); err == nil && off > 0 {
		p.Offset = off
	} else if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 1 {
		if maxPage := math.MaxInt / limit; page > maxPage {
			page = maxPage
		}
		p.Offset = (page - 1) * limit
	}
	return p
}

// Response is the envelope of every list endpoint.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	Page    int         `json:"page"`
	Pages   int         `json:"pages"`
	HasMore bool        `json:"hasMore"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	r := &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset < total-limit,
	}
	if limit > 0 {
		r.Page = offset/limit + 1
		r.Pages = (total + limit - 1) / limit
	}
	return r
}

// Slice returns the window of items selected by p. The result is never nil
// so it encodes as [] rather than null.
func Slice[T any](items []T, p Params) []T {
	if p.Offset < 0 || p.Limit <= 0 || p.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Limit < end-p.Offset {
		end = p.Offset + p.Limit
	}
	out := make([]T, end-p.Offset)
	copy(out, items[p.Offset:end])
	return out
}
