// Package listing implements the search/filter/tab pattern shared by every
// list page: a backing slice, a search box, zero or more select filters and a
// set of tabs that partition the filtered result by status.
package listing

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/pkg/pagination"
)

// All is the select value that disables a filter.
const All = "all"

// Predicate reports whether a record should be visible.
type Predicate[T any] func(T) bool

// Contains reports whether query occurs in any of fields, ignoring case.
// An empty query matches everything.
func Contains(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Equals reports whether a select filter accepts value. An empty selection or
// "all" accepts everything.
func Equals(selected, value string) bool {
	if selected == "" || strings.EqualFold(selected, All) {
		return true
	}
	return strings.EqualFold(selected, value)
}

// OneOf reports whether value is one of set.
func OneOf(value string, set ...string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// Apply returns the items satisfying every predicate, in their original
// order. The result is never nil.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// Bucket is one tab of a list page.
type Bucket[T any] struct {
	Name  string
	Match Predicate[T]
}

// Tab is a bucket name with the number of filtered items it holds.
type Tab struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Partition counts the items falling in each bucket, in bucket order.
// Buckets are expected to be mutually exclusive.
func Partition[T any](items []T, buckets []Bucket[T]) []Tab {
	tabs := make([]Tab, len(buckets))
	for i, b := range buckets {
		tabs[i].Name = b.Name
		for _, it := range items {
			if b.Match(it) {
				tabs[i].Count++
			}
		}
	}
	return tabs
}

// Select returns the items in the named bucket. An empty or unknown name
// returns items unchanged.
func Select[T any](items []T, buckets []Bucket[T], name string) []T {
	for _, b := range buckets {
		if b.Name == name {
			return Apply(items, b.Match)
		}
	}
	return items
}

// Query is the search box and active tab of a list request.
type Query struct {
	Search string
	Tab    string
}

// QueryFromContext reads ?search= (or ?q=) and ?tab=.
func QueryFromContext(c echo.Context) Query {
	search := c.QueryParam("search")
	if search == "" {
		search = c.QueryParam("q")
	}
	return Query{Search: search, Tab: c.QueryParam("tab")}
}

// Response is the envelope returned by list endpoints. Filtered is the size
// of the filtered list; Tabs partition it; Total counts the selected tab.
type Response struct {
	pagination.Response
	Filtered int               `json:"filtered"`
	Tabs     []Tab             `json:"tabs,omitempty"`
	Filters  map[string]string `json:"filters,omitempty"`
}

// Build assembles the list response for already filtered items: tab counts
// over the whole filtered list, then the selected tab, then pagination.
func Build[T any](filtered []T, buckets []Bucket[T], tab string, pg pagination.Params, filters map[string]string) *Response {
	visible := Select(filtered, buckets, tab)
	return &Response{
		Response: *pagination.NewResponse(pagination.Slice(visible, pg), len(visible), pg.Limit, pg.Offset),
		Filtered: len(filtered),
		Tabs:     Partition(filtered, buckets),
		Filters:  compact(filters),
	}
}

func compact(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
