// Package query holds the admin list filters. Every function here is a pure
// projection: it reads the input slice, never modifies it, and returns a
// fresh subsequence in the original order.
package query

import (
	"strings"
	"time"

	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/enquiry"
	"github.com/catalogue/backend/internal/domain/shared"
)

// DayLayout is the accepted date format for range bounds
const DayLayout = "2006-01-02"

// ProductFilter selects products. Category matches the category id or its
// name ignoring case. Empty fields match everything.
type ProductFilter struct {
	Category string
	Status   catalog.ProductStatus
}

// Matches reports whether v passes the filter
func (f ProductFilter) Matches(v catalog.ProductView) bool {
	if f.Category != "" &&
		v.CategoryID.String() != f.Category &&
		!strings.EqualFold(v.CategoryName, f.Category) {
		return false
	}
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	return true
}

// FilterProducts returns the views matching f
func FilterProducts(items []catalog.ProductView, f ProductFilter) []catalog.ProductView {
	return filter(items, f.Matches)
}

// EnquiryFilter selects enquiries. The date range is inclusive at day
// granularity and only applies when both From and To are set. City and
// Name are exact matches against the requester.
type EnquiryFilter struct {
	From   *time.Time
	To     *time.Time
	City   string
	Name   string
	Status enquiry.Status
}

// HasDateRange reports whether the date range is active
func (f EnquiryFilter) HasDateRange() bool {
	return f.From != nil && f.To != nil
}

// Matches reports whether v passes the filter
func (f EnquiryFilter) Matches(v enquiry.View) bool {
	if f.HasDateRange() {
		start := startOfDay(*f.From)
		end := startOfDay(*f.To).AddDate(0, 0, 1)
		created := v.CreatedAt.In(start.Location())
		if created.Before(start) || !created.Before(end) {
			return false
		}
	}
	if f.City != "" && v.Requester.City != f.City {
		return false
	}
	if f.Name != "" && v.Requester.Name != f.Name {
		return false
	}
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	return true
}

// FilterEnquiries returns the views matching f
func FilterEnquiries(items []enquiry.View, f EnquiryFilter) []enquiry.View {
	return filter(items, f.Matches)
}

// ParseDay parses a YYYY-MM-DD bound. An empty string yields nil.
func ParseDay(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DayLayout, raw)
	if err != nil {
		return nil, shared.InvalidArgumentf("Invalid date %q, expected YYYY-MM-DD", raw)
	}
	return &t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
