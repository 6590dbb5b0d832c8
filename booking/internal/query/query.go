// Package query turns listing query strings into storage-neutral descriptors.
// Invalid or unknown values fall back to defaults instead of failing.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ruelucas/booking-service/booking/internal/model"
)

var (
	reservationSortFields = map[string]bool{
		"createdAt":   true,
		"startDate":   true,
		"endDate":     true,
		"amountTotal": true,
		"status":      true,
	}
	reviewSortFields = map[string]bool{
		"date":      true,
		"rating":    true,
		"createdAt": true,
	}
)

const (
	DefaultReservationSort = "createdAt"
	DefaultReviewSort      = "date"
)

func Reservations(v url.Values) model.ReservationQuery {
	f := model.ReservationFilters{
		Search:    strings.TrimSpace(v.Get("q")),
		StartDate: dateRange(v.Get("startDateFrom"), v.Get("startDateTo")),
		EndDate:   dateRange(v.Get("endDateFrom"), v.Get("endDateTo")),
	}
	if s := model.Status(v.Get("status")); s.Valid() {
		f.Status = s
	}
	return model.ReservationQuery{
		Filters:    f,
		Sort:       sortSpec(v, reservationSortFields, DefaultReservationSort),
		Pagination: Paginate(v),
	}
}

func Reviews(v url.Values) model.ReviewQuery {
	f := model.ReviewFilters{
		Search: strings.TrimSpace(v.Get("q")),
	}
	if s := model.ReviewStatus(v.Get("status")); s.Valid() {
		f.Status = s
	}
	if r, err := strconv.Atoi(v.Get("rating")); err == nil && r >= 1 && r <= 5 {
		f.Rating = r
	}
	return model.ReviewQuery{
		Filters:    f,
		Sort:       sortSpec(v, reviewSortFields, DefaultReviewSort),
		Pagination: Paginate(v),
	}
}

func Paginate(v url.Values) model.Pagination {
	page, err := strconv.Atoi(v.Get("page"))
	switch {
	case errors.Is(err, strconv.ErrRange) && page > 0, err == nil && page > model.MaxPage:
		page = model.MaxPage
	case err != nil || page < 1:
		page = model.DefaultPage
	}
	limit, err := strconv.Atoi(v.Get("limit"))
	switch {
	case err != nil || limit < 1:
		limit = model.DefaultLimit
	case limit > model.MaxLimit:
		limit = model.MaxLimit
	}
	return model.Pagination{Page: page, Limit: limit}
}

func sortSpec(v url.Values, allowed map[string]bool, def string) model.Sort {
	s := model.Sort{By: def, Order: model.Desc}
	if by := v.Get("sortBy"); allowed[by] {
		s.By = by
	}
	switch model.SortOrder(strings.ToLower(v.Get("sortOrder"))) {
	case model.Asc:
		s.Order = model.Asc
	case model.Desc:
		s.Order = model.Desc
	}
	return s
}

func dateRange(from, to string) model.DateRange {
	var r model.DateRange
	if t, ok := model.ParseDate(from); ok {
		r.From = &t
	}
	if t, ok := model.ParseDate(to); ok {
		// a bare date as upper bound covers that whole day
		if model.IsDateOnly(to) {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		r.To = &t
	}
	return r
}
