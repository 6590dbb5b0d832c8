package model

import (
	"math"
	"time"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit within int32.
	MaxPage      = math.MaxInt32 / MaxLimit
)

type Sort struct {
	By    string    `json:"sortBy"`
	Order SortOrder `json:"sortOrder"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages returns ceil(total/limit).
func Pages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// DateRange bounds are inclusive.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

func (r DateRange) Empty() bool {
	return r.From == nil && r.To == nil
}

type ReservationFilters struct {
	Search    string    `json:"q,omitempty"`
	Status    Status    `json:"status,omitempty"`
	StartDate DateRange `json:"startDate"`
	EndDate   DateRange `json:"endDate"`
}

type ReservationQuery struct {
	Filters    ReservationFilters
	Sort       Sort
	Pagination Pagination
}

type ReviewFilters struct {
	Search string       `json:"q,omitempty"`
	Status ReviewStatus `json:"status,omitempty"`
	Rating int          `json:"rating,omitempty"`
}

type ReviewQuery struct {
	Filters    ReviewFilters
	Sort       Sort
	Pagination Pagination
}

type Page[T any, F any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	Filters F     `json:"filters"`
	Sort    Sort  `json:"sort"`
}

type ReservationPage = Page[Reservation, ReservationFilters]

type ReviewPage = Page[Review, ReviewFilters]

func NewPage[T any, F any](items []T, total int64, p Pagination, filters F, sort Sort) Page[T, F] {
	if items == nil {
		items = []T{}
	}
	return Page[T, F]{
		Items:   items,
		Total:   total,
		Page:    p.Page,
		Pages:   Pages(total, p.Limit),
		Filters: filters,
		Sort:    sort,
	}
}
