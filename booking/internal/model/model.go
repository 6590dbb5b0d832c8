package model

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusPaid, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPaypal PaymentMethod = "paypal"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCard || p == PaymentPaypal
}

type Reservation struct {
	ID            string        `json:"id" db:"id"`
	Code          string        `json:"code" db:"code"`
	Status        Status        `json:"status" db:"status"`
	Email         string        `json:"email" db:"email"`
	PhoneNumber   string        `json:"phoneNumber" db:"phone_number"`
	FirstName     string        `json:"firstName" db:"first_name"`
	Surname       string        `json:"surname" db:"surname"`
	Street        string        `json:"street" db:"street"`
	Postcode      string        `json:"postcode" db:"postcode"`
	City          string        `json:"city" db:"city"`
	Country       string        `json:"country" db:"country"`
	StartDate     time.Time     `json:"startDate" db:"start_date"`
	EndDate       time.Time     `json:"endDate" db:"end_date"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`
	AmountTotal   float64       `json:"amountTotal" db:"amount_total"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
}

// CreateReservationRequest keeps dates as strings so that an unparseable
// value is reported as a validation error rather than a bind error.
type CreateReservationRequest struct {
	Email         string  `json:"email" validate:"required,notblank,simple_email"`
	PhoneNumber   string  `json:"phoneNumber" validate:"required,notblank"`
	FirstName     string  `json:"firstName" validate:"required,notblank"`
	Surname       string  `json:"surname" validate:"required,notblank"`
	Street        string  `json:"street" validate:"required,notblank"`
	Postcode      string  `json:"postcode" validate:"required,notblank"`
	City          string  `json:"city" validate:"required,notblank"`
	Country       string  `json:"country" validate:"required,notblank"`
	StartDate     string  `json:"startDate" validate:"required,notblank,calendar_date"`
	EndDate       string  `json:"endDate" validate:"required,notblank,calendar_date"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,notblank,oneof=card paypal"`
	AmountTotal   float64 `json:"amountTotal" validate:"required"`
	Status        string  `json:"status" validate:"omitempty,oneof=pending paid cancelled"`
}

// UpdateReservationRequest has no code field: a code in the body is dropped
// at bind time.
type UpdateReservationRequest struct {
	Email         *string  `json:"email" validate:"omitempty,simple_email"`
	PhoneNumber   *string  `json:"phoneNumber"`
	FirstName     *string  `json:"firstName"`
	Surname       *string  `json:"surname"`
	Street        *string  `json:"street"`
	Postcode      *string  `json:"postcode"`
	City          *string  `json:"city"`
	Country       *string  `json:"country"`
	StartDate     *string  `json:"startDate" validate:"omitempty,calendar_date"`
	EndDate       *string  `json:"endDate" validate:"omitempty,calendar_date"`
	PaymentMethod *string  `json:"paymentMethod" validate:"omitempty,oneof=card paypal"`
	AmountTotal   *float64 `json:"amountTotal"`
	Status        *string  `json:"status" validate:"omitempty,oneof=pending paid cancelled"`
}

// ReservationPatch is the storage-level partial update. Nil fields are left untouched.
type ReservationPatch struct {
	Status        *Status
	Email         *string
	PhoneNumber   *string
	FirstName     *string
	Surname       *string
	Street        *string
	Postcode      *string
	City          *string
	Country       *string
	StartDate     *time.Time
	EndDate       *time.Time
	PaymentMethod *PaymentMethod
	AmountTotal   *float64
}

func (p ReservationPatch) Empty() bool {
	return p == ReservationPatch{}
}

type DeletedReservation struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (r Reservation) Summary() DeletedReservation {
	return DeletedReservation{
		ID:        r.ID,
		Code:      r.Code,
		Email:     r.Email,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

type DeleteReservationResponse struct {
	OK      bool               `json:"ok"`
	Message string             `json:"message"`
	Deleted DeletedReservation `json:"deleted"`
}

type StatusCounts struct {
	Pending   int64 `json:"pending"`
	Paid      int64 `json:"paid"`
	Cancelled int64 `json:"cancelled"`
}

type RecentReservation struct {
	ID          string    `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	FirstName   string    `json:"firstName" db:"first_name"`
	Surname     string    `json:"surname" db:"surname"`
	Email       string    `json:"email" db:"email"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
	Status      Status    `json:"status" db:"status"`
	AmountTotal float64   `json:"amountTotal" db:"amount_total"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type ReservationStats struct {
	Total    int64               `json:"total"`
	ByStatus StatusCounts        `json:"byStatus"`
	Revenue  float64             `json:"revenue"`
	Recent   []RecentReservation `json:"recent"`
}

const RecentReservationsLimit = 5
