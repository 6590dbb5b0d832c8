package model

import "time"

type EventType string

const (
	ReservationCreated EventType = "reservation.created"
	ReservationUpdated EventType = "reservation.updated"
	ReservationDeleted EventType = "reservation.deleted"
)

type ReservationEvent struct {
	Type        EventType `json:"type"`
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Status      Status    `json:"status"`
	Email       string    `json:"email"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	AmountTotal float64   `json:"amountTotal"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func NewReservationEvent(t EventType, r Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:        t,
		ID:          r.ID,
		Code:        r.Code,
		Status:      r.Status,
		Email:       r.Email,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		AmountTotal: r.AmountTotal,
		OccurredAt:  at,
	}
}
