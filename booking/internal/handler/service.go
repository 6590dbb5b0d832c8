package handler

import (
	"context"

	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type ReservationService interface {
	Create(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	Get(ctx context.Context, id string) (model.Reservation, error)
	GetByCode(ctx context.Context, code string) (model.Reservation, error)
	List(ctx context.Context, q model.ReservationQuery) (model.ReservationPage, error)
	Stats(ctx context.Context) (model.ReservationStats, error)
	Update(ctx context.Context, id string, req model.UpdateReservationRequest) (model.Reservation, error)
	Delete(ctx context.Context, id string) (model.DeleteReservationResponse, error)
}

type ReviewService interface {
	Create(ctx context.Context, req model.ReviewRequest) (model.Review, error)
	Get(ctx context.Context, id string) (model.Review, error)
	List(ctx context.Context, q model.ReviewQuery) (model.ReviewPage, error)
	Replace(ctx context.Context, id string, req model.ReviewRequest) (model.Review, error)
	Delete(ctx context.Context, id string) (model.Review, error)
}

var (
	_ ReservationService = (*service.Reservations)(nil)
	_ ReviewService      = (*service.Reviews)(nil)
)
