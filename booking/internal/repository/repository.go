package repository

import (
	"context"

	"github.com/ruelucas/booking-service/booking/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type ReservationRepository interface {
	Create(ctx context.Context, r model.Reservation) (model.Reservation, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Get(ctx context.Context, id string) (model.Reservation, error)
	GetByCode(ctx context.Context, code string) (model.Reservation, error)
	List(ctx context.Context, q model.ReservationQuery) ([]model.Reservation, int64, error)
	Update(ctx context.Context, id string, patch model.ReservationPatch) (model.Reservation, error)
	Delete(ctx context.Context, id string) (model.Reservation, error)
	Stats(ctx context.Context, recent int) (model.ReservationStats, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r model.Review) (model.Review, error)
	Get(ctx context.Context, id string) (model.Review, error)
	List(ctx context.Context, q model.ReviewQuery) ([]model.Review, int64, error)
	Replace(ctx context.Context, id string, r model.Review) (model.Review, error)
	Delete(ctx context.Context, id string) (model.Review, error)
}

type Repository struct {
	Reservations ReservationRepository
	Reviews      ReviewRepository
}
