package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/repository"
	"github.com/ruelucas/booking-service/pkg/codegen"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type EventPublisher interface {
	Publish(ctx context.Context, e model.ReservationEvent) error
}

const (
	defaultStorageTimeout = 5 * time.Second
	// insert attempts when a concurrent writer takes the resolved code first
	maxInsertAttempts = 3
)

type settings struct {
	codePrefix     string
	storageTimeout time.Duration
	now            func() time.Time
	generate       func(prefix string) string
	events         EventPublisher
}

type Option func(*settings)

func WithCodePrefix(prefix string) Option {
	return func(s *settings) {
		if prefix != "" {
			s.codePrefix = prefix
		}
	}
}

func WithStorageTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.storageTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func WithCodeGenerator(gen func(prefix string) string) Option {
	return func(s *settings) {
		s.generate = gen
	}
}

func WithEvents(p EventPublisher) Option {
	return func(s *settings) {
		if p != nil {
			s.events = p
		}
	}
}

type Service struct {
	Reservation *Reservations
	Review      *Reviews
}

func NewService(repo repository.Repository, log *zap.Logger, opts ...Option) *Service {
	s := settings{
		codePrefix:     codegen.DefaultPrefix,
		storageTimeout: defaultStorageTimeout,
		now:            time.Now,
		generate:       codegen.Generate,
		events:         noopPublisher{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	log = log.Named("service")
	return &Service{
		Reservation: newReservations(repo.Reservations, log, s),
		Review:      newReviews(repo.Reviews, log, s),
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, model.ReservationEvent) error { return nil }
