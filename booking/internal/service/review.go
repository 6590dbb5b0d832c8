package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/repository"
)

type Reviews struct {
	repo    repository.ReviewRepository
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

func newReviews(repo repository.ReviewRepository, log *zap.Logger, s settings) *Reviews {
	return &Reviews{
		repo:    repo,
		log:     log,
		timeout: s.storageTimeout,
		now:     s.now,
	}
}

// MissingReviewFields lists absent or blank required fields in declaration order.
func MissingReviewFields(req model.ReviewRequest) []string {
	var missing []string
	if strings.TrimSpace(req.Author) == "" {
		missing = append(missing, "author")
	}
	if req.Rating == nil {
		missing = append(missing, "rating")
	}
	if strings.TrimSpace(req.Comment) == "" {
		missing = append(missing, "comment")
	}
	return missing
}

func reviewFrom(req model.ReviewRequest) (model.Review, error) {
	if missing := MissingReviewFields(req); len(missing) > 0 {
		return model.Review{}, errs.ReviewFieldsRequired(missing)
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		return model.Review{}, errs.Validation(errs.MsgRating)
	}
	status := model.ReviewApproved
	if req.Status != "" {
		status = model.ReviewStatus(req.Status)
		if !status.Valid() {
			return model.Review{}, errs.Validation(errs.MsgReviewStatus)
		}
	}
	return model.Review{
		Author:  strings.TrimSpace(req.Author),
		Rating:  *req.Rating,
		Comment: req.Comment,
		Status:  status,
	}, nil
}

func (s *Reviews) Create(ctx context.Context, req model.ReviewRequest) (model.Review, error) {
	rv, err := reviewFrom(req)
	if err != nil {
		return model.Review{}, err
	}
	rv.Date = s.now().UTC().Truncate(time.Millisecond)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Create(ctx, rv)
}

func (s *Reviews) Get(ctx context.Context, id string) (model.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Get(ctx, id)
}

func (s *Reviews) List(ctx context.Context, q model.ReviewQuery) (model.ReviewPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return model.ReviewPage{}, err
	}
	return model.NewPage(items, total, q.Pagination, q.Filters, q.Sort), nil
}

// Replace overwrites every client-settable field. The review date is kept.
func (s *Reviews) Replace(ctx context.Context, id string, req model.ReviewRequest) (model.Review, error) {
	rv, err := reviewFrom(req)
	if err != nil {
		return model.Review{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Replace(ctx, id, rv)
}

func (s *Reviews) Delete(ctx context.Context, id string) (model.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Delete(ctx, id)
}
