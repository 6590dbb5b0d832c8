package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/repository"
	repo_mocks "github.com/ruelucas/booking-service/booking/internal/repository/mocks"
	"github.com/ruelucas/booking-service/booking/internal/service"
)

func newReviewService(t *testing.T) (*service.Reviews, *repo_mocks.MockReviewRepository) {
	ctrl := gomock.NewController(t)
	repo := repo_mocks.NewMockReviewRepository(ctrl)
	svc := service.NewService(repository.Repository{
		Reservations: repo_mocks.NewMockReservationRepository(ctrl),
		Reviews:      repo,
	}, zap.NewNop(), service.WithClock(func() time.Time { return fixedNow }))
	return svc.Review, repo
}

func intPtr(i int) *int { return &i }

func TestReviews_Create(t *testing.T) {
	t.Parallel()

	svc, repo := newReviewService(t)
	repo.EXPECT().Create(gomock.Any(), model.Review{
		Author:  "Camille",
		Rating:  5,
		Comment: "Appartement superbe",
		Status:  model.ReviewApproved,
		Date:    fixedNow,
	}).Return(model.Review{ID: "665f1c2e9b1d4a0012345678"}, nil)

	got, err := svc.Create(context.Background(), model.ReviewRequest{
		Author:  "Camille",
		Rating:  intPtr(5),
		Comment: "Appartement superbe",
	})
	require.NoError(t, err)
	require.Equal(t, "665f1c2e9b1d4a0012345678", got.ID)
}

func TestReviews_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		req         model.ReviewRequest
		wantMsg     string
		wantMissing []string
	}{
		{
			name:    "rating too high",
			req:     model.ReviewRequest{Author: "a", Rating: intPtr(6), Comment: "c"},
			wantMsg: "La note doit être entre 1 et 5",
		},
		{
			name:    "rating zero",
			req:     model.ReviewRequest{Author: "a", Rating: intPtr(0), Comment: "c"},
			wantMsg: "La note doit être entre 1 et 5",
		},
		{
			name:        "missing comment",
			req:         model.ReviewRequest{Author: "a", Rating: intPtr(4)},
			wantMsg:     "Tous les champs sont requis",
			wantMissing: []string{"comment"},
		},
		{
			name:        "missing everything",
			req:         model.ReviewRequest{},
			wantMsg:     "Tous les champs sont requis",
			wantMissing: []string{"author", "rating", "comment"},
		},
		{
			name:    "bad status",
			req:     model.ReviewRequest{Author: "a", Rating: intPtr(3), Comment: "c", Status: "hidden"},
			wantMsg: "Statut invalide (pending, approved ou rejected)",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, _ := newReviewService(t)
			_, err := svc.Replace(context.Background(), "665f1c2e9b1d4a0012345678", tt.req)
			var vErr *errs.ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tt.wantMsg, vErr.Message)
			require.Equal(t, tt.wantMissing, vErr.Missing)
			if tt.wantMissing != nil {
				require.Equal(t, []string{"author", "rating", "comment"}, vErr.Required)
			}
		})
	}
}

func TestReviews_List(t *testing.T) {
	t.Parallel()

	svc, repo := newReviewService(t)
	q := model.ReviewQuery{
		Sort:       model.Sort{By: "date", Order: model.Desc},
		Pagination: model.Pagination{Page: 1, Limit: 20},
	}
	repo.EXPECT().List(gomock.Any(), q).Return(nil, int64(0), nil)

	got, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	require.NotNil(t, got.Items)
	require.Empty(t, got.Items)
	require.Equal(t, 0, got.Pages)
}

func TestReviews_Delete_NotFound(t *testing.T) {
	t.Parallel()

	svc, repo := newReviewService(t)
	repo.EXPECT().Delete(gomock.Any(), "665f1c2e9b1d4a0012345678").Return(model.Review{}, errs.ErrNotFound)

	_, err := svc.Delete(context.Background(), "665f1c2e9b1d4a0012345678")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
