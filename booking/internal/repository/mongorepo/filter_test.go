package mongorepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/model"
)

func TestReservationFilter(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   model.ReservationFilters
		want bson.M
	}{
		{
			name: "empty",
			in:   model.ReservationFilters{},
			want: bson.M{},
		},
		{
			name: "status and start range",
			in: model.ReservationFilters{
				Status:    model.StatusPaid,
				StartDate: model.DateRange{From: &from, To: &to},
			},
			want: bson.M{
				"status":    "paid",
				"startDate": bson.M{"$gte": from, "$lte": to},
			},
		},
		{
			name: "end upper bound only",
			in:   model.ReservationFilters{EndDate: model.DateRange{To: &to}},
			want: bson.M{"endDate": bson.M{"$lte": to}},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, reservationFilter(tt.in))
		})
	}
}

func TestReservationFilter_SearchEscaped(t *testing.T) {
	t.Parallel()

	got := reservationFilter(model.ReservationFilters{Search: "a.b+(c)"})
	or, ok := got["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, len(reservationSearchFields))
	require.Equal(t, bson.M{"email": primitive.Regex{Pattern: `a\.b\+\(c\)`, Options: "i"}}, or[0])
	require.Equal(t, bson.M{"country": primitive.Regex{Pattern: `a\.b\+\(c\)`, Options: "i"}}, or[6])
}

func TestReviewFilter(t *testing.T) {
	t.Parallel()

	got := reviewFilter(model.ReviewFilters{Search: "vue", Status: model.ReviewApproved, Rating: 5})
	require.Equal(t, "approved", got["status"])
	require.Equal(t, 5, got["rating"])
	require.Len(t, got["$or"], 2)
}

func TestSortDoc(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		bson.D{{Key: "amountTotal", Value: 1}, {Key: "_id", Value: 1}},
		sortDoc(model.Sort{By: "amountTotal", Order: model.Asc}))
	require.Equal(t,
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		sortDoc(model.Sort{By: "createdAt", Order: model.Desc}))
}

func TestObjectID(t *testing.T) {
	t.Parallel()

	_, err := objectID("nope")
	require.Error(t, err)
	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex())
	require.NoError(t, err)
	require.Equal(t, oid, got)
}

func TestPatchSet(t *testing.T) {
	t.Parallel()

	city := "Lyon"
	paid := model.StatusPaid
	amount := 420.5
	got := patchSet(model.ReservationPatch{City: &city, Status: &paid, AmountTotal: &amount})
	require.Equal(t, bson.M{"city": "Lyon", "status": "paid", "amountTotal": 420.5}, got)
	require.Empty(t, patchSet(model.ReservationPatch{}))
}

func TestMapErr(t *testing.T) {
	t.Parallel()

	require.NoError(t, mapErr(nil))
	require.ErrorIs(t, mapErr(mongo.ErrNoDocuments), errs.ErrNotFound)
	require.ErrorIs(t, mapErr(context.DeadlineExceeded), errs.ErrStorageTimeout)
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	require.ErrorIs(t, mapErr(dup), errs.ErrDuplicateCode)
}
