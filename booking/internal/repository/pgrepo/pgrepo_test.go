package pgrepo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/model"
)

const reservationSelect = "SELECT id::text AS id, code, status, email, phone_number, first_name, surname, " +
	"street, postcode, city, country, start_date, end_date, payment_method, " +
	"amount_total::float8 AS amount_total, created_at, updated_at FROM reservations"

func TestListReservationsQuery(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		in        model.ReservationQuery
		wantItems string
		wantCount string
		wantArgs  []interface{}
	}{
		{
			name: "no filters",
			in: model.ReservationQuery{
				Sort:       model.Sort{By: "createdAt", Order: model.Desc},
				Pagination: model.Pagination{Page: 1, Limit: 20},
			},
			wantItems: reservationSelect + " ORDER BY created_at DESC, id DESC LIMIT 20 OFFSET 0",
			wantCount: "SELECT count(*) FROM reservations",
		},
		{
			name: "status and start date",
			in: model.ReservationQuery{
				Filters: model.ReservationFilters{
					Status:    model.StatusPaid,
					StartDate: model.DateRange{From: &from},
				},
				Sort:       model.Sort{By: "amountTotal", Order: model.Asc},
				Pagination: model.Pagination{Page: 3, Limit: 10},
			},
			wantItems: reservationSelect +
				" WHERE (status = $1 AND (start_date >= $2)) ORDER BY amount_total ASC, id ASC LIMIT 10 OFFSET 20",
			wantCount: "SELECT count(*) FROM reservations WHERE (status = $1 AND (start_date >= $2))",
			wantArgs:  []interface{}{model.StatusPaid, from},
		},
		{
			name: "unknown sort falls back",
			in: model.ReservationQuery{
				Sort:       model.Sort{By: "password", Order: model.Desc},
				Pagination: model.Pagination{Page: 1, Limit: 5},
			},
			wantItems: reservationSelect + " ORDER BY created_at DESC, id DESC LIMIT 5 OFFSET 0",
			wantCount: "SELECT count(*) FROM reservations",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			items, count := listReservationsQuery(tt.in)

			q, args, err := items.ToSql()
			require.NoError(t, err)
			require.Equal(t, tt.wantItems, q)
			require.Equal(t, tt.wantArgs, nilIfEmpty(args))

			q, args, err = count.ToSql()
			require.NoError(t, err)
			require.Equal(t, tt.wantCount, q)
			require.Equal(t, tt.wantArgs, nilIfEmpty(args))
		})
	}
}

func nilIfEmpty(args []interface{}) []interface{} {
	if len(args) == 0 {
		return nil
	}
	return args
}

func TestSearchEscapesLike(t *testing.T) {
	t.Parallel()

	q, args, err := search(`50%_off\`, []string{"email", "city"}).ToSql()
	require.NoError(t, err)
	require.Equal(t, "(email ILIKE ? OR city ILIKE ?)", q)
	require.Equal(t, []interface{}{`%50\%\_off\\%`, `%50\%\_off\\%`}, args)
}

func TestListReviewsQuery(t *testing.T) {
	t.Parallel()

	items, count := listReviewsQuery(model.ReviewQuery{
		Filters:    model.ReviewFilters{Rating: 5},
		Sort:       model.Sort{By: "date", Order: model.Desc},
		Pagination: model.Pagination{Page: 2, Limit: 10},
	})
	q, args, err := items.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT id::text AS id, author, rating, comment, status, date, created_at, updated_at "+
		"FROM reviews WHERE (rating = $1) ORDER BY date DESC, id DESC LIMIT 10 OFFSET 10", q)
	require.Equal(t, []interface{}{5}, args)

	q, _, err = count.ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT count(*) FROM reviews WHERE (rating = $1)", q)
}

func TestPatchMap(t *testing.T) {
	t.Parallel()

	email := "jeanne@example.com"
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	got := patchMap(model.ReservationPatch{Email: &email, EndDate: &end})
	require.Equal(t, map[string]interface{}{"email": email, "end_date": end}, got)
}

func TestParseID(t *testing.T) {
	t.Parallel()

	_, err := parseID("123")
	require.ErrorIs(t, err, errs.ErrMalformedID)
	_, err = parseID("5b0f3a6e-8d3c-4f4e-9c1a-2f2a1e0b9d11")
	require.NoError(t, err)
}

func TestMapErr(t *testing.T) {
	t.Parallel()

	require.NoError(t, mapErr(nil))
	require.ErrorIs(t, mapErr(pgx.ErrNoRows), errs.ErrNotFound)
	require.ErrorIs(t, mapErr(&pgconn.PgError{Code: pgerrcode.UniqueViolation}), errs.ErrDuplicateCode)
	require.ErrorIs(t, mapErr(context.DeadlineExceeded), errs.ErrStorageTimeout)
}
