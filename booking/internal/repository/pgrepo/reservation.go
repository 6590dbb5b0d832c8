package pgrepo

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/repository"
)

var reservationColumns = []string{
	"id::text AS id", "code", "status", "email", "phone_number", "first_name", "surname",
	"street", "postcode", "city", "country", "start_date", "end_date", "payment_method",
	"amount_total::float8 AS amount_total", "created_at", "updated_at",
}

var recentColumns = []string{
	"id::text AS id", "code", "first_name", "surname", "email", "start_date", "end_date",
	"status", "amount_total::float8 AS amount_total", "created_at",
}

var reservationSearchColumns = []string{
	"email", "phone_number", "first_name", "surname", "code", "city", "country",
}

var reservationSortColumns = map[string]string{
	"createdAt":   "created_at",
	"startDate":   "start_date",
	"endDate":     "end_date",
	"amountTotal": "amount_total",
	"status":      "status",
}

var returningReservation = "RETURNING " + strings.Join(reservationColumns, ", ")

type reservationRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

var _ repository.ReservationRepository = (*reservationRepository)(nil)

func (r *reservationRepository) queryOne(ctx context.Context, b sq.Sqlizer) (model.Reservation, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.Reservation{}, mapErr(err)
	}
	res, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Reservation])
	if err != nil {
		return model.Reservation{}, mapErr(err)
	}
	return res, nil
}

func (r *reservationRepository) Create(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	b := qb.Insert(reservationTableName).
		Columns("id", "code", "status", "email", "phone_number", "first_name", "surname",
			"street", "postcode", "city", "country", "start_date", "end_date", "payment_method", "amount_total").
		Values(uuid.New(), res.Code, res.Status, res.Email, res.PhoneNumber, res.FirstName, res.Surname,
			res.Street, res.Postcode, res.City, res.Country, res.StartDate, res.EndDate, res.PaymentMethod, res.AmountTotal).
		Suffix(returningReservation)
	out, err := r.queryOne(ctx, b)
	if err != nil && !errors.Is(err, errs.ErrDuplicateCode) {
		r.log.Error("CreateReservation", zap.String("code", res.Code), zap.Error(err))
	}
	return out, err
}

func (r *reservationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+reservationTableName+` WHERE code = $1)`, code).
		Scan(&exists)
	if err != nil {
		return false, mapErr(err)
	}
	return exists, nil
}

func (r *reservationRepository) Get(ctx context.Context, id string) (model.Reservation, error) {
	uid, err := parseID(id)
	if err != nil {
		return model.Reservation{}, err
	}
	return r.queryOne(ctx, qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"id": uid}))
}

func (r *reservationRepository) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	return r.queryOne(ctx, qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"code": code}))
}

func reservationWhere(f model.ReservationFilters) sq.And {
	where := sq.And{}
	if f.Search != "" {
		where = append(where, search(f.Search, reservationSearchColumns))
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if !f.StartDate.Empty() {
		where = append(where, dateRange("start_date", f.StartDate))
	}
	if !f.EndDate.Empty() {
		where = append(where, dateRange("end_date", f.EndDate))
	}
	return where
}

func listReservationsQuery(q model.ReservationQuery) (sq.SelectBuilder, sq.SelectBuilder) {
	items := qb.Select(reservationColumns...).
		From(reservationTableName).
		OrderBy(orderBy(q.Sort, reservationSortColumns, "created_at")...).
		Limit(uint64(q.Pagination.Limit)).
		Offset(uint64(q.Pagination.Offset()))
	count := qb.Select("count(*)").
		From(reservationTableName)
	if where := reservationWhere(q.Filters); len(where) > 0 {
		items = items.Where(where)
		count = count.Where(where)
	}
	return items, count
}

func (r *reservationRepository) List(ctx context.Context, q model.ReservationQuery) ([]model.Reservation, int64, error) {
	itemsQ, countQ := listReservationsQuery(q)

	var (
		items []model.Reservation
		total int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query, args, err := itemsQ.ToSql()
		if err != nil {
			return err
		}
		rows, err := r.db.Query(gCtx, query, args...)
		if err != nil {
			return mapErr(err)
		}
		items, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Reservation])
		return mapErr(err)
	})
	g.Go(func() error {
		query, args, err := countQ.ToSql()
		if err != nil {
			return err
		}
		return mapErr(r.db.QueryRow(gCtx, query, args...).Scan(&total))
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func patchMap(p model.ReservationPatch) map[string]interface{} {
	set := map[string]interface{}{}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	strs := map[string]*string{
		"email":        p.Email,
		"phone_number": p.PhoneNumber,
		"first_name":   p.FirstName,
		"surname":      p.Surname,
		"street":       p.Street,
		"postcode":     p.Postcode,
		"city":         p.City,
		"country":      p.Country,
	}
	for k, v := range strs {
		if v != nil {
			set[k] = *v
		}
	}
	if p.StartDate != nil {
		set["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		set["end_date"] = *p.EndDate
	}
	if p.PaymentMethod != nil {
		set["payment_method"] = *p.PaymentMethod
	}
	if p.AmountTotal != nil {
		set["amount_total"] = *p.AmountTotal
	}
	return set
}

func (r *reservationRepository) Update(ctx context.Context, id string, patch model.ReservationPatch) (model.Reservation, error) {
	uid, err := parseID(id)
	if err != nil {
		return model.Reservation{}, err
	}
	set := patchMap(patch)
	set["updated_at"] = sq.Expr("now()")
	return r.queryOne(ctx, qb.Update(reservationTableName).
		SetMap(set).
		Where(sq.Eq{"id": uid}).
		Suffix(returningReservation))
}

func (r *reservationRepository) Delete(ctx context.Context, id string) (model.Reservation, error) {
	uid, err := parseID(id)
	if err != nil {
		return model.Reservation{}, err
	}
	return r.queryOne(ctx, qb.Delete(reservationTableName).
		Where(sq.Eq{"id": uid}).
		Suffix(returningReservation))
}

const statsQuery = `SELECT
	count(*),
	count(*) FILTER (WHERE status = 'pending'),
	count(*) FILTER (WHERE status = 'paid'),
	count(*) FILTER (WHERE status = 'cancelled'),
	coalesce(sum(amount_total) FILTER (WHERE status = 'paid'), 0)::float8
FROM ` + reservationTableName

func (r *reservationRepository) Stats(ctx context.Context, recent int) (model.ReservationStats, error) {
	var stats model.ReservationStats
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mapErr(r.db.QueryRow(gCtx, statsQuery).Scan(
			&stats.Total,
			&stats.ByStatus.Pending,
			&stats.ByStatus.Paid,
			&stats.ByStatus.Cancelled,
			&stats.Revenue,
		))
	})
	g.Go(func() error {
		query, args, err := qb.Select(recentColumns...).
			From(reservationTableName).
			OrderBy("created_at DESC", "id DESC").
			Limit(uint64(recent)).
			ToSql()
		if err != nil {
			return err
		}
		rows, err := r.db.Query(gCtx, query, args...)
		if err != nil {
			return mapErr(err)
		}
		stats.Recent, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.RecentReservation])
		return mapErr(err)
	})
	if err := g.Wait(); err != nil {
		return model.ReservationStats{}, err
	}
	return stats, nil
}
