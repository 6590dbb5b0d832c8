// Package pgrepo stores reservations and reviews in PostgreSQL.
package pgrepo

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/repository"
)

const (
	reservationTableName = `reservations`
	reviewTableName      = `reviews`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func NewRepository(db *pgxpool.Pool, log *zap.Logger) repository.Repository {
	log = log.Named("repo")
	return repository.Repository{
		Reservations: &reservationRepository{db: db, log: log},
		Reviews:      &reviewRepository{db: db, log: log},
	}
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errs.ErrMalformedID
	}
	return uid, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func search(q string, columns []string) sq.Or {
	pattern := containsPattern(q)
	or := make(sq.Or, 0, len(columns))
	for _, c := range columns {
		or = append(or, sq.ILike{c: pattern})
	}
	return or
}

func dateRange(column string, r model.DateRange) sq.And {
	var and sq.And
	if r.From != nil {
		and = append(and, sq.GtOrEq{column: *r.From})
	}
	if r.To != nil {
		and = append(and, sq.LtOrEq{column: *r.To})
	}
	return and
}

func orderBy(s model.Sort, columns map[string]string, def string) []string {
	col, ok := columns[s.By]
	if !ok {
		col = def
	}
	dir := "DESC"
	if s.Order == model.Asc {
		dir = "ASC"
	}
	return []string{col + " " + dir, "id " + dir}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return errs.ErrDuplicateCode
		case pgerrcode.InvalidTextRepresentation:
			return errs.ErrMalformedID
		case pgerrcode.QueryCanceled:
			return errors.WithMessage(errs.ErrStorageTimeout, err.Error())
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return errors.WithMessage(errs.ErrStorageTimeout, err.Error())
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return errors.WithMessage(errs.ErrStorageUnavailable, err.Error())
	}
	return err
}
