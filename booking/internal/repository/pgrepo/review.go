package pgrepo

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/repository"
)

var reviewColumns = []string{
	"id::text AS id", "author", "rating", "comment", "status", "date", "created_at", "updated_at",
}

var reviewSortColumns = map[string]string{
	"date":      "date",
	"rating":    "rating",
	"createdAt": "created_at",
}

var returningReview = "RETURNING " + strings.Join(reviewColumns, ", ")

type reviewRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

var _ repository.ReviewRepository = (*reviewRepository)(nil)

func (r *reviewRepository) queryOne(ctx context.Context, b sq.Sqlizer) (model.Review, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return model.Review{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.Review{}, mapErr(err)
	}
	rv, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Review])
	if err != nil {
		return model.Review{}, mapErr(err)
	}
	return rv, nil
}

func (r *reviewRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	out, err := r.queryOne(ctx, qb.Insert(reviewTableName).
		Columns("id", "author", "rating", "comment", "status", "date").
		Values(uuid.New(), rv.Author, rv.Rating, rv.Comment, rv.Status, rv.Date).
		Suffix(returningReview))
	if err != nil {
		r.log.Error("CreateReview", zap.Error(err))
	}
	return out, err
}

func (r *reviewRepository) Get(ctx context.Context, id string) (model.Review, error) {
	uid, err := parseID(id)
	if err != nil {
		return model.Review{}, err
	}
	return r.queryOne(ctx, qb.Select(reviewColumns...).
		From(reviewTableName).
		Where(sq.Eq{"id": uid}))
}

func reviewWhere(f model.ReviewFilters) sq.And {
	where := sq.And{}
	if f.Search != "" {
		where = append(where, search(f.Search, []string{"author", "comment"}))
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if f.Rating != 0 {
		where = append(where, sq.Eq{"rating": f.Rating})
	}
	return where
}

func listReviewsQuery(q model.ReviewQuery) (sq.SelectBuilder, sq.SelectBuilder) {
	items := qb.Select(reviewColumns...).
		From(reviewTableName).
		OrderBy(orderBy(q.Sort, reviewSortColumns, "date")...).
		Limit(uint64(q.Pagination.Limit)).
		Offset(uint64(q.Pagination.Offset()))
	count := qb.Select("count(*)").
		From(reviewTableName)
	if where := reviewWhere(q.Filters); len(where) > 0 {
		items = items.Where(where)
		count = count.Where(where)
	}
	return items, count
}

func (r *reviewRepository) List(ctx context.Context, q model.ReviewQuery) ([]model.Review, int64, error) {
	itemsQ, countQ := listReviewsQuery(q)

	var (
		items []model.Review
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
		items, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Review])
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

func (r *reviewRepository) Replace(ctx context.Context, id string, rv model.Review) (model.Review, error) {
	uid, err := parseID(id)
	if err != nil {
		return model.Review{}, err
	}
	return r.queryOne(ctx, qb.Update(reviewTableName).
		SetMap(map[string]interface{}{
			"author":     rv.Author,
			"rating":     rv.Rating,
			"comment":    rv.Comment,
			"status":     rv.Status,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": uid}).
		Suffix(returningReview))
}

func (r *reviewRepository) Delete(ctx context.Context, id string) (model.Review, error) {
	uid, err := parseID(id)
	if err != nil {
		return model.Review{}, err
	}
	return r.queryOne(ctx, qb.Delete(reviewTableName).
		Where(sq.Eq{"id": uid}).
		Suffix(returningReview))
}
