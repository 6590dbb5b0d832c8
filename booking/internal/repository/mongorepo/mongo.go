// Package mongorepo stores reservations and reviews in MongoDB collections.
package mongorepo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/repository"
	"github.com/ruelucas/booking-service/pkg/mongodb"
)

const (
	reservationCollection = "reservations"
	reviewCollection      = "reviews"
)

func NewRepository(client *mongodb.Client, log *zap.Logger) repository.Repository {
	log = log.Named("repo")
	return repository.Repository{
		Reservations: &reservationRepository{client: client, log: log},
		Reviews:      &reviewRepository{client: client, log: log},
	}
}

// EnsureIndexes is run by the lazy handle on first connect.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(reservationCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true).SetName("code_unique")},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return errors.Wrap(err, "reservations indexes")
	}
	_, err = db.Collection(reviewCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}},
	})
	return errors.Wrap(err, "reviews indexes")
}

func collection(ctx context.Context, client *mongodb.Client, name string) (*mongo.Collection, error) {
	coll, err := client.Collection(ctx, name)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			return nil, errors.WithMessage(errs.ErrStorageTimeout, err.Error())
		}
		return nil, errors.WithMessage(errs.ErrStorageUnavailable, err.Error())
	}
	return coll, nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.ErrMalformedID
	}
	return oid, nil
}

// mapErr translates driver errors into the sentinels the handler knows.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return errs.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errs.ErrDuplicateCode
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return errors.WithMessage(errs.ErrStorageTimeout, err.Error())
	case mongo.IsNetworkError(err), errors.Is(err, mongo.ErrClientDisconnected):
		return errors.WithMessage(errs.ErrStorageUnavailable, err.Error())
	}
	return err
}

func sortDirection(asc bool) int {
	if asc {
		return 1
	}
	return -1
}
