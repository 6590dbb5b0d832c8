package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/repository"
	"github.com/ruelucas/booking-service/pkg/mongodb"
)

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Author    string             `bson:"author"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	Status    string             `bson:"status"`
	Date      time.Time          `bson:"date"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d reviewDoc) model() model.Review {
	return model.Review{
		ID:        d.ID.Hex(),
		Author:    d.Author,
		Rating:    d.Rating,
		Comment:   d.Comment,
		Status:    model.ReviewStatus(d.Status),
		Date:      d.Date.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type reviewRepository struct {
	client *mongodb.Client
	log    *zap.Logger
}

var _ repository.ReviewRepository = (*reviewRepository)(nil)

func (r *reviewRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.client, reviewCollection)
}

func (r *reviewRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return model.Review{}, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := reviewDoc{
		Author:    rv.Author,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		Status:    string(rv.Status),
		Date:      rv.Date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	out, err := coll.InsertOne(ctx, doc)
	if err != nil {
		r.log.Error("review insert", zap.Error(err))
		return model.Review{}, mapErr(err)
	}
	doc.ID = out.InsertedID.(primitive.ObjectID)
	return doc.model(), nil
}

func (r *reviewRepository) Get(ctx context.Context, id string) (model.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Review{}, err
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return model.Review{}, err
	}
	var doc reviewDoc
	if err = coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return model.Review{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *reviewRepository) List(ctx context.Context, q model.ReviewQuery) ([]model.Review, int64, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, 0, err
	}
	filter := reviewFilter(q.Filters)
	opts := options.Find().
		SetSort(sortDoc(q.Sort)).
		SetSkip(int64(q.Pagination.Offset())).
		SetLimit(int64(q.Pagination.Limit))

	var (
		items []model.Review
		total int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur, err := coll.Find(gCtx, filter, opts)
		if err != nil {
			return mapErr(err)
		}
		var docs []reviewDoc
		if err = cur.All(gCtx, &docs); err != nil {
			return mapErr(err)
		}
		items = make([]model.Review, 0, len(docs))
		for _, d := range docs {
			items = append(items, d.model())
		}
		return nil
	})
	g.Go(func() error {
		n, err := coll.CountDocuments(gCtx, filter)
		if err != nil {
			return mapErr(err)
		}
		total = n
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *reviewRepository) Replace(ctx context.Context, id string, rv model.Review) (model.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Review{}, err
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return model.Review{}, err
	}
	var doc reviewDoc
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"author":    rv.Author,
			"rating":    rv.Rating,
			"comment":   rv.Comment,
			"status":    string(rv.Status),
			"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return model.Review{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) (model.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Review{}, err
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return model.Review{}, err
	}
	var doc reviewDoc
	if err = coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return model.Review{}, mapErr(err)
	}
	return doc.model(), nil
}
