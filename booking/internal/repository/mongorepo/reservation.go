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

type reservationDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Code          string             `bson:"code"`
	Status        string             `bson:"status"`
	Email         string             `bson:"email"`
	PhoneNumber   string             `bson:"phoneNumber"`
	FirstName     string             `bson:"firstName"`
	Surname       string             `bson:"surname"`
	Street        string             `bson:"street"`
	Postcode      string             `bson:"postcode"`
	City          string             `bson:"city"`
	Country       string             `bson:"country"`
	StartDate     time.Time          `bson:"startDate"`
	EndDate       time.Time          `bson:"endDate"`
	PaymentMethod string             `bson:"paymentMethod"`
	AmountTotal   float64            `bson:"amountTotal"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func toReservationDoc(r model.Reservation) reservationDoc {
	return reservationDoc{
		Code:          r.Code,
		Status:        string(r.Status),
		Email:         r.Email,
		PhoneNumber:   r.PhoneNumber,
		FirstName:     r.FirstName,
		Surname:       r.Surname,
		Street:        r.Street,
		Postcode:      r.Postcode,
		City:          r.City,
		Country:       r.Country,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		PaymentMethod: string(r.PaymentMethod),
		AmountTotal:   r.AmountTotal,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (d reservationDoc) model() model.Reservation {
	return model.Reservation{
		ID:            d.ID.Hex(),
		Code:          d.Code,
		Status:        model.Status(d.Status),
		Email:         d.Email,
		PhoneNumber:   d.PhoneNumber,
		FirstName:     d.FirstName,
		Surname:       d.Surname,
		Street:        d.Street,
		Postcode:      d.Postcode,
		City:          d.City,
		Country:       d.Country,
		StartDate:     d.StartDate.UTC(),
		EndDate:       d.EndDate.UTC(),
		PaymentMethod: model.PaymentMethod(d.PaymentMethod),
		AmountTotal:   d.AmountTotal,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

type reservationRepository struct {
	client *mongodb.Client
	log    *zap.Logger
}

var _ repository.ReservationRepository = (*reservationRepository)(nil)

func (r *reservationRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.client, reservationCollection)
}

func (r *reservationRepository) Create(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return model.Reservation{}, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := toReservationDoc(res)
	doc.CreatedAt, doc.UpdatedAt = now, now

	out, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			r.log.Error("reservation insert", zap.String("code", res.Code), zap.Error(err))
		}
		return model.Reservation{}, mapErr(err)
	}
	doc.ID = out.InsertedID.(primitive.ObjectID)
	return doc.model(), nil
}

func (r *reservationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return false, err
	}
	n, err := coll.CountDocuments(ctx, bson.M{"code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, mapErr(err)
	}
	return n > 0, nil
}

func (r *reservationRepository) findOne(ctx context.Context, filter bson.M) (model.Reservation, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return model.Reservation{}, err
	}
	var doc reservationDoc
	if err = coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return model.Reservation{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *reservationRepository) Get(ctx context.Context, id string) (model.Reservation, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Reservation{}, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *reservationRepository) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *reservationRepository) List(ctx context.Context, q model.ReservationQuery) ([]model.Reservation, int64, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, 0, err
	}
	filter := reservationFilter(q.Filters)
	opts := options.Find().
		SetSort(sortDoc(q.Sort)).
		SetSkip(int64(q.Pagination.Offset())).
		SetLimit(int64(q.Pagination.Limit))

	var (
		items []model.Reservation
		total int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur, err := coll.Find(gCtx, filter, opts)
		if err != nil {
			return mapErr(err)
		}
		var docs []reservationDoc
		if err = cur.All(gCtx, &docs); err != nil {
			return mapErr(err)
		}
		items = make([]model.Reservation, 0, len(docs))
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

func patchSet(p model.ReservationPatch) bson.M {
	set := bson.M{}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	strs := map[string]*string{
		"email":       p.Email,
		"phoneNumber": p.PhoneNumber,
		"firstName":   p.FirstName,
		"surname":     p.Surname,
		"street":      p.Street,
		"postcode":    p.Postcode,
		"city":        p.City,
		"country":     p.Country,
	}
	for k, v := range strs {
		if v != nil {
			set[k] = *v
		}
	}
	if p.StartDate != nil {
		set["startDate"] = *p.StartDate
	}
	if p.EndDate != nil {
		set["endDate"] = *p.EndDate
	}
	if p.PaymentMethod != nil {
		set["paymentMethod"] = string(*p.PaymentMethod)
	}
	if p.AmountTotal != nil {
		set["amountTotal"] = *p.AmountTotal
	}
	return set
}

func (r *reservationRepository) Update(ctx context.Context, id string, patch model.ReservationPatch) (model.Reservation, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Reservation{}, err
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return model.Reservation{}, err
	}
	set := patchSet(patch)
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	var doc reservationDoc
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return model.Reservation{}, mapErr(err)
	}
	return doc.model(), nil
}

func (r *reservationRepository) Delete(ctx context.Context, id string) (model.Reservation, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.Reservation{}, err
	}
	coll, err := r.coll(ctx)
	if err != nil {
		return model.Reservation{}, err
	}
	var doc reservationDoc
	if err = coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return model.Reservation{}, mapErr(err)
	}
	return doc.model(), nil
}

type statusGroup struct {
	Status  string  `bson:"_id"`
	Count   int64   `bson:"count"`
	Revenue float64 `bson:"revenue"`
}

type recentDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Code        string             `bson:"code"`
	FirstName   string             `bson:"firstName"`
	Surname     string             `bson:"surname"`
	Email       string             `bson:"email"`
	StartDate   time.Time          `bson:"startDate"`
	EndDate     time.Time          `bson:"endDate"`
	Status      string             `bson:"status"`
	AmountTotal float64            `bson:"amountTotal"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

var recentProjection = bson.M{
	"code": 1, "firstName": 1, "surname": 1, "email": 1, "startDate": 1,
	"endDate": 1, "status": 1, "amountTotal": 1, "createdAt": 1,
}

func (r *reservationRepository) Stats(ctx context.Context, recent int) (model.ReservationStats, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return model.ReservationStats{}, err
	}

	var stats model.ReservationStats
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cur, err := coll.Aggregate(gCtx, mongo.Pipeline{
			{{Key: "$group", Value: bson.M{
				"_id":     "$status",
				"count":   bson.M{"$sum": 1},
				"revenue": bson.M{"$sum": "$amountTotal"},
			}}},
		})
		if err != nil {
			return mapErr(err)
		}
		var groups []statusGroup
		if err = cur.All(gCtx, &groups); err != nil {
			return mapErr(err)
		}
		for _, gr := range groups {
			stats.Total += gr.Count
			switch model.Status(gr.Status) {
			case model.StatusPending:
				stats.ByStatus.Pending = gr.Count
			case model.StatusPaid:
				stats.ByStatus.Paid = gr.Count
				stats.Revenue = gr.Revenue
			case model.StatusCancelled:
				stats.ByStatus.Cancelled = gr.Count
			}
		}
		return nil
	})
	g.Go(func() error {
		cur, err := coll.Find(gCtx, bson.M{}, options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(int64(recent)).
			SetProjection(recentProjection))
		if err != nil {
			return mapErr(err)
		}
		var docs []recentDoc
		if err = cur.All(gCtx, &docs); err != nil {
			return mapErr(err)
		}
		stats.Recent = make([]model.RecentReservation, 0, len(docs))
		for _, d := range docs {
			stats.Recent = append(stats.Recent, model.RecentReservation{
				ID:          d.ID.Hex(),
				Code:        d.Code,
				FirstName:   d.FirstName,
				Surname:     d.Surname,
				Email:       d.Email,
				StartDate:   d.StartDate.UTC(),
				EndDate:     d.EndDate.UTC(),
				Status:      model.Status(d.Status),
				AmountTotal: d.AmountTotal,
				CreatedAt:   d.CreatedAt.UTC(),
			})
		}
		return nil
	})
	if err = g.Wait(); err != nil {
		return model.ReservationStats{}, err
	}
	return stats, nil
}
