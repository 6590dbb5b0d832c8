package mongorepo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ruelucas/booking-service/booking/internal/model"
)

var reservationSearchFields = []string{
	"email", "phoneNumber", "firstName", "surname", "code", "city", "country",
}

var reviewSearchFields = []string{"author", "comment"}

func searchFilter(q string, fields []string) bson.A {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	return or
}

func rangeFilter(r model.DateRange) bson.M {
	m := bson.M{}
	if r.From != nil {
		m["$gte"] = *r.From
	}
	if r.To != nil {
		m["$lte"] = *r.To
	}
	return m
}

func reservationFilter(f model.ReservationFilters) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter["$or"] = searchFilter(f.Search, reservationSearchFields)
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if !f.StartDate.Empty() {
		filter["startDate"] = rangeFilter(f.StartDate)
	}
	if !f.EndDate.Empty() {
		filter["endDate"] = rangeFilter(f.EndDate)
	}
	return filter
}

func reviewFilter(f model.ReviewFilters) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter["$or"] = searchFilter(f.Search, reviewSearchFields)
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Rating != 0 {
		filter["rating"] = f.Rating
	}
	return filter
}

// sortDoc orders by the requested field, then _id in the same direction.
// Sort field names are validated upstream and match the bson keys.
func sortDoc(s model.Sort) bson.D {
	dir := sortDirection(s.Order == model.Asc)
	return bson.D{{Key: s.By, Value: dir}, {Key: "_id", Value: dir}}
}
