package review

import (
	"context"

	"github.com/mongodb/anser/bsonutil"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// Collection is the name of the MongoDB collection that stores reviews.
	Collection = "reviews"
)

// Review is a customer review. Apart from its identifier a review is whatever
// the client stored.
type Review struct {
	Id     primitive.ObjectID `bson:"_id,omitempty" mapstructure:"_id"`
	Fields map[string]any     `bson:",inline" mapstructure:",remain"`
}

var (
	IdKey = bsonutil.MustHaveTag(Review{}, "Id")
)

// All is a query that returns all reviews.
var All = bson.M{}

// ById returns a query that matches the review with the given id.
func ById(id primitive.ObjectID) bson.M {
	return bson.M{IdKey: id}
}

// FindOne returns the review matching the query, or nil if there is none.
func FindOne(ctx context.Context, d *mongo.Database, query bson.M) (*Review, error) {
	r := &Review{}
	err := db.FindOne(ctx, d, Collection, query, r)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding review")
	}

	return r, nil
}

func FindOneId(ctx context.Context, d *mongo.Database, id primitive.ObjectID) (*Review, error) {
	return FindOne(ctx, d, ById(id))
}

func Find(ctx context.Context, d *mongo.Database, query bson.M) ([]Review, error) {
	reviews := []Review{}
	if err := db.FindAll(ctx, d, Collection, query, &reviews); err != nil {
		return nil, errors.Wrap(err, "finding reviews")
	}

	return reviews, nil
}

// Insert stores the review, assigning it a new id unless it has one.
func (r *Review) Insert(ctx context.Context, d *mongo.Database) error {
	if r.Id.IsZero() {
		r.Id = primitive.NewObjectID()
	}

	_, err := db.Insert(ctx, d, Collection, r)
	return errors.Wrapf(err, "inserting review '%s'", r.Id.Hex())
}
