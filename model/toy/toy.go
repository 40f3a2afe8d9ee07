package toy

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
	// Collection is the name of the MongoDB collection that stores toys.
	Collection = "toys"
)

// Toy is a catalogue entry. Apart from its identifier a toy is whatever the
// client stored.
type Toy struct {
	Id     primitive.ObjectID `bson:"_id,omitempty" mapstructure:"_id"`
	Fields map[string]any     `bson:",inline" mapstructure:",remain"`
}

var (
	IdKey = bsonutil.MustHaveTag(Toy{}, "Id")
)

// All is a query that returns all toys.
var All = bson.M{}

// ById returns a query that matches the toy with the given id.
func ById(id primitive.ObjectID) bson.M {
	return bson.M{IdKey: id}
}

// FindOne returns the toy matching the query, or nil if there is none.
func FindOne(ctx context.Context, d *mongo.Database, query bson.M) (*Toy, error) {
	t := &Toy{}
	err := db.FindOne(ctx, d, Collection, query, t)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding toy")
	}

	return t, nil
}

// FindOneId returns the toy with the given id, or nil if there is none.
func FindOneId(ctx context.Context, d *mongo.Database, id primitive.ObjectID) (*Toy, error) {
	return FindOne(ctx, d, ById(id))
}

// Find returns all toys matching the query.
func Find(ctx context.Context, d *mongo.Database, query bson.M) ([]Toy, error) {
	toys := []Toy{}
	if err := db.FindAll(ctx, d, Collection, query, &toys); err != nil {
		return nil, errors.Wrap(err, "finding toys")
	}

	return toys, nil
}

// Insert stores the toy, assigning it a new id unless it has one.
func (t *Toy) Insert(ctx context.Context, d *mongo.Database) error {
	if t.Id.IsZero() {
		t.Id = primitive.NewObjectID()
	}

	_, err := db.Insert(ctx, d, Collection, t)
	return errors.Wrapf(err, "inserting toy '%s'", t.Id.Hex())
}

// Remove deletes the toy with the given id.
func Remove(ctx context.Context, d *mongo.Database, id primitive.ObjectID) (*db.ChangeInfo, error) {
	info, err := db.Remove(ctx, d, Collection, ById(id))
	if err != nil {
		return nil, errors.Wrapf(err, "removing toy '%s'", id.Hex())
	}

	return info, nil
}
