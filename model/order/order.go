package order

import (
	"context"

	"github.com/mongodb/anser/bsonutil"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/db"
	"github.com/toyland-demo/toyland/model/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// Collection is the name of the MongoDB collection that stores orders.
	Collection = "orders"
)

// Order is a purchase placed by a customer. The customer's email is the
// only field orders are looked up by; everything else is kept as the
// client sent it.
type Order struct {
	Id     primitive.ObjectID `bson:"_id,omitempty" mapstructure:"_id"`
	Email  string             `bson:"email,omitempty" mapstructure:"email"`
	Fields map[string]any     `bson:",inline" mapstructure:",remain"`
}

// UnmarshalBSON reads an order written by any client. A non-string email
// is kept with the other fields rather than failing the read.
func (o *Order) UnmarshalBSON(data []byte) error {
	stored := struct {
		Id     primitive.ObjectID `bson:"_id,omitempty"`
		Email  bson.RawValue      `bson:"email,omitempty"`
		Fields map[string]any     `bson:",inline"`
	}{}
	if err := bson.Unmarshal(data, &stored); err != nil {
		return errors.Wrap(err, "decoding order")
	}

	email, err := document.KnownString(stored.Email, EmailKey, &stored.Fields)
	if err != nil {
		return errors.Wrap(err, "decoding order")
	}

	*o = Order{Id: stored.Id, Email: email, Fields: stored.Fields}
	return nil
}

// MarshalBSON writes the order with its email ahead of the other fields.
func (o Order) MarshalBSON() ([]byte, error) {
	return document.Marshal(o.Id, bson.D{{Key: EmailKey, Value: o.Email}}, o.Fields)
}

var (
	IdKey    = bsonutil.MustHaveTag(Order{}, "Id")
	EmailKey = bsonutil.MustHaveTag(Order{}, "Email")
)

// All is a query that returns all orders.
var All = bson.M{}

// ById returns a query that matches the order with the given id.
func ById(id primitive.ObjectID) bson.M {
	return bson.M{IdKey: id}
}

// ByEmail returns a query that matches every order placed with the email.
func ByEmail(email string) bson.M {
	return bson.M{EmailKey: email}
}

// FindOne returns the order matching the query, or nil if there is none.
func FindOne(ctx context.Context, d *mongo.Database, query bson.M) (*Order, error) {
	o := &Order{}
	err := db.FindOne(ctx, d, Collection, query, o)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding order")
	}

	return o, nil
}

func FindOneId(ctx context.Context, d *mongo.Database, id primitive.ObjectID) (*Order, error) {
	return FindOne(ctx, d, ById(id))
}

// Find returns all orders matching the query.
func Find(ctx context.Context, d *mongo.Database, query bson.M) ([]Order, error) {
	orders := []Order{}
	if err := db.FindAll(ctx, d, Collection, query, &orders); err != nil {
		return nil, errors.Wrap(err, "finding orders")
	}

	return orders, nil
}

// FindByEmail returns the orders placed with the email.
func FindByEmail(ctx context.Context, d *mongo.Database, email string) ([]Order, error) {
	return Find(ctx, d, ByEmail(email))
}

// Insert stores the order, assigning it a new id unless it has one.
func (o *Order) Insert(ctx context.Context, d *mongo.Database) error {
	if o.Id.IsZero() {
		o.Id = primitive.NewObjectID()
	}

	_, err := db.Insert(ctx, d, Collection, o)
	return errors.Wrapf(err, "inserting order '%s'", o.Id.Hex())
}

// UpdateFields overwrites the named fields of the order with the given id.
// Fields not named are left untouched.
func UpdateFields(ctx context.Context, d *mongo.Database, id primitive.ObjectID, fields map[string]any) (*db.ChangeInfo, error) {
	if len(fields) == 0 {
		return nil, errors.New("no fields to update")
	}
	if _, ok := fields[IdKey]; ok {
		return nil, errors.Errorf("cannot update '%s'", IdKey)
	}

	info, err := db.Update(ctx, d, Collection, ById(id), bson.M{"$set": fields})
	if err != nil {
		return nil, errors.Wrapf(err, "updating order '%s'", id.Hex())
	}

	return info, nil
}

// Remove deletes the order with the given id.
func Remove(ctx context.Context, d *mongo.Database, id primitive.ObjectID) (*db.ChangeInfo, error) {
	info, err := db.Remove(ctx, d, Collection, ById(id))
	if err != nil {
		return nil, errors.Wrapf(err, "removing order '%s'", id.Hex())
	}

	return info, nil
}
