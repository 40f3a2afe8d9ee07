package db

import (
	"context"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChangeInfo describes the outcome of a write against a collection.
type ChangeInfo struct {
	Matched    int
	Updated    int
	Upserted   int
	Removed    int
	UpsertedId any
}

func collection(d *mongo.Database, name string) (*mongo.Collection, error) {
	if d == nil {
		return nil, errors.New("database is not configured")
	}

	return d.Collection(name), nil
}

// Insert inserts the specified item into the specified collection and
// returns the identifier the document was stored under.
func Insert(ctx context.Context, d *mongo.Database, collectionName string, item any) (any, error) {
	coll, err := collection(d, collectionName)
	if err != nil {
		return nil, err
	}

	res, err := coll.InsertOne(ctx, item)
	if err != nil {
		return nil, errors.Wrapf(errors.WithStack(err), "inserting document into '%s'", collectionName)
	}

	return res.InsertedID, nil
}

// FindOne reads one document matching the query into out. When nothing
// matches it returns an error for which ResultsNotFound is true.
func FindOne(ctx context.Context, d *mongo.Database, collectionName string, query any, out any) error {
	coll, err := collection(d, collectionName)
	if err != nil {
		return err
	}

	return errors.WithStack(coll.FindOne(ctx, query).Decode(out))
}

// FindAll reads every document matching the query into out, which must be
// a pointer to a slice.
func FindAll(ctx context.Context, d *mongo.Database, collectionName string, query any, out any) error {
	coll, err := collection(d, collectionName)
	if err != nil {
		return err
	}

	cur, err := coll.Find(ctx, query)
	if err != nil {
		return errors.Wrapf(err, "finding documents in '%s'", collectionName)
	}

	return errors.Wrapf(cur.All(ctx, out), "iterating cursor for '%s'", collectionName)
}

// Update updates one matching document in the collection.
func Update(ctx context.Context, d *mongo.Database, collectionName string, query any, update any) (*ChangeInfo, error) {
	return updateOne(ctx, d, collectionName, query, update, options.Update())
}

// Upsert runs the specified update against the collection as an upsert
// operation. The update must be an update document, i.e. keyed by
// operators such as $set.
func Upsert(ctx context.Context, d *mongo.Database, collectionName string, query any, update any) (*ChangeInfo, error) {
	return updateOne(ctx, d, collectionName, query, update, options.Update().SetUpsert(true))
}

func updateOne(ctx context.Context, d *mongo.Database, collectionName string, query any, update any, opts *options.UpdateOptions) (*ChangeInfo, error) {
	coll, err := collection(d, collectionName)
	if err != nil {
		return nil, err
	}

	res, err := coll.UpdateOne(ctx, query, update, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "updating document in '%s'", collectionName)
	}

	return &ChangeInfo{
		Matched:    int(res.MatchedCount),
		Updated:    int(res.ModifiedCount),
		Upserted:   int(res.UpsertedCount),
		UpsertedId: res.UpsertedID,
	}, nil
}

// Remove removes one item matching the query from the specified collection.
func Remove(ctx context.Context, d *mongo.Database, collectionName string, query any) (*ChangeInfo, error) {
	coll, err := collection(d, collectionName)
	if err != nil {
		return nil, err
	}

	res, err := coll.DeleteOne(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "deleting document from '%s'", collectionName)
	}

	return &ChangeInfo{Removed: int(res.DeletedCount)}, nil
}

// Count runs a count command with the specified query against the collection.
func Count(ctx context.Context, d *mongo.Database, collectionName string, query any) (int, error) {
	coll, err := collection(d, collectionName)
	if err != nil {
		return 0, err
	}

	res, err := coll.CountDocuments(ctx, query)
	return int(res), errors.Wrapf(err, "counting documents in '%s'", collectionName)
}

// ClearCollections clears all documents from all the specified collections,
// returning an error immediately if clearing any one of them fails.
func ClearCollections(ctx context.Context, d *mongo.Database, collections ...string) error {
	for _, name := range collections {
		coll, err := collection(d, name)
		if err != nil {
			return err
		}
		if _, err = coll.DeleteMany(ctx, bson.M{}); err != nil {
			return errors.Wrapf(err, "clearing collection '%s'", name)
		}
	}

	grip.Debug(message.Fields{
		"message":     "cleared collections",
		"collections": collections,
	})

	return nil
}
