package data

import (
	"context"

	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/db"
	"github.com/toyland-demo/toyland/model/order"
	"github.com/toyland-demo/toyland/model/review"
	"github.com/toyland-demo/toyland/model/toy"
	"github.com/toyland-demo/toyland/model/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
)

// Collections lists every collection the service stores documents in.
var Collections = []string{
	toy.Collection,
	review.Collection,
	order.Collection,
	user.Collection,
}

// CollectionCount is the number of documents stored in one collection.
type CollectionCount struct {
	Collection string
	Count      int
}

// CountCollections counts the documents in each of the service's
// collections.
func CountCollections(ctx context.Context, d *mongo.Database) ([]CollectionCount, error) {
	ctx, span := tracer.Start(ctx, "CountCollections")
	defer span.End()

	out := make([]CollectionCount, 0, len(Collections))
	for _, name := range Collections {
		count, err := db.Count(ctx, d, name, bson.M{})
		if err != nil {
			return nil, errors.Wrapf(err, "counting '%s'", name)
		}
		span.SetAttributes(attribute.Int(packageName+".count."+name, count))
		out = append(out, CollectionCount{Collection: name, Count: count})
	}

	return out, nil
}
