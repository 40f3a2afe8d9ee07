package data

import (
	"context"
	"maps"
	"sync"

	"github.com/toyland-demo/toyland/model/review"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBReviewConnector is a struct that implements the Review related methods
// from the Connector through interactions with the backing database.
type DBReviewConnector struct {
	DB *mongo.Database
}

func (rc *DBReviewConnector) FindAllReviews(ctx context.Context) ([]review.Review, error) {
	return review.Find(ctx, rc.DB, review.All)
}

func (rc *DBReviewConnector) FindReviewById(ctx context.Context, id primitive.ObjectID) (*review.Review, error) {
	return review.FindOneId(ctx, rc.DB, id)
}

func (rc *DBReviewConnector) CreateReview(ctx context.Context, r *review.Review) error {
	return r.Insert(ctx, rc.DB)
}

// MockReviewConnector stores reviews in memory.
type MockReviewConnector struct {
	mu            sync.RWMutex
	CachedReviews []review.Review
	StoredError   error
}

func (mrc *MockReviewConnector) FindAllReviews(_ context.Context) ([]review.Review, error) {
	mrc.mu.RLock()
	defer mrc.mu.RUnlock()

	if mrc.StoredError != nil {
		return nil, mrc.StoredError
	}

	out := make([]review.Review, 0, len(mrc.CachedReviews))
	for _, r := range mrc.CachedReviews {
		r.Fields = maps.Clone(r.Fields)
		out = append(out, r)
	}
	return out, nil
}

func (mrc *MockReviewConnector) FindReviewById(_ context.Context, id primitive.ObjectID) (*review.Review, error) {
	mrc.mu.RLock()
	defer mrc.mu.RUnlock()

	if mrc.StoredError != nil {
		return nil, mrc.StoredError
	}

	for _, r := range mrc.CachedReviews {
		if r.Id == id {
			r.Fields = maps.Clone(r.Fields)
			return &r, nil
		}
	}
	return nil, nil
}

func (mrc *MockReviewConnector) CreateReview(_ context.Context, r *review.Review) error {
	mrc.mu.Lock()
	defer mrc.mu.Unlock()

	if mrc.StoredError != nil {
		return mrc.StoredError
	}

	if r.Id.IsZero() {
		r.Id = primitive.NewObjectID()
	}
	stored := *r
	stored.Fields = maps.Clone(r.Fields)
	mrc.CachedReviews = append(mrc.CachedReviews, stored)
	return nil
}
