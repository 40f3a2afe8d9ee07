package data

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/toyland-demo/toyland/db"
	"github.com/toyland-demo/toyland/model/toy"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBToyConnector is a struct that implements the Toy related methods
// from the Connector through interactions with the backing database.
type DBToyConnector struct {
	DB *mongo.Database
}

func (tc *DBToyConnector) FindAllToys(ctx context.Context) ([]toy.Toy, error) {
	return toy.Find(ctx, tc.DB, toy.All)
}

func (tc *DBToyConnector) FindToyById(ctx context.Context, id primitive.ObjectID) (*toy.Toy, error) {
	return toy.FindOneId(ctx, tc.DB, id)
}

func (tc *DBToyConnector) CreateToy(ctx context.Context, t *toy.Toy) error {
	return t.Insert(ctx, tc.DB)
}

func (tc *DBToyConnector) DeleteToy(ctx context.Context, id primitive.ObjectID) (*db.ChangeInfo, error) {
	return toy.Remove(ctx, tc.DB, id)
}

// MockToyConnector is a struct that implements the Toy related methods
// from the Connector through interactions with an in-memory slice.
type MockToyConnector struct {
	mu          sync.RWMutex
	CachedToys  []toy.Toy
	StoredError error
}

func copyToy(t toy.Toy) toy.Toy {
	t.Fields = maps.Clone(t.Fields)
	return t
}

func (mtc *MockToyConnector) FindAllToys(_ context.Context) ([]toy.Toy, error) {
	mtc.mu.RLock()
	defer mtc.mu.RUnlock()

	if mtc.StoredError != nil {
		return nil, mtc.StoredError
	}

	out := make([]toy.Toy, 0, len(mtc.CachedToys))
	for _, t := range mtc.CachedToys {
		out = append(out, copyToy(t))
	}
	return out, nil
}

func (mtc *MockToyConnector) FindToyById(_ context.Context, id primitive.ObjectID) (*toy.Toy, error) {
	mtc.mu.RLock()
	defer mtc.mu.RUnlock()

	if mtc.StoredError != nil {
		return nil, mtc.StoredError
	}

	for _, t := range mtc.CachedToys {
		if t.Id == id {
			found := copyToy(t)
			return &found, nil
		}
	}
	return nil, nil
}

func (mtc *MockToyConnector) CreateToy(_ context.Context, t *toy.Toy) error {
	mtc.mu.Lock()
	defer mtc.mu.Unlock()

	if mtc.StoredError != nil {
		return mtc.StoredError
	}

	if t.Id.IsZero() {
		t.Id = primitive.NewObjectID()
	}
	for _, existing := range mtc.CachedToys {
		if existing.Id == t.Id {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
				Code:    11000,
				Message: fmt.Sprintf("E11000 duplicate key error collection: %s index: _id_ dup key: { _id: ObjectId('%s') }", toy.Collection, t.Id.Hex()),
			}}}
		}
	}
	mtc.CachedToys = append(mtc.CachedToys, copyToy(*t))
	return nil
}

func (mtc *MockToyConnector) DeleteToy(_ context.Context, id primitive.ObjectID) (*db.ChangeInfo, error) {
	mtc.mu.Lock()
	defer mtc.mu.Unlock()

	if mtc.StoredError != nil {
		return nil, mtc.StoredError
	}

	for i, t := range mtc.CachedToys {
		if t.Id == id {
			mtc.CachedToys = append(mtc.CachedToys[:i], mtc.CachedToys[i+1:]...)
			return &db.ChangeInfo{Removed: 1}, nil
		}
	}
	return &db.ChangeInfo{}, nil
}
