package data

import (
	"context"
	"maps"
	"sync"

	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/db"
	"github.com/toyland-demo/toyland/model/order"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBOrderConnector is a struct that implements the Order related methods
// from the Connector through interactions with the backing database.
type DBOrderConnector struct {
	DB *mongo.Database
}

func (oc *DBOrderConnector) FindAllOrders(ctx context.Context) ([]order.Order, error) {
	return order.Find(ctx, oc.DB, order.All)
}

func (oc *DBOrderConnector) FindOrdersByEmail(ctx context.Context, email string) ([]order.Order, error) {
	return order.FindByEmail(ctx, oc.DB, email)
}

func (oc *DBOrderConnector) CreateOrder(ctx context.Context, o *order.Order) error {
	return o.Insert(ctx, oc.DB)
}

func (oc *DBOrderConnector) UpdateOrder(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*db.ChangeInfo, error) {
	return order.UpdateFields(ctx, oc.DB, id, fields)
}

func (oc *DBOrderConnector) DeleteOrder(ctx context.Context, id primitive.ObjectID) (*db.ChangeInfo, error) {
	return order.Remove(ctx, oc.DB, id)
}

// MockOrderConnector is a struct that implements the Order related methods
// from the Connector through interactions with an in-memory slice.
type MockOrderConnector struct {
	mu           sync.RWMutex
	CachedOrders []order.Order
	StoredError  error
}

func copyOrder(o order.Order) order.Order {
	o.Fields = maps.Clone(o.Fields)
	return o
}

func (moc *MockOrderConnector) FindAllOrders(_ context.Context) ([]order.Order, error) {
	return moc.findOrders(func(order.Order) bool { return true })
}

func (moc *MockOrderConnector) FindOrdersByEmail(_ context.Context, email string) ([]order.Order, error) {
	return moc.findOrders(func(o order.Order) bool { return o.Email == email })
}

func (moc *MockOrderConnector) findOrders(match func(order.Order) bool) ([]order.Order, error) {
	moc.mu.RLock()
	defer moc.mu.RUnlock()

	if moc.StoredError != nil {
		return nil, moc.StoredError
	}

	out := []order.Order{}
	for _, o := range moc.CachedOrders {
		if match(o) {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (moc *MockOrderConnector) CreateOrder(_ context.Context, o *order.Order) error {
	moc.mu.Lock()
	defer moc.mu.Unlock()

	if moc.StoredError != nil {
		return moc.StoredError
	}

	if o.Id.IsZero() {
		o.Id = primitive.NewObjectID()
	}
	moc.CachedOrders = append(moc.CachedOrders, copyOrder(*o))
	return nil
}

func (moc *MockOrderConnector) UpdateOrder(_ context.Context, id primitive.ObjectID, fields map[string]any) (*db.ChangeInfo, error) {
	moc.mu.Lock()
	defer moc.mu.Unlock()

	if moc.StoredError != nil {
		return nil, moc.StoredError
	}
	if len(fields) == 0 {
		return nil, errors.New("no fields to update")
	}

	for i := range moc.CachedOrders {
		if moc.CachedOrders[i].Id != id {
			continue
		}

		updated := order.Order{}
		modified, err := mergeFields(moc.CachedOrders[i], fields, &updated)
		if err != nil {
			return nil, errors.Wrapf(err, "updating order '%s'", id.Hex())
		}
		updated.Id = id
		moc.CachedOrders[i] = updated

		info := &db.ChangeInfo{Matched: 1}
		if modified {
			info.Updated = 1
		}
		return info, nil
	}

	return &db.ChangeInfo{}, nil
}

func (moc *MockOrderConnector) DeleteOrder(_ context.Context, id primitive.ObjectID) (*db.ChangeInfo, error) {
	moc.mu.Lock()
	defer moc.mu.Unlock()

	if moc.StoredError != nil {
		return nil, moc.StoredError
	}

	for i, o := range moc.CachedOrders {
		if o.Id == id {
			moc.CachedOrders = append(moc.CachedOrders[:i], moc.CachedOrders[i+1:]...)
			return &db.ChangeInfo{Removed: 1}, nil
		}
	}
	return &db.ChangeInfo{}, nil
}
