package data

import (
	"context"
	"maps"
	"sync"

	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/db"
	"github.com/toyland-demo/toyland/model/document"
	"github.com/toyland-demo/toyland/model/user"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBUserConnector is a struct that implements the User related interface
// of the Connector interface through interactions with the backing database.
type DBUserConnector struct {
	DB *mongo.Database
}

// FindUserByEmail uses the service layer's user type to query the backing
// database for a user with the given email.
func (uc *DBUserConnector) FindUserByEmail(ctx context.Context, email string) (*user.DBUser, error) {
	return user.FindOneByEmail(ctx, uc.DB, email)
}

func (uc *DBUserConnector) CreateUser(ctx context.Context, u *user.DBUser) error {
	return u.Insert(ctx, uc.DB)
}

func (uc *DBUserConnector) UpsertUser(ctx context.Context, u *user.DBUser) (*db.ChangeInfo, error) {
	return u.Upsert(ctx, uc.DB)
}

func (uc *DBUserConnector) SetUserRole(ctx context.Context, email, role string) (*db.ChangeInfo, error) {
	return user.SetRole(ctx, uc.DB, email, role)
}

// MockUserConnector stores users in memory.
type MockUserConnector struct {
	mu          sync.RWMutex
	CachedUsers []user.DBUser
	StoredError error
}

func copyUser(u user.DBUser) user.DBUser {
	u.Fields = maps.Clone(u.Fields)
	return u
}

func (muc *MockUserConnector) FindUserByEmail(_ context.Context, email string) (*user.DBUser, error) {
	muc.mu.RLock()
	defer muc.mu.RUnlock()

	if muc.StoredError != nil {
		return nil, muc.StoredError
	}

	for _, u := range muc.CachedUsers {
		if u.EmailAddress == email {
			found := copyUser(u)
			return &found, nil
		}
	}
	return nil, nil
}

func (muc *MockUserConnector) CreateUser(_ context.Context, u *user.DBUser) error {
	muc.mu.Lock()
	defer muc.mu.Unlock()

	if muc.StoredError != nil {
		return muc.StoredError
	}

	if u.Id.IsZero() {
		u.Id = primitive.NewObjectID()
	}
	muc.CachedUsers = append(muc.CachedUsers, copyUser(*u))
	return nil
}

func (muc *MockUserConnector) UpsertUser(_ context.Context, u *user.DBUser) (*db.ChangeInfo, error) {
	muc.mu.Lock()
	defer muc.mu.Unlock()

	if muc.StoredError != nil {
		return nil, muc.StoredError
	}
	if u.EmailAddress == "" {
		return nil, errors.New("cannot upsert a user without an email")
	}

	for i := range muc.CachedUsers {
		if muc.CachedUsers[i].EmailAddress != u.EmailAddress {
			continue
		}

		fields, err := document.Fields(u)
		if err != nil {
			return nil, errors.Wrap(err, "getting user fields")
		}

		updated := user.DBUser{}
		modified, err := mergeFields(muc.CachedUsers[i], fields, &updated)
		if err != nil {
			return nil, errors.Wrapf(err, "upserting user '%s'", u.EmailAddress)
		}
		updated.Id = muc.CachedUsers[i].Id
		muc.CachedUsers[i] = updated

		info := &db.ChangeInfo{Matched: 1}
		if modified {
			info.Updated = 1
		}
		return info, nil
	}

	created := copyUser(*u)
	created.Id = primitive.NewObjectID()
	muc.CachedUsers = append(muc.CachedUsers, created)

	return &db.ChangeInfo{Upserted: 1, UpsertedId: created.Id}, nil
}

func (muc *MockUserConnector) SetUserRole(_ context.Context, email, role string) (*db.ChangeInfo, error) {
	muc.mu.Lock()
	defer muc.mu.Unlock()

	if muc.StoredError != nil {
		return nil, muc.StoredError
	}

	for i := range muc.CachedUsers {
		if muc.CachedUsers[i].EmailAddress != email {
			continue
		}

		info := &db.ChangeInfo{Matched: 1}
		if muc.CachedUsers[i].Role != role {
			muc.CachedUsers[i].Role = role
			info.Updated = 1
		}
		return info, nil
	}

	return &db.ChangeInfo{}, nil
}
