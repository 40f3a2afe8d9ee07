package user

import (
	"context"

	"github.com/mongodb/anser/bsonutil"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland"
	"github.com/toyland-demo/toyland/db"
	"github.com/toyland-demo/toyland/model/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// Collection is the name of the MongoDB collection that stores users.
	Collection = "users"
)

// DBUser is a customer account. Users are keyed by email by convention;
// nothing stops two users from sharing one.
type DBUser struct {
	Id           primitive.ObjectID `bson:"_id,omitempty" mapstructure:"_id"`
	EmailAddress string             `bson:"email,omitempty" mapstructure:"email"`
	Role         string             `bson:"role,omitempty" mapstructure:"role"`
	Fields       map[string]any     `bson:",inline" mapstructure:",remain"`
}

// UnmarshalBSON reads a user written by any client. A non-string email or
// role is kept with the other fields rather than failing the read.
func (u *DBUser) UnmarshalBSON(data []byte) error {
	stored := struct {
		Id     primitive.ObjectID `bson:"_id,omitempty"`
		Email  bson.RawValue      `bson:"email,omitempty"`
		Role   bson.RawValue      `bson:"role,omitempty"`
		Fields map[string]any     `bson:",inline"`
	}{}
	if err := bson.Unmarshal(data, &stored); err != nil {
		return errors.Wrap(err, "decoding user")
	}

	email, err := document.KnownString(stored.Email, EmailKey, &stored.Fields)
	if err != nil {
		return errors.Wrap(err, "decoding user")
	}
	role, err := document.KnownString(stored.Role, RoleKey, &stored.Fields)
	if err != nil {
		return errors.Wrap(err, "decoding user")
	}

	*u = DBUser{Id: stored.Id, EmailAddress: email, Role: role, Fields: stored.Fields}
	return nil
}

// MarshalBSON writes the user with its email and role ahead of the other
// fields.
func (u DBUser) MarshalBSON() ([]byte, error) {
	return document.Marshal(u.Id, bson.D{{Key: EmailKey, Value: u.EmailAddress}, {Key: RoleKey, Value: u.Role}}, u.Fields)
}

var (
	IdKey    = bsonutil.MustHaveTag(DBUser{}, "Id")
	EmailKey = bsonutil.MustHaveTag(DBUser{}, "EmailAddress")
	RoleKey  = bsonutil.MustHaveTag(DBUser{}, "Role")
)

func (u *DBUser) Email() string { return u.EmailAddress }

// IsAdmin reports whether the user holds the admin role. A nil user is not
// an admin.
func (u *DBUser) IsAdmin() bool { return u != nil && u.Role == toyland.AdminRole }

// ById returns a query that matches the user with the given id.
func ById(id primitive.ObjectID) bson.M {
	return bson.M{IdKey: id}
}

// ByEmail returns a query that matches users with the email.
func ByEmail(email string) bson.M {
	return bson.M{EmailKey: email}
}

// FindOne returns the user matching the query, or nil if there is none.
func FindOne(ctx context.Context, d *mongo.Database, query bson.M) (*DBUser, error) {
	u := &DBUser{}
	err := db.FindOne(ctx, d, Collection, query, u)
	if db.ResultsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}

	return u, nil
}

func FindOneByEmail(ctx context.Context, d *mongo.Database, email string) (*DBUser, error) {
	return FindOne(ctx, d, ByEmail(email))
}

// Insert stores the user, assigning it a new id unless it has one.
func (u *DBUser) Insert(ctx context.Context, d *mongo.Database) error {
	if u.Id.IsZero() {
		u.Id = primitive.NewObjectID()
	}

	_, err := db.Insert(ctx, d, Collection, u)
	return errors.Wrapf(err, "inserting user '%s'", u.Id.Hex())
}

// Upsert sets the user's fields on the user with the same email, creating
// that user when there is none. Stored fields the user does not carry are
// kept.
func (u *DBUser) Upsert(ctx context.Context, d *mongo.Database) (*db.ChangeInfo, error) {
	if u.EmailAddress == "" {
		return nil, errors.New("cannot upsert a user without an email")
	}

	fields, err := document.Fields(u)
	if err != nil {
		return nil, errors.Wrap(err, "getting user fields")
	}

	info, err := db.Upsert(ctx, d, Collection, ByEmail(u.EmailAddress), bson.M{"$set": fields})
	if err != nil {
		return nil, errors.Wrapf(err, "upserting user '%s'", u.EmailAddress)
	}

	return info, nil
}

// SetRole sets the role of the user with the email. No user is created if
// none matches.
func SetRole(ctx context.Context, d *mongo.Database, email, role string) (*db.ChangeInfo, error) {
	info, err := db.Update(ctx, d, Collection, ByEmail(email), bson.M{"$set": bson.M{RoleKey: role}})
	if err != nil {
		return nil, errors.Wrapf(err, "setting role for user '%s'", email)
	}

	return info, nil
}
