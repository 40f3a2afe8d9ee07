package data

import (
	"context"

	"github.com/toyland-demo/toyland/db"
	"github.com/toyland-demo/toyland/model/order"
	"github.com/toyland-demo/toyland/model/review"
	"github.com/toyland-demo/toyland/model/toy"
	"github.com/toyland-demo/toyland/model/user"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connector is the interface the route handlers use to reach the stored
// toys, reviews, orders and users. Each method performs exactly one
// storage operation.
type Connector interface {
	// FindAllToys returns every toy.
	FindAllToys(context.Context) ([]toy.Toy, error)
	// FindToyById returns the toy with the given id, or nil if there is
	// none.
	FindToyById(context.Context, primitive.ObjectID) (*toy.Toy, error)
	// CreateToy stores a new toy and sets its id.
	CreateToy(context.Context, *toy.Toy) error
	DeleteToy(context.Context, primitive.ObjectID) (*db.ChangeInfo, error)

	FindAllReviews(context.Context) ([]review.Review, error)
	FindReviewById(context.Context, primitive.ObjectID) (*review.Review, error)
	CreateReview(context.Context, *review.Review) error

	FindAllOrders(context.Context) ([]order.Order, error)
	// FindOrdersByEmail returns the orders whose email is exactly the
	// given string.
	FindOrdersByEmail(context.Context, string) ([]order.Order, error)
	CreateOrder(context.Context, *order.Order) error
	// UpdateOrder overwrites the named fields of an order, leaving the
	// rest of it untouched.
	UpdateOrder(context.Context, primitive.ObjectID, map[string]any) (*db.ChangeInfo, error)
	DeleteOrder(context.Context, primitive.ObjectID) (*db.ChangeInfo, error)

	// FindUserByEmail returns a user with the email, or nil if there is
	// none.
	FindUserByEmail(context.Context, string) (*user.DBUser, error)
	CreateUser(context.Context, *user.DBUser) error
	// UpsertUser sets the user's fields on the user with the same email,
	// creating one if none exists.
	UpsertUser(context.Context, *user.DBUser) (*db.ChangeInfo, error)
	// SetUserRole sets the role of an existing user; no user is created.
	SetUserRole(context.Context, string, string) (*db.ChangeInfo, error)
}
