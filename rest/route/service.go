package route

import (
	"github.com/evergreen-ci/gimlet"
	"github.com/toyland-demo/toyland/rest/data"
)

// HandlerOpts carries what the route handlers need from the service.
type HandlerOpts struct {
	Connector data.Connector
	// Port is the port the service listens on, reported by the banner.
	Port int
}

// AttachHandler registers every toyland route on the app.
func AttachHandler(app *gimlet.APIApp, opts HandlerOpts) {
	sc := opts.Connector

	app.AddRoute("/").Get().RouteHandler(makeBanner(opts.Port))

	app.AddRoute("/toys").Get().RouteHandler(makeFetchToys(sc))
	app.AddRoute("/toys").Post().RouteHandler(makeCreateToy(sc))
	app.AddRoute("/toys/{toy_id}").Get().RouteHandler(makeFetchToy(sc))
	app.AddRoute("/toys/{toy_id}").Delete().RouteHandler(makeDeleteToy(sc))

	app.AddRoute("/reviews").Get().RouteHandler(makeFetchReviews(sc))
	app.AddRoute("/reviews").Post().RouteHandler(makeCreateReview(sc))
	app.AddRoute("/reviews/{review_id}").Get().RouteHandler(makeFetchReview(sc))

	app.AddRoute("/orders").Get().RouteHandler(makeFetchOrders(sc))
	app.AddRoute("/orders").Post().RouteHandler(makeCreateOrder(sc))
	app.AddRoute("/orders/{email}").Get().RouteHandler(makeFetchOrdersByEmail(sc))
	app.AddRoute("/orders/{order_id}").Patch().RouteHandler(makeUpdateOrder(sc))
	app.AddRoute("/orders/{order_id}").Delete().RouteHandler(makeDeleteOrder(sc))

	app.AddRoute("/users").Post().RouteHandler(makeCreateUser(sc))
	app.AddRoute("/users").Put().RouteHandler(makeUpsertUser(sc))
	app.AddRoute("/users/admin").Put().RouteHandler(makeGrantAdmin(sc))
	app.AddRoute("/users/{email}").Get().RouteHandler(makeFetchUserAdminStatus(sc))
}
