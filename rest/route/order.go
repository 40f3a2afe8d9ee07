package route

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/model/order"
	"github.com/toyland-demo/toyland/rest/data"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

///////////////////////////////////////////////////////////////////////////////
//
// GET /orders

type ordersGetHandler struct {
	sc data.Connector
}

func makeFetchOrders(sc data.Connector) gimlet.RouteHandler {
	return &ordersGetHandler{sc: sc}
}

func (h *ordersGetHandler) Factory() gimlet.RouteHandler {
	return &ordersGetHandler{sc: h.sc}
}

func (h *ordersGetHandler) Parse(ctx context.Context, r *http.Request) error { return nil }

func (h *ordersGetHandler) Run(ctx context.Context) gimlet.Responder {
	orders, err := h.sc.FindAllOrders(ctx)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "finding orders"))
	}

	docs, err := buildDocuments(orders)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	return gimlet.NewJSONResponse(docs)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /orders/{email}

type ordersByEmailGetHandler struct {
	email string

	sc data.Connector
}

func makeFetchOrdersByEmail(sc data.Connector) gimlet.RouteHandler {
	return &ordersByEmailGetHandler{sc: sc}
}

func (h *ordersByEmailGetHandler) Factory() gimlet.RouteHandler {
	return &ordersByEmailGetHandler{sc: h.sc}
}

func (h *ordersByEmailGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.email = gimlet.GetVars(r)["email"]
	return nil
}

func (h *ordersByEmailGetHandler) Run(ctx context.Context) gimlet.Responder {
	orders, err := h.sc.FindOrdersByEmail(ctx, h.email)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "finding orders for '%s'", h.email))
	}

	docs, err := buildDocuments(orders)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	return gimlet.NewJSONResponse(docs)
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /orders

type orderPostHandler struct {
	order order.Order

	sc data.Connector
}

func makeCreateOrder(sc data.Connector) gimlet.RouteHandler {
	return &orderPostHandler{sc: sc}
}

func (h *orderPostHandler) Factory() gimlet.RouteHandler {
	return &orderPostHandler{sc: h.sc}
}

func (h *orderPostHandler) Parse(ctx context.Context, r *http.Request) error {
	_, err := decodeDocument(r, &h.order, "order")
	return err
}

func (h *orderPostHandler) Run(ctx context.Context) gimlet.Responder {
	if err := h.sc.CreateOrder(ctx, &h.order); err != nil {
		return writeErrorResponder(errors.Wrap(err, "creating order"))
	}

	return insertResponder(h.order.Id)
}

///////////////////////////////////////////////////////////////////////////////
//
// PATCH /orders/{order_id}

type orderPatchHandler struct {
	orderId primitive.ObjectID
	fields  map[string]any

	sc data.Connector
}

func makeUpdateOrder(sc data.Connector) gimlet.RouteHandler {
	return &orderPatchHandler{sc: sc}
}

func (h *orderPatchHandler) Factory() gimlet.RouteHandler {
	return &orderPatchHandler{sc: h.sc}
}

func (h *orderPatchHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	if h.orderId, err = parseIdVar(r, "order_id"); err != nil {
		return err
	}

	// the decoded order is only used to check the field types
	doc, err := decodeDocument(r, &order.Order{}, "order update")
	if err != nil {
		return err
	}
	if len(doc) == 0 {
		return gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "order update must name at least one field",
		}
	}
	h.fields = doc.Fields()

	return nil
}

func (h *orderPatchHandler) Run(ctx context.Context) gimlet.Responder {
	info, err := h.sc.UpdateOrder(ctx, h.orderId, h.fields)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "updating order '%s'", h.orderId.Hex()))
	}

	return updateResponder(info)
}

///////////////////////////////////////////////////////////////////////////////
//
// DELETE /orders/{order_id}

type orderDeleteHandler struct {
	orderId primitive.ObjectID

	sc data.Connector
}

func makeDeleteOrder(sc data.Connector) gimlet.RouteHandler {
	return &orderDeleteHandler{sc: sc}
}

func (h *orderDeleteHandler) Factory() gimlet.RouteHandler {
	return &orderDeleteHandler{sc: h.sc}
}

func (h *orderDeleteHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	h.orderId, err = parseIdVar(r, "order_id")
	return err
}

func (h *orderDeleteHandler) Run(ctx context.Context) gimlet.Responder {
	info, err := h.sc.DeleteOrder(ctx, h.orderId)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "deleting order '%s'", h.orderId.Hex()))
	}

	return deleteResponder(info)
}
