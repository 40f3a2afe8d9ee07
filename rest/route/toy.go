package route

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/model/toy"
	"github.com/toyland-demo/toyland/rest/data"
	"github.com/toyland-demo/toyland/rest/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

///////////////////////////////////////////////////////////////////////////////
//
// GET /toys

type toysGetHandler struct {
	sc data.Connector
}

func makeFetchToys(sc data.Connector) gimlet.RouteHandler {
	return &toysGetHandler{sc: sc}
}

func (h *toysGetHandler) Factory() gimlet.RouteHandler {
	return &toysGetHandler{sc: h.sc}
}

func (h *toysGetHandler) Parse(ctx context.Context, r *http.Request) error { return nil }

func (h *toysGetHandler) Run(ctx context.Context) gimlet.Responder {
	toys, err := h.sc.FindAllToys(ctx)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "finding toys"))
	}

	docs, err := buildDocuments(toys)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	return gimlet.NewJSONResponse(docs)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /toys/{toy_id}

type toyGetHandler struct {
	toyId primitive.ObjectID

	sc data.Connector
}

func makeFetchToy(sc data.Connector) gimlet.RouteHandler {
	return &toyGetHandler{sc: sc}
}

func (h *toyGetHandler) Factory() gimlet.RouteHandler {
	return &toyGetHandler{sc: h.sc}
}

func (h *toyGetHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	h.toyId, err = parseIdVar(r, "toy_id")
	return err
}

func (h *toyGetHandler) Run(ctx context.Context) gimlet.Responder {
	t, err := h.sc.FindToyById(ctx, h.toyId)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "finding toy '%s'", h.toyId.Hex()))
	}
	if t == nil {
		return gimlet.NewJSONResponse(nil)
	}

	doc := model.APIDocument{}
	if err = doc.BuildFromService(t); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "converting toy to API model"))
	}

	return gimlet.NewJSONResponse(doc)
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /toys

type toyPostHandler struct {
	toy toy.Toy

	sc data.Connector
}

func makeCreateToy(sc data.Connector) gimlet.RouteHandler {
	return &toyPostHandler{sc: sc}
}

func (h *toyPostHandler) Factory() gimlet.RouteHandler {
	return &toyPostHandler{sc: h.sc}
}

func (h *toyPostHandler) Parse(ctx context.Context, r *http.Request) error {
	_, err := decodeDocument(r, &h.toy, "toy")
	return err
}

func (h *toyPostHandler) Run(ctx context.Context) gimlet.Responder {
	if err := h.sc.CreateToy(ctx, &h.toy); err != nil {
		return writeErrorResponder(errors.Wrap(err, "creating toy"))
	}

	return insertResponder(h.toy.Id)
}

///////////////////////////////////////////////////////////////////////////////
//
// DELETE /toys/{toy_id}

type toyDeleteHandler struct {
	toyId primitive.ObjectID

	sc data.Connector
}

func makeDeleteToy(sc data.Connector) gimlet.RouteHandler {
	return &toyDeleteHandler{sc: sc}
}

func (h *toyDeleteHandler) Factory() gimlet.RouteHandler {
	return &toyDeleteHandler{sc: h.sc}
}

func (h *toyDeleteHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	h.toyId, err = parseIdVar(r, "toy_id")
	return err
}

func (h *toyDeleteHandler) Run(ctx context.Context) gimlet.Responder {
	info, err := h.sc.DeleteToy(ctx, h.toyId)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "deleting toy '%s'", h.toyId.Hex()))
	}

	return deleteResponder(info)
}
