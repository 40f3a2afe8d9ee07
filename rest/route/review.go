package route

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/model/review"
	"github.com/toyland-demo/toyland/rest/data"
	"github.com/toyland-demo/toyland/rest/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

///////////////////////////////////////////////////////////////////////////////
//
// GET /reviews

type reviewsGetHandler struct {
	sc data.Connector
}

func makeFetchReviews(sc data.Connector) gimlet.RouteHandler {
	return &reviewsGetHandler{sc: sc}
}

func (h *reviewsGetHandler) Factory() gimlet.RouteHandler {
	return &reviewsGetHandler{sc: h.sc}
}

func (h *reviewsGetHandler) Parse(ctx context.Context, r *http.Request) error { return nil }

func (h *reviewsGetHandler) Run(ctx context.Context) gimlet.Responder {
	reviews, err := h.sc.FindAllReviews(ctx)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "finding reviews"))
	}

	docs, err := buildDocuments(reviews)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(err)
	}

	return gimlet.NewJSONResponse(docs)
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /reviews/{review_id}

type reviewGetHandler struct {
	reviewId primitive.ObjectID

	sc data.Connector
}

func makeFetchReview(sc data.Connector) gimlet.RouteHandler {
	return &reviewGetHandler{sc: sc}
}

func (h *reviewGetHandler) Factory() gimlet.RouteHandler {
	return &reviewGetHandler{sc: h.sc}
}

func (h *reviewGetHandler) Parse(ctx context.Context, r *http.Request) error {
	var err error
	h.reviewId, err = parseIdVar(r, "review_id")
	return err
}

func (h *reviewGetHandler) Run(ctx context.Context) gimlet.Responder {
	rv, err := h.sc.FindReviewById(ctx, h.reviewId)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "finding review '%s'", h.reviewId.Hex()))
	}
	if rv == nil {
		return gimlet.NewJSONResponse(nil)
	}

	doc := model.APIDocument{}
	if err = doc.BuildFromService(rv); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "converting review to API model"))
	}

	return gimlet.NewJSONResponse(doc)
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /reviews

type reviewPostHandler struct {
	review review.Review

	sc data.Connector
}

func makeCreateReview(sc data.Connector) gimlet.RouteHandler {
	return &reviewPostHandler{sc: sc}
}

func (h *reviewPostHandler) Factory() gimlet.RouteHandler {
	return &reviewPostHandler{sc: h.sc}
}

func (h *reviewPostHandler) Parse(ctx context.Context, r *http.Request) error {
	_, err := decodeDocument(r, &h.review, "review")
	return err
}

func (h *reviewPostHandler) Run(ctx context.Context) gimlet.Responder {
	if err := h.sc.CreateReview(ctx, &h.review); err != nil {
		return writeErrorResponder(errors.Wrap(err, "creating review"))
	}

	return insertResponder(h.review.Id)
}
