package route

import (
	"fmt"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland/db"
	"github.com/toyland-demo/toyland/model/document"
	"github.com/toyland-demo/toyland/rest/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// readDocument reads the request body as a single JSON object.
func readDocument(r *http.Request) (model.APIDocument, error) {
	doc := model.APIDocument{}
	if err := utility.ReadJSON(utility.NewRequestReader(r), &doc); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, gimlet.ErrorResponse{
				StatusCode: http.StatusRequestEntityTooLarge,
				Message:    fmt.Sprintf("request body is larger than %d bytes", tooLarge.Limit),
			}
		}
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrap(err, "reading JSON request body").Error(),
		}
	}
	if doc == nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "request body must be a JSON object",
		}
	}

	return doc, nil
}

// decodeDocument reads the request body onto the entity out points to.
func decodeDocument(r *http.Request, out any, kind string) (model.APIDocument, error) {
	doc, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	if err = doc.ToService(out); err != nil {
		return nil, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    errors.Wrapf(err, "invalid %s", kind).Error(),
		}
	}

	return doc, nil
}

func parseIdVar(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := document.ParseId(gimlet.GetVars(r)[name])
	if err != nil {
		return primitive.NilObjectID, gimlet.ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return id, nil
}

func buildDocuments[T any](entities []T) ([]model.APIDocument, error) {
	out := make([]model.APIDocument, 0, len(entities))
	for i := range entities {
		doc := model.APIDocument{}
		if err := doc.BuildFromService(&entities[i]); err != nil {
			return nil, errors.Wrap(err, "converting document to API model")
		}
		out = append(out, doc)
	}

	return out, nil
}

func insertResponder(id primitive.ObjectID) gimlet.Responder {
	res := model.APIInsertResult{}
	if err := res.BuildFromService(id); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "converting insert result to API model"))
	}

	responder, err := gimlet.NewBasicResponder(http.StatusCreated, gimlet.JSON, res)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "constructing response"))
	}

	return responder
}

func updateResponder(info any) gimlet.Responder {
	res := model.APIUpdateResult{}
	if err := res.BuildFromService(info); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "converting update result to API model"))
	}

	return gimlet.NewJSONResponse(res)
}

func deleteResponder(info any) gimlet.Responder {
	res := model.APIDeleteResult{}
	if err := res.BuildFromService(info); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrap(err, "converting delete result to API model"))
	}

	return gimlet.NewJSONResponse(res)
}

// writeErrorResponder reports a failed write, distinguishing the failures
// the client can act on from storage faults.
func writeErrorResponder(err error) gimlet.Responder {
	switch {
	case db.IsDuplicateKey(err):
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusConflict,
			Message:    err.Error(),
		})
	case db.IsDocumentLimit(err):
		return gimlet.MakeJSONErrorResponder(gimlet.ErrorResponse{
			StatusCode: http.StatusRequestEntityTooLarge,
			Message:    err.Error(),
		})
	default:
		return gimlet.MakeJSONInternalErrorResponder(err)
	}
}
