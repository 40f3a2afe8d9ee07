package route

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
	"github.com/toyland-demo/toyland"
	"github.com/toyland-demo/toyland/model/user"
	"github.com/toyland-demo/toyland/rest/data"
	"github.com/toyland-demo/toyland/rest/model"
)

var errMissingEmail = gimlet.ErrorResponse{
	StatusCode: http.StatusBadRequest,
	Message:    "request body must include a non-empty 'email'",
}

///////////////////////////////////////////////////////////////////////////////
//
// GET /users/{email}

// userAdminGetHandler reports whether a user is an admin. The role is not
// enforced on any route.
type userAdminGetHandler struct {
	email string

	sc data.Connector
}

func makeFetchUserAdminStatus(sc data.Connector) gimlet.RouteHandler {
	return &userAdminGetHandler{sc: sc}
}

func (h *userAdminGetHandler) Factory() gimlet.RouteHandler {
	return &userAdminGetHandler{sc: h.sc}
}

func (h *userAdminGetHandler) Parse(ctx context.Context, r *http.Request) error {
	h.email = gimlet.GetVars(r)["email"]
	return nil
}

func (h *userAdminGetHandler) Run(ctx context.Context) gimlet.Responder {
	u, err := h.sc.FindUserByEmail(ctx, h.email)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "finding user '%s'", h.email))
	}

	return gimlet.NewJSONResponse(model.APIAdminStatus{Admin: u.IsAdmin()})
}

///////////////////////////////////////////////////////////////////////////////
//
// POST /users

type userPostHandler struct {
	user user.DBUser

	sc data.Connector
}

func makeCreateUser(sc data.Connector) gimlet.RouteHandler {
	return &userPostHandler{sc: sc}
}

func (h *userPostHandler) Factory() gimlet.RouteHandler {
	return &userPostHandler{sc: h.sc}
}

func (h *userPostHandler) Parse(ctx context.Context, r *http.Request) error {
	_, err := decodeDocument(r, &h.user, "user")
	return err
}

func (h *userPostHandler) Run(ctx context.Context) gimlet.Responder {
	if err := h.sc.CreateUser(ctx, &h.user); err != nil {
		return writeErrorResponder(errors.Wrap(err, "creating user"))
	}

	return insertResponder(h.user.Id)
}

///////////////////////////////////////////////////////////////////////////////
//
// PUT /users

type userPutHandler struct {
	user user.DBUser

	sc data.Connector
}

func makeUpsertUser(sc data.Connector) gimlet.RouteHandler {
	return &userPutHandler{sc: sc}
}

func (h *userPutHandler) Factory() gimlet.RouteHandler {
	return &userPutHandler{sc: h.sc}
}

func (h *userPutHandler) Parse(ctx context.Context, r *http.Request) error {
	if _, err := decodeDocument(r, &h.user, "user"); err != nil {
		return err
	}
	if h.user.Email() == "" {
		return errMissingEmail
	}

	return nil
}

func (h *userPutHandler) Run(ctx context.Context) gimlet.Responder {
	info, err := h.sc.UpsertUser(ctx, &h.user)
	if err != nil {
		return writeErrorResponder(errors.Wrapf(err, "upserting user '%s'", h.user.Email()))
	}

	return updateResponder(info)
}

///////////////////////////////////////////////////////////////////////////////
//
// PUT /users/admin

type userAdminPutHandler struct {
	email string

	sc data.Connector
}

func makeGrantAdmin(sc data.Connector) gimlet.RouteHandler {
	return &userAdminPutHandler{sc: sc}
}

func (h *userAdminPutHandler) Factory() gimlet.RouteHandler {
	return &userAdminPutHandler{sc: h.sc}
}

func (h *userAdminPutHandler) Parse(ctx context.Context, r *http.Request) error {
	u := user.DBUser{}
	if _, err := decodeDocument(r, &u, "user"); err != nil {
		return err
	}
	if u.Email() == "" {
		return errMissingEmail
	}
	h.email = u.Email()

	return nil
}

func (h *userAdminPutHandler) Run(ctx context.Context) gimlet.Responder {
	info, err := h.sc.SetUserRole(ctx, h.email, toyland.AdminRole)
	if err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "granting admin role to '%s'", h.email))
	}

	return updateResponder(info)
}
