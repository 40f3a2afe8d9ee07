package route

import (
	"context"
	"net/http"
	"testing"

	"github.com/evergreen-ci/gimlet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyland-demo/toyland"
	"github.com/toyland-demo/toyland/model/user"
	"github.com/toyland-demo/toyland/rest/data"
	"github.com/toyland-demo/toyland/rest/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fetchAdminStatus(ctx context.Context, t *testing.T, sc data.Connector, email string) model.APIAdminStatus {
	h := makeFetchUserAdminStatus(sc)
	req := gimlet.SetURLVars(newJSONRequest(t, http.MethodGet, "/users/"+email, ""), map[string]string{"email": email})
	require.NoError(t, h.Parse(ctx, req))
	resp := h.Run(ctx)
	require.Equal(t, http.StatusOK, resp.Status())

	status, ok := resp.Data().(model.APIAdminStatus)
	require.True(t, ok)
	return status
}

func TestUserRoutes(t *testing.T) {
	for tName, tCase := range map[string]func(ctx context.Context, t *testing.T, sc *data.MockConnector){
		"AdminStatusReflectsRole": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			sc.CachedUsers = []user.DBUser{
				{Id: primitive.NewObjectID(), EmailAddress: "boss@example.com", Role: toyland.AdminRole},
				{Id: primitive.NewObjectID(), EmailAddress: "kid@example.com", Role: "customer"},
				{Id: primitive.NewObjectID(), EmailAddress: "new@example.com"},
			}
			assert.True(t, fetchAdminStatus(ctx, t, sc, "boss@example.com").Admin)
			assert.False(t, fetchAdminStatus(ctx, t, sc, "kid@example.com").Admin)
			assert.False(t, fetchAdminStatus(ctx, t, sc, "new@example.com").Admin)
			assert.False(t, fetchAdminStatus(ctx, t, sc, "ghost@example.com").Admin)
		},
		"CreateStoresUser": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			h := makeCreateUser(sc)
			require.NoError(t, h.Parse(ctx, newJSONRequest(t, http.MethodPost, "/users", `{"email":"kid@example.com","name":"Kid"}`)))
			resp := h.Run(ctx)
			require.Equal(t, http.StatusCreated, resp.Status())
			require.Len(t, sc.CachedUsers, 1)
			assert.Equal(t, resp.Data().(model.APIInsertResult).InsertedId, sc.CachedUsers[0].Id.Hex())
		},
		"UpsertCreatesThenUpdates": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			h := makeUpsertUser(sc)
			require.NoError(t, h.Parse(ctx, newJSONRequest(t, http.MethodPut, "/users", `{"email":"kid@example.com","name":"Kid"}`)))
			res := h.Run(ctx).Data().(model.APIUpdateResult)
			assert.Equal(t, 1, res.UpsertedCount)
			require.NotNil(t, res.UpsertedId)
			assert.Equal(t, sc.CachedUsers[0].Id.Hex(), *res.UpsertedId)

			h = makeUpsertUser(sc)
			require.NoError(t, h.Parse(ctx, newJSONRequest(t, http.MethodPut, "/users", `{"email":"kid@example.com","name":"Grown Up"}`)))
			res = h.Run(ctx).Data().(model.APIUpdateResult)
			assert.Equal(t, 1, res.MatchedCount)
			assert.Equal(t, 1, res.ModifiedCount)
			assert.Zero(t, res.UpsertedCount)
			assert.Nil(t, res.UpsertedId)

			require.Len(t, sc.CachedUsers, 1)
			assert.Equal(t, "Grown Up", sc.CachedUsers[0].Fields["name"])
		},
		"UpsertRequiresEmail": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			for _, body := range []string{`{"name":"Kid"}`, `{"email":""}`, `{"email":7}`} {
				h := makeUpsertUser(sc)
				assertErrorStatus(t, h.Parse(ctx, newJSONRequest(t, http.MethodPut, "/users", body)), http.StatusBadRequest)
			}
		},
		"UpsertRejectsUnsafeFieldNames": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			for _, body := range []string{
				`{"email":"kid@example.com","$set":{"role":"admin"}}`,
				`{"email":"kid@example.com","profile.age":9}`,
				`{"email":"kid@example.com","":"blank"}`,
			} {
				h := makeUpsertUser(sc)
				assertErrorStatus(t, h.Parse(ctx, newJSONRequest(t, http.MethodPut, "/users", body)), http.StatusBadRequest)
			}
			assert.Empty(t, sc.CachedUsers)
		},
		"GrantAdminSetsRoleOnExistingUser": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			sc.CachedUsers = []user.DBUser{{Id: primitive.NewObjectID(), EmailAddress: "boss@example.com"}}

			h := makeGrantAdmin(sc)
			require.NoError(t, h.Parse(ctx, newJSONRequest(t, http.MethodPut, "/users/admin", `{"email":"boss@example.com"}`)))
			res := h.Run(ctx).Data().(model.APIUpdateResult)
			assert.Equal(t, 1, res.MatchedCount)
			assert.Equal(t, 1, res.ModifiedCount)
			assert.True(t, fetchAdminStatus(ctx, t, sc, "boss@example.com").Admin)
		},
		"GrantAdminDoesNotCreateUsers": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			h := makeGrantAdmin(sc)
			require.NoError(t, h.Parse(ctx, newJSONRequest(t, http.MethodPut, "/users/admin", `{"email":"ghost@example.com"}`)))
			res := h.Run(ctx).Data().(model.APIUpdateResult)
			assert.Zero(t, res.MatchedCount)
			assert.Zero(t, res.UpsertedCount)
			assert.Empty(t, sc.CachedUsers)
		},
		"GrantAdminRequiresEmail": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			h := makeGrantAdmin(sc)
			assertErrorStatus(t, h.Parse(ctx, newJSONRequest(t, http.MethodPut, "/users/admin", `{}`)), http.StatusBadRequest)
		},
	} {
		t.Run(tName, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			tCase(ctx, t, &data.MockConnector{})
		})
	}
}
