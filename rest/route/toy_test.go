package route

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/evergreen-ci/gimlet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyland-demo/toyland/model/toy"
	"github.com/toyland-demo/toyland/rest/data"
	"github.com/toyland-demo/toyland/rest/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newJSONRequest(t *testing.T, method, url, body string) *http.Request {
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func assertErrorStatus(t *testing.T, err error, status int) {
	require.Error(t, err)
	resp, ok := err.(gimlet.ErrorResponse)
	require.True(t, ok, "expected an error response but got %T", err)
	assert.Equal(t, status, resp.StatusCode)
}

func TestToyRoutes(t *testing.T) {
	for tName, tCase := range map[string]func(ctx context.Context, t *testing.T, sc *data.MockConnector){
		"FactoriesProduceFreshHandlers": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			for _, rh := range []gimlet.RouteHandler{makeFetchToys(sc), makeFetchToy(sc), makeCreateToy(sc), makeDeleteToy(sc)} {
				copied := rh.Factory()
				assert.NotZero(t, copied)
				assert.IsType(t, rh, copied)
			}
		},
		"CreateThenFetchReturnsInputPlusId": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			ph := makeCreateToy(sc).(*toyPostHandler)
			require.NoError(t, ph.Parse(ctx, newJSONRequest(t, http.MethodPost, "/toys", `{"name":"Robot","price":20}`)))
			resp := ph.Run(ctx)
			require.Equal(t, http.StatusCreated, resp.Status())
			inserted, ok := resp.Data().(model.APIInsertResult)
			require.True(t, ok)
			assert.True(t, inserted.Acknowledged)

			gh := makeFetchToy(sc).(*toyGetHandler)
			req := gimlet.SetURLVars(newJSONRequest(t, http.MethodGet, "/toys/"+inserted.InsertedId, ""), map[string]string{"toy_id": inserted.InsertedId})
			require.NoError(t, gh.Parse(ctx, req))
			resp = gh.Run(ctx)
			require.Equal(t, http.StatusOK, resp.Status())
			doc, ok := resp.Data().(model.APIDocument)
			require.True(t, ok)

			id, err := primitive.ObjectIDFromHex(inserted.InsertedId)
			require.NoError(t, err)
			assert.Equal(t, model.APIDocument{"_id": id, "name": "Robot", "price": 20.0}, doc)
		},
		"FetchMissingToyIsNull": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			gh := makeFetchToy(sc).(*toyGetHandler)
			id := primitive.NewObjectID().Hex()
			req := gimlet.SetURLVars(newJSONRequest(t, http.MethodGet, "/toys/"+id, ""), map[string]string{"toy_id": id})
			require.NoError(t, gh.Parse(ctx, req))
			resp := gh.Run(ctx)
			assert.Equal(t, http.StatusOK, resp.Status())
			assert.Nil(t, resp.Data())
		},
		"MalformedIdIsRejected": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			for _, rh := range []gimlet.RouteHandler{makeFetchToy(sc), makeDeleteToy(sc)} {
				req := gimlet.SetURLVars(newJSONRequest(t, http.MethodGet, "/toys/robot", ""), map[string]string{"toy_id": "robot"})
				assertErrorStatus(t, rh.Parse(ctx, req), http.StatusBadRequest)
			}
		},
		"CreateRejectsBadBodies": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			for _, body := range []string{
				`[1,2,3]`,
				`"robot"`,
				`null`,
				`{"name":`,
				`{"_id":"5f1b2c3d4e5f6a7b8c9d0e1f","name":"Robot"}`,
				`{"$where":"1 == 1"}`,
				`{"size.cm":12}`,
				`{"":"blank"}`,
			} {
				ph := makeCreateToy(sc).(*toyPostHandler)
				assertErrorStatus(t, ph.Parse(ctx, newJSONRequest(t, http.MethodPost, "/toys", body)), http.StatusBadRequest)
			}
			assert.Empty(t, sc.CachedToys)
		},
		"ListReturnsEmptyArray": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			lh := makeFetchToys(sc)
			require.NoError(t, lh.Parse(ctx, newJSONRequest(t, http.MethodGet, "/toys", "")))
			resp := lh.Run(ctx)
			require.Equal(t, http.StatusOK, resp.Status())
			docs, ok := resp.Data().([]model.APIDocument)
			require.True(t, ok)
			assert.NotNil(t, docs)
			assert.Empty(t, docs)
		},
		"ListReturnsEveryToy": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			sc.CachedToys = []toy.Toy{
				{Id: primitive.NewObjectID(), Fields: map[string]any{"name": "Robot"}},
				{Id: primitive.NewObjectID(), Fields: map[string]any{"name": "Kite"}},
			}
			lh := makeFetchToys(sc)
			resp := lh.Run(ctx)
			require.Equal(t, http.StatusOK, resp.Status())
			docs := resp.Data().([]model.APIDocument)
			require.Len(t, docs, 2)
			assert.Equal(t, "Robot", docs[0]["name"])
			assert.Equal(t, sc.CachedToys[1].Id, docs[1]["_id"])
		},
		"DeleteThenFetchIsNull": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			id := primitive.NewObjectID()
			sc.CachedToys = []toy.Toy{{Id: id, Fields: map[string]any{"name": "Robot"}}}
			vars := map[string]string{"toy_id": id.Hex()}

			dh := makeDeleteToy(sc)
			require.NoError(t, dh.Parse(ctx, gimlet.SetURLVars(newJSONRequest(t, http.MethodDelete, "/toys/"+id.Hex(), ""), vars)))
			resp := dh.Run(ctx)
			require.Equal(t, http.StatusOK, resp.Status())
			assert.Equal(t, model.APIDeleteResult{Acknowledged: true, DeletedCount: 1}, resp.Data())

			gh := makeFetchToy(sc)
			require.NoError(t, gh.Parse(ctx, gimlet.SetURLVars(newJSONRequest(t, http.MethodGet, "/toys/"+id.Hex(), ""), vars)))
			assert.Nil(t, gh.Run(ctx).Data())

			resp = dh.Run(ctx)
			assert.Equal(t, model.APIDeleteResult{Acknowledged: true, DeletedCount: 0}, resp.Data())
		},
		"StorageErrorsAreInternal": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			sc.MockToyConnector.StoredError = errors.New("connection reset")
			resp := makeFetchToys(sc).Run(ctx)
			assert.Equal(t, http.StatusInternalServerError, resp.Status())

			ph := makeCreateToy(sc).(*toyPostHandler)
			require.NoError(t, ph.Parse(ctx, newJSONRequest(t, http.MethodPost, "/toys", `{"name":"Robot"}`)))
			resp = ph.Run(ctx)
			assert.Equal(t, http.StatusInternalServerError, resp.Status())
			errResp, ok := resp.Data().(gimlet.ErrorResponse)
			require.True(t, ok)
			assert.True(t, strings.Contains(errResp.Message, "connection reset"))
		},
		"DuplicateKeyIsConflict": func(ctx context.Context, t *testing.T, sc *data.MockConnector) {
			sc.MockToyConnector.StoredError = mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}

			ph := makeCreateToy(sc).(*toyPostHandler)
			require.NoError(t, ph.Parse(ctx, newJSONRequest(t, http.MethodPost, "/toys", `{"name":"Robot"}`)))
			assert.Equal(t, http.StatusConflict, ph.Run(ctx).Status())
		},
	} {
		t.Run(tName, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			tCase(ctx, t, &data.MockConnector{})
		})
	}
}
