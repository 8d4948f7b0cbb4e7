package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ladybyron/playroom/internal/errs"
	"github.com/ladybyron/playroom/internal/model"
)

var testKey = []byte("test-sign-key")

type fakeSaves struct {
	listOut []model.SaveSummary
	listErr error

	getOut *model.SaveRecord
	getErr error

	upsertIn  model.UpsertSave
	upsertOut *model.SaveRecord
	upsertErr error

	delOut int64
	delErr error
}

func (f *fakeSaves) List(_ context.Context, _ uuid.UUID, _ string) ([]model.SaveSummary, error) {
	return f.listOut, f.listErr
}

func (f *fakeSaves) Get(_ context.Context, _ uuid.UUID, _, _ string) (*model.SaveRecord, error) {
	return f.getOut, f.getErr
}

func (f *fakeSaves) Upsert(_ context.Context, _ uuid.UUID, _ string, up model.UpsertSave) (*model.SaveRecord, error) {
	f.upsertIn = up
	return f.upsertOut, f.upsertErr
}

func (f *fakeSaves) Delete(_ context.Context, _ uuid.UUID, _, _ string) (int64, error) {
	return f.delOut, f.delErr
}

type fakeCatalog struct{ items []model.CatalogEntry }

func (f *fakeCatalog) List(_ context.Context) []model.CatalogEntry { return f.items }

type fakeLocator struct{ desc model.GameDescriptor }

func (f *fakeLocator) Locate(slug string) model.GameDescriptor {
	d := f.desc
	d.Slug = slug
	return d
}

func testRouter(t *testing.T, saves *fakeSaves, cat *fakeCatalog, loc *fakeLocator) http.Handler {
	t.Helper()
	if cat == nil {
		cat = &fakeCatalog{items: []model.CatalogEntry{}}
	}
	if loc == nil {
		loc = &fakeLocator{}
	}
	return New(saves, cat, loc, testKey, 0, zap.NewNop()).Routes()
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString(testKey)
	require.NoError(t, err)
	return "Bearer " + signed
}

func doReq(t *testing.T, h http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSaves_RequireAuth(t *testing.T) {
	h := testRouter(t, &fakeSaves{}, nil, nil)

	rr := doReq(t, h, http.MethodGet, "/api/saves/cave", "", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doReq(t, h, http.MethodGet, "/api/saves/cave", "Bearer not-a-jwt", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// A subject that is not a UUID is rejected too.
	rr = doReq(t, h, http.MethodGet, "/api/saves/cave", bearer(t, "42"), "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSaves_List_OK(t *testing.T) {
	user := uuid.Must(uuid.NewV4())
	saves := &fakeSaves{listOut: []model.SaveSummary{{Slot: "auto", Rev: 2}, {Slot: "slot1", Rev: 0}}}
	h := testRouter(t, saves, nil, nil)

	rr := doReq(t, h, http.MethodGet, "/api/saves/cave", bearer(t, user.String()), "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Items []model.SaveSummary `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	require.Equal(t, "auto", body.Items[0].Slot)
}

func TestSaves_Get_NotFound(t *testing.T) {
	user := uuid.Must(uuid.NewV4())
	h := testRouter(t, &fakeSaves{getErr: errs.ErrNotFound}, nil, nil)

	rr := doReq(t, h, http.MethodGet, "/api/saves/cave/slot1", bearer(t, user.String()), "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "not_found")
}

func TestSaves_Upsert_OK(t *testing.T) {
	user := uuid.Must(uuid.NewV4())
	saves := &fakeSaves{upsertOut: &model.SaveRecord{
		UserID: user, GameSlug: "cave", Slot: "slot1", Rev: 0,
		StateJSON: json.RawMessage(`{"p":1}`),
	}}
	h := testRouter(t, saves, nil, nil)

	rr := doReq(t, h, http.MethodPost, "/api/saves/cave", bearer(t, user.String()),
		`{"slot":"slot1","stateJson":{"p":1},"expectedRev":0}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var rec model.SaveRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	require.Equal(t, int64(0), rec.Rev)
	require.NotNil(t, saves.upsertIn.ExpectedRev)
	require.Equal(t, int64(0), *saves.upsertIn.ExpectedRev)
}

func TestSaves_Upsert_OmittedExpectedRevIsNil(t *testing.T) {
	user := uuid.Must(uuid.NewV4())
	saves := &fakeSaves{upsertOut: &model.SaveRecord{Rev: 4}}
	h := testRouter(t, saves, nil, nil)

	rr := doReq(t, h, http.MethodPost, "/api/saves/cave", bearer(t, user.String()),
		`{"slot":"slot1","stateJson":{}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Nil(t, saves.upsertIn.ExpectedRev)
}

func TestSaves_Upsert_ConflictReturnsCurrent(t *testing.T) {
	user := uuid.Must(uuid.NewV4())
	saves := &fakeSaves{
		upsertOut: &model.SaveRecord{Slot: "slot1", Rev: 1, StateJSON: json.RawMessage(`{"winner":true}`)},
		upsertErr: errs.ErrRevConflict,
	}
	h := testRouter(t, saves, nil, nil)

	rr := doReq(t, h, http.MethodPost, "/api/saves/cave", bearer(t, user.String()),
		`{"slot":"slot1","stateJson":{"loser":true},"expectedRev":0}`)
	require.Equal(t, http.StatusConflict, rr.Code)

	var body struct {
		Error   string           `json:"error"`
		Current model.SaveRecord `json:"current"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "rev_conflict", body.Error)
	require.Equal(t, int64(1), body.Current.Rev)
}

func TestSaves_Upsert_BadInput(t *testing.T) {
	user := uuid.Must(uuid.NewV4())

	h := testRouter(t, &fakeSaves{upsertErr: errs.ErrInvalidInput}, nil, nil)
	rr := doReq(t, h, http.MethodPost, "/api/saves/cave", bearer(t, user.String()),
		`{"slot":"bad slot","stateJson":{}}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doReq(t, h, http.MethodPost, "/api/saves/cave", bearer(t, user.String()), `{not json`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	h = testRouter(t, &fakeSaves{upsertErr: errs.ErrPayloadTooLarge}, nil, nil)
	rr = doReq(t, h, http.MethodPost, "/api/saves/cave", bearer(t, user.String()),
		`{"slot":"slot1","stateJson":{}}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSaves_Delete(t *testing.T) {
	user := uuid.Must(uuid.NewV4())

	h := testRouter(t, &fakeSaves{delOut: 1}, nil, nil)
	rr := doReq(t, h, http.MethodDelete, "/api/saves/cave/slot1", bearer(t, user.String()), "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"ok":true`)

	// Second delete of the same tuple: nothing left to remove.
	h = testRouter(t, &fakeSaves{delOut: 0}, nil, nil)
	rr = doReq(t, h, http.MethodDelete, "/api/saves/cave/slot1", bearer(t, user.String()), "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "not_found")
}

func TestGames_List_Public(t *testing.T) {
	cat := &fakeCatalog{items: []model.CatalogEntry{{ID: 1, Slug: "cave", Title: "The Cave"}}}
	h := testRouter(t, &fakeSaves{}, cat, nil)

	// No Authorization header: the catalog is guest-readable.
	rr := doReq(t, h, http.MethodGet, "/api/games", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Items []model.CatalogEntry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, "cave", body.Items[0].Slug)
}

func TestGames_Describe(t *testing.T) {
	loc := &fakeLocator{desc: model.GameDescriptor{Engine: model.EngineInk, Shape: model.ShapeDirectory, Exists: true}}
	h := testRouter(t, &fakeSaves{}, nil, loc)

	rr := doReq(t, h, http.MethodGet, "/api/games/cave", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var desc model.GameDescriptor
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &desc))
	require.Equal(t, model.EngineInk, desc.Engine)
	require.Equal(t, "cave", desc.Slug)

	h = testRouter(t, &fakeSaves{}, nil, &fakeLocator{desc: model.GameDescriptor{Engine: model.EngineUnknown, Shape: model.ShapeAbsent}})
	rr = doReq(t, h, http.MethodGet, "/api/games/ghost", "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = doReq(t, h, http.MethodGet, "/api/games/bad%20slug", "", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPing(t *testing.T) {
	h := testRouter(t, &fakeSaves{}, nil, nil)
	rr := doReq(t, h, http.MethodGet, "/ping", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "pong\n", rr.Body.String())
}
