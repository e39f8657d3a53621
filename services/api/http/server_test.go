package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/pollbooth/services/api/config"
	"github.com/02loveslollipop/pollbooth/services/api/db"
)

type fakeStore struct {
	stations  []db.Station
	err       error
	lastLimit int
}

func (f *fakeStore) GetStation(_ context.Context, id string) (*db.Station, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, st := range f.stations {
		if st.ID == id {
			st := st
			return &st, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListAssemblies(context.Context) ([]db.Assembly, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []db.Assembly{{ID: "108", Name: "TENALI", Stations: len(f.stations)}}, nil
}

func (f *fakeStore) ListStations(_ context.Context, assemblyID string, limit int) ([]db.Station, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if assemblyID != "108" {
		return []db.Station{}, nil
	}
	out := f.stations
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{stations: []db.Station{
		{ID: "108-1", Doc: json.RawMessage(`{"ac_id":"108","ac_name":"TENALI","election2024":{"year":2024,"total_votes":100,"candidates":{"TDP":0.6,"YSRCP":0.4}}}`)},
		{ID: "108-2", Doc: json.RawMessage(`{"ac_id":"108","ac_name":"TENALI","election2019":{"year":2019,"total_votes":50,"candidates":{"YSRCP":1}}}`)},
	}}
}

func newTestServer(store Store, token string) *Server {
	return New(config.Config{DefaultLimit: 200, BearerToken: token}, store)
}

func do(t *testing.T, srv *Server, method, path string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	rec, body := do(t, newTestServer(newFakeStore(), "secret"), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetStation(t *testing.T) {
	srv := newTestServer(newFakeStore(), "")

	rec, body := do(t, srv, http.MethodGet, "/api/v1/stations/108-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
	data := body["data"].(map[string]any)
	assert.Equal(t, "108-1", data["id"])
	assert.Equal(t, "TENALI", data["doc"].(map[string]any)["ac_name"])

	rec, _ = do(t, srv, http.MethodGet, "/api/v1/stations/999-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAssemblies(t *testing.T) {
	rec, body := do(t, newTestServer(newFakeStore(), ""), http.MethodGet, "/api/v1/assemblies", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, body["meta"].(map[string]any)["count"])
	first := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "108", first["ac_id"])
	assert.Equal(t, 2.0, first["stations"])
}

func TestListStationsLimit(t *testing.T) {
	store := newFakeStore()
	srv := newTestServer(store, "")

	rec, body := do(t, srv, http.MethodGet, "/api/v1/assemblies/108/stations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, store.lastLimit)
	assert.Len(t, body["data"], 2)

	rec, body = do(t, srv, http.MethodGet, "/api/v1/assemblies/108/stations?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)

	rec, _ = do(t, srv, http.MethodGet, "/api/v1/assemblies/108/stations?limit=-3", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssemblyResults(t *testing.T) {
	store := newFakeStore()
	srv := newTestServer(store, "")

	rec, body := do(t, srv, http.MethodGet, "/api/v1/assemblies/108/results/2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, store.lastLimit, "results read every station")
	data := body["data"].(map[string]any)
	assert.Equal(t, 1.0, data["stations"])
	assert.Equal(t, 100.0, data["total_votes"])
	assert.Equal(t, "TDP", data["leader"])

	rec, _ = do(t, srv, http.MethodGet, "/api/v1/assemblies/108/results/twenty", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, srv, http.MethodGet, "/api/v1/assemblies/7/results/2024", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoreErrors(t *testing.T) {
	srv := newTestServer(&fakeStore{err: errors.New("connection refused")}, "")

	for _, path := range []string{"/api/v1/stations/108-1", "/api/v1/assemblies", "/api/v1/assemblies/108/stations", "/api/v1/assemblies/108/results/2024"} {
		rec, body := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.Equal(t, "connection refused", body["error"], path)
	}
}

func TestBearerAuth(t *testing.T) {
	srv := newTestServer(newFakeStore(), "secret")

	rec, _ := do(t, srv, http.MethodGet, "/api/v1/assemblies", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, srv, http.MethodGet, "/api/v1/assemblies", map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, srv, http.MethodGet, "/api/v1/assemblies", map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec, _ := do(t, newTestServer(newFakeStore(), "secret"), http.MethodOptions, "/api/v1/assemblies", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(newFakeStore(), "")
	do(t, srv, http.MethodGet, "/api/v1/assemblies", nil)

	rec, _ := do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pollbooth_api_requests_total{method="GET",route="/api/v1/assemblies",status="200"} 1`)
}
