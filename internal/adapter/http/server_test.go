package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/doppelganger-engine/internal/adapter/http"
	"github.com/couchcryptid/doppelganger-engine/internal/domain"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockFinder struct {
	entry   domain.CacheEntry
	err     error
	gotZips []string
}

func (m *mockFinder) Lookup(_ context.Context, zipCode string) (domain.CacheEntry, error) {
	m.gotZips = append(m.gotZips, zipCode)
	return m.entry, m.err
}

func newTestServer(finder *mockFinder, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", finder, &mockReadiness{err: readyErr}, slog.Default())
}

func happyEntry() domain.CacheEntry {
	return domain.CacheEntry{
		Demographics: domain.DemographicRecord{Name: "ZCTA5 30301", Population: 20000, ZipCode: "30301"},
		Profile: domain.ProfileOf(domain.CommunityProfile{
			WhoAreWe:            "A busy downtown.",
			OurNeighborhood:     []string{"High-rise rentals"},
			SocioeconomicTraits: []string{"Young professionals"},
		}),
		Doppelgangers: domain.DoppelgangersOf([]domain.DoppelgangerCandidate{
			{ZipCode: "27601", City: "Raleigh", State: "NC", SimilarityReason: "r", SimilarityPercentage: 90},
		}),
	}
}

func postFindTwin(srv *httpadapter.Server, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/find-twin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)
	return rec
}

func TestFindTwinSuccess(t *testing.T) {
	finder := &mockFinder{entry: happyEntry()}
	srv := newTestServer(finder, nil)

	rec := postFindTwin(srv, `{"zip_code": "30301"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"30301"}, finder.gotZips)

	var body struct {
		Demographics domain.DemographicRecord `json:"demographics"`
		Profile      domain.ProfileResult     `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ZCTA5 30301", body.Demographics.Name)
	require.NotNil(t, body.Profile.Profile)
	assert.Equal(t, "A busy downtown.", body.Profile.Profile.WhoAreWe)
}

func TestFindTwinNumericZipCoerced(t *testing.T) {
	finder := &mockFinder{entry: happyEntry()}
	srv := newTestServer(finder, nil)

	rec := postFindTwin(srv, `{"zip_code": 30301}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"30301"}, finder.gotZips)
}

func TestFindTwinMissingZip(t *testing.T) {
	srv := newTestServer(&mockFinder{}, nil)

	for _, body := range []string{`{}`, ``, `not json`, `{"zip": "30301"}`} {
		rec := postFindTwin(srv, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Missing 'zip_code' in JSON body", resp["error"])
	}
}

func TestFindTwinNoData(t *testing.T) {
	finder := &mockFinder{err: domain.ErrNoData}
	srv := newTestServer(finder, nil)

	rec := postFindTwin(srv, `{"zip_code": "00000"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No demographic data found for ZIP code 00000.", resp["error"])
}

func TestFindTwinInternalError(t *testing.T) {
	finder := &mockFinder{err: fmt.Errorf("unexpected")}
	srv := newTestServer(finder, nil)

	rec := postFindTwin(srv, `{"zip_code": "30301"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "An internal server error occurred.", resp["error"])
}

func TestFindTwinDegradedEntryStill200(t *testing.T) {
	finder := &mockFinder{entry: domain.CacheEntry{
		Demographics:  domain.DemographicRecord{ZipCode: "30301"},
		Profile:       domain.ProfileError("Failed to generate Gemini profile."),
		Doppelgangers: domain.DoppelgangerError("Failed to find doppelgangers."),
	}}
	srv := newTestServer(finder, nil)

	rec := postFindTwin(srv, `{"zip_code": "30301"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"profile":{"error":"Failed to generate Gemini profile."}`)
	assert.Contains(t, rec.Body.String(), `"doppelgangers":{"error":"Failed to find doppelgangers."}`)
}

func TestFindTwinCORSHeaders(t *testing.T) {
	srv := newTestServer(&mockFinder{entry: happyEntry()}, nil)

	for name, rec := range map[string]*httptest.ResponseRecorder{
		"success":  postFindTwin(srv, `{"zip_code": "30301"}`),
		"bad body": postFindTwin(srv, `{}`),
	} {
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), name)
		assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"), name)
		assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"), name)
	}
}

func TestFindTwinPreflight(t *testing.T) {
	srv := newTestServer(&mockFinder{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/find-twin", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockFinder{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockFinder{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockFinder{}, fmt.Errorf("not ready yet"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockFinder{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
