package census_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/doppelganger-engine/internal/adapter/census"
	"github.com/couchcryptid/doppelganger-engine/internal/domain"
	"github.com/couchcryptid/doppelganger-engine/internal/observability"
)

func newTestClient(baseURL string) *census.Client {
	return census.NewClient(baseURL, 5*time.Second, observability.NewMetricsForTesting(), slog.Default())
}

// acsResponse builds the two-row 2-D array response the ACS API returns,
// with every queried variable set to "1" except the overrides.
func acsResponse(zip string, overrides map[string]string) [][]*string {
	headers := append(domain.ACSVariables(), "zip code tabulation area")
	head := make([]*string, len(headers))
	vals := make([]*string, len(headers))
	for i := range headers {
		h := headers[i]
		head[i] = &h
		v := "1"
		if o, ok := overrides[h]; ok {
			v = o
		}
		if h == "zip code tabulation area" {
			v = zip
		}
		s := v
		vals[i] = &s
	}
	return [][]*string{head, vals}
}

func TestFetchDemographicsSuccess(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(acsResponse("30301", map[string]string{
			"NAME":        "ZCTA5 30301",
			"B01003_001E": "20000",
			"B19013_001E": "72000",
			"B01002_001E": "34.2",
		}))
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL).FetchDemographics(context.Background(), "30301")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "ZCTA5 30301", rec.Name)
	assert.Equal(t, 20000, rec.Population)
	assert.Equal(t, 72000, rec.MedianIncome)
	assert.Equal(t, 34.2, rec.MedianAge)
	assert.Equal(t, "30301", rec.ZipCode)

	assert.Contains(t, gotQuery, "get=NAME,B01003_001E")
	assert.Contains(t, gotQuery, "for=zip%20code%20tabulation%20area:30301")
}

func TestFetchDemographicsHeaderOnlyIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := acsResponse("00000", nil)
		json.NewEncoder(w).Encode(resp[:1])
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL).FetchDemographics(context.Background(), "00000")
	assert.ErrorIs(t, err, domain.ErrNoData)
	assert.Nil(t, rec)
}

func TestFetchDemographicsEmptyArrayIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchDemographics(context.Background(), "00000")
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestFetchDemographicsNullValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := acsResponse("89049", map[string]string{"NAME": "ZCTA5 89049"})
		// Null out income and median age like a suppressed estimate.
		headers := append(domain.ACSVariables(), "zip code tabulation area")
		for i, h := range headers {
			if h == "B19013_001E" || h == "B01002_001E" {
				resp[1][i] = nil
			}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	rec, err := newTestClient(srv.URL).FetchDemographics(context.Background(), "89049")
	require.NoError(t, err)

	assert.Equal(t, 0, rec.MedianIncome)
	assert.Equal(t, 0.0, rec.MedianAge)
	assert.Equal(t, "ZCTA5 89049", rec.Name)
}

func TestFetchDemographicsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown variable", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchDemographics(context.Background(), "12345")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoData)
	assert.Contains(t, err.Error(), "status 400")
}

func TestFetchDemographicsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchDemographics(context.Background(), "12345")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoData)
}

func TestFetchDemographicsContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).FetchDemographics(ctx, "12345")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}
