package census

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/doppelganger-engine/internal/domain"
	"github.com/couchcryptid/doppelganger-engine/internal/observability"
)

// Client fetches ACS 5-Year Estimate rows from the US Census Bureau API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Census API client for the given dataset base URL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchDemographics queries the ACS dataset for one ZIP code tabulation
// area. It returns domain.ErrNoData when the response carries no data row
// (header only, or empty). Transport, status, and decode failures are
// returned as errors; the caller collapses every failure to the same
// not-found outcome, so a malformed ZIP needs no local validation.
func (c *Client) FetchDemographics(ctx context.Context, zipCode string) (*domain.DemographicRecord, error) {
	u := fmt.Sprintf("%s?get=%s&for=%s",
		c.baseURL,
		strings.Join(domain.ACSVariables(), ","),
		url.PathEscape("zip code tabulation area:"+zipCode),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("census request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.CensusRequestDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("census API error: status %d: %s", resp.StatusCode, body)
	}

	// The API answers with a 2-D array: headers row, then one value row per
	// matched geography. Values may be JSON null for suppressed estimates.
	var rows [][]*string
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(rows) < 2 {
		c.logger.Warn("no census data for zip", "zip", zipCode)
		return nil, domain.ErrNoData
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		if h != nil {
			headers[i] = *h
		}
	}

	record := domain.BuildDemographicRecord(headers, rows[1], zipCode)
	return &record, nil
}
