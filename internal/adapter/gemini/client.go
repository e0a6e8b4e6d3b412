package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/couchcryptid/doppelganger-engine/internal/domain"
	"github.com/couchcryptid/doppelganger-engine/internal/observability"
)

// Fixed failure messages. These are part of the response contract: callers
// cache and serve them, so the wording must not drift.
const (
	profileErrMessage      = "Failed to generate Gemini profile."
	doppelgangerErrMessage = "Failed to find doppelgangers."
)

// contentGenerator abstracts one structured-generation call so tests can
// substitute a fake model.
type contentGenerator interface {
	generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// Client produces community profiles and doppelganger candidates with the
// Gemini structured-generation API.
type Client struct {
	gen     contentGenerator
	timeout time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a Gemini client for the given API key and model.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		gen:     &genaiGenerator{client: gc, model: model},
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// GenerateProfile narrates a qualitative community profile for the record.
// It never fails the request: a model or parse error collapses to the fixed
// error branch, which is valid cacheable data. The call is attempted once,
// with no retry.
func (c *Client) GenerateProfile(ctx context.Context, rec domain.DemographicRecord) domain.ProfileResult {
	c.logger.Info("generating community profile", "zip", rec.ZipCode)

	text, err := c.call(ctx, "profile", profilePrompt(rec), profileSchema())
	if err != nil {
		c.logger.Error("profile generation failed", "zip", rec.ZipCode, "error", err)
		return domain.ProfileError(profileErrMessage)
	}

	var profile domain.CommunityProfile
	if err := json.Unmarshal([]byte(text), &profile); err != nil {
		c.logger.Error("profile reply not valid JSON", "zip", rec.ZipCode, "error", err)
		c.metrics.GeminiRequests.WithLabelValues("profile", "error").Inc()
		return domain.ProfileError(profileErrMessage)
	}

	c.metrics.GeminiRequests.WithLabelValues("profile", "success").Inc()
	return domain.ProfileOf(profile)
}

// FindDoppelgangers asks the model for demographically similar ZIP codes.
// Candidate count and similarity scores come back as the model produced
// them. Failure policy matches GenerateProfile.
func (c *Client) FindDoppelgangers(ctx context.Context, rec domain.DemographicRecord) domain.DoppelgangerResult {
	c.logger.Info("finding doppelgangers", "zip", rec.ZipCode)

	text, err := c.call(ctx, "doppelganger", doppelgangerPrompt(rec), doppelgangerSchema())
	if err != nil {
		c.logger.Error("doppelganger search failed", "zip", rec.ZipCode, "error", err)
		return domain.DoppelgangerError(doppelgangerErrMessage)
	}

	var candidates []domain.DoppelgangerCandidate
	if err := json.Unmarshal([]byte(text), &candidates); err != nil {
		c.logger.Error("doppelganger reply not valid JSON", "zip", rec.ZipCode, "error", err)
		c.metrics.GeminiRequests.WithLabelValues("doppelganger", "error").Inc()
		return domain.DoppelgangerError(doppelgangerErrMessage)
	}

	c.metrics.GeminiRequests.WithLabelValues("doppelganger", "success").Inc()
	return domain.DoppelgangersOf(candidates)
}

func (c *Client) call(ctx context.Context, kind, prompt string, schema *genai.Schema) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.gen.generate(ctx, prompt, schema)
	c.metrics.GeminiDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeminiRequests.WithLabelValues(kind, "error").Inc()
		return "", err
	}
	return text, nil
}

// genaiGenerator is the production contentGenerator backed by the Gemini API.
type genaiGenerator struct {
	client *genai.Client
	model  string
}

func (g *genaiGenerator) generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
