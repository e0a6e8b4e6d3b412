package lookup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/doppelganger-engine/internal/domain"
	"github.com/couchcryptid/doppelganger-engine/internal/observability"
)

// DemographicsFetcher retrieves the demographic record for a ZIP code.
type DemographicsFetcher interface {
	FetchDemographics(ctx context.Context, zipCode string) (*domain.DemographicRecord, error)
}

// ProfileGenerator narrates a qualitative community profile.
type ProfileGenerator interface {
	GenerateProfile(ctx context.Context, rec domain.DemographicRecord) domain.ProfileResult
}

// SimilarityFinder proposes demographically similar ZIP codes.
type SimilarityFinder interface {
	FindDoppelgangers(ctx context.Context, rec domain.DemographicRecord) domain.DoppelgangerResult
}

// CacheStore is the durable read-through cache keyed by ZIP code.
type CacheStore interface {
	Get(ctx context.Context, zipCode string) (domain.CacheEntry, bool, error)
	Put(ctx context.Context, zipCode string, entry domain.CacheEntry) error
}

// AuditPublisher emits lookup audit events.
type AuditPublisher interface {
	Publish(ctx context.Context, event domain.LookupEvent) error
}

// Service orchestrates one ZIP code lookup: cache check, demographic
// extraction, the two generative calls, and the best-effort persist.
type Service struct {
	fetcher  DemographicsFetcher
	profiles ProfileGenerator
	finder   SimilarityFinder
	cache    CacheStore     // nil when the store is disabled or failed to initialize
	audit    AuditPublisher // nil when auditing is disabled
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
}

// New creates a Service. cache and audit may be nil; the service degrades
// to always-miss / no-audit behavior without failing requests.
func New(fetcher DemographicsFetcher, profiles ProfileGenerator, finder SimilarityFinder, cache CacheStore, audit AuditPublisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		fetcher:  fetcher,
		profiles: profiles,
		finder:   finder,
		cache:    cache,
		audit:    audit,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
	}
}

// SetClock swaps the time source. Pass nil to reset to real time.
func (s *Service) SetClock(c clockwork.Clock) {
	if c == nil {
		s.clock = clockwork.NewRealClock()
		return
	}
	s.clock = c
}

// CheckReadiness reports whether the service can take traffic. The service
// is stateless, so it is ready as soon as its collaborators are wired.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.fetcher == nil {
		return errors.New("demographics fetcher not configured")
	}
	return nil
}

// Lookup returns the combined entry for zipCode, computing and persisting
// it on a cache miss. A cache hit returns the stored entry verbatim, with
// no re-validation or TTL check. It returns domain.ErrNoData when the
// statistics upstream has no row for zipCode; nothing is cached in that
// case. Failures from either generative call are embedded in the entry,
// never propagated as request failures. Nothing is retried.
func (s *Service) Lookup(ctx context.Context, zipCode string) (domain.CacheEntry, error) {
	start := s.clock.Now()

	if s.cache != nil {
		entry, ok, err := s.cache.Get(ctx, zipCode)
		switch {
		case err != nil:
			// A failed read degrades to a miss; caching is an
			// optimization, never a correctness dependency.
			s.logger.Warn("cache read failed", "zip", zipCode, "error", err)
			s.metrics.CacheOps.WithLabelValues("read", "error").Inc()
		case ok:
			s.logger.Info("cache hit", "zip", zipCode)
			s.metrics.CacheOps.WithLabelValues("read", "hit").Inc()
			s.finish(ctx, zipCode, "hit", start)
			return entry, nil
		default:
			s.logger.Info("cache miss", "zip", zipCode)
			s.metrics.CacheOps.WithLabelValues("read", "miss").Inc()
		}
	}

	rec, err := s.fetcher.FetchDemographics(ctx, zipCode)
	if err != nil || rec == nil {
		if err != nil && !errors.Is(err, domain.ErrNoData) {
			s.logger.Error("demographics fetch failed", "zip", zipCode, "error", err)
		}
		s.finish(ctx, zipCode, "not_found", start)
		return domain.CacheEntry{}, domain.ErrNoData
	}

	// The two generative calls are independent of each other; both run even
	// if one degrades, and they run sequentially.
	entry := domain.CacheEntry{
		Demographics:  *rec,
		Profile:       s.profiles.GenerateProfile(ctx, *rec),
		Doppelgangers: s.finder.FindDoppelgangers(ctx, *rec),
	}

	if s.cache != nil {
		// Best-effort single write: the fresh entry is returned to the
		// caller even when persisting it fails.
		if err := s.cache.Put(ctx, zipCode, entry); err != nil {
			s.logger.Error("cache write failed", "zip", zipCode, "error", err)
			s.metrics.CacheOps.WithLabelValues("write", "error").Inc()
		} else {
			s.logger.Info("cached lookup result", "zip", zipCode)
			s.metrics.CacheOps.WithLabelValues("write", "ok").Inc()
		}
	}

	s.finish(ctx, zipCode, "fresh", start)
	return entry, nil
}

// finish records outcome metrics and publishes the audit event.
func (s *Service) finish(ctx context.Context, zipCode, outcome string, start time.Time) {
	elapsed := s.clock.Since(start)
	s.metrics.LookupsTotal.WithLabelValues(outcome).Inc()
	s.metrics.LookupDuration.Observe(elapsed.Seconds())

	if s.audit == nil {
		return
	}
	event := domain.LookupEvent{
		ZipCode:    zipCode,
		Outcome:    outcome,
		CacheHit:   outcome == "hit",
		DurationMS: elapsed.Milliseconds(),
		OccurredAt: s.clock.Now(),
	}
	if err := s.audit.Publish(ctx, event); err != nil {
		s.logger.Warn("audit publish failed", "zip", zipCode, "error", err)
	}
}
