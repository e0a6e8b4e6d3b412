// Package firestore persists lookup results in Google Cloud Firestore.
package firestore

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/couchcryptid/doppelganger-engine/internal/domain"
)

// Store is a document cache keyed by ZIP code within a single collection.
// Entries are written once per cache miss, overwritten idempotently on
// duplicate misses, and never expired by this service.
type Store struct {
	client     *firestore.Client
	collection string
	logger     *slog.Logger
}

// NewStore connects to Firestore. Callers treat a construction failure as
// "cache unavailable" and run without caching rather than failing startup.
func NewStore(ctx context.Context, projectID, collection string, logger *slog.Logger) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{
		client:     client,
		collection: collection,
		logger:     logger,
	}, nil
}

// Get reads the cached entry for zipCode, reporting false when no document
// exists.
func (s *Store) Get(ctx context.Context, zipCode string) (domain.CacheEntry, bool, error) {
	snap, err := s.client.Collection(s.collection).Doc(zipCode).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("read cache document: %w", err)
	}

	var entry domain.CacheEntry
	if err := snap.DataTo(&entry); err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("decode cache document: %w", err)
	}
	return entry, true, nil
}

// Put writes the entry for zipCode, overwriting any existing document.
func (s *Store) Put(ctx context.Context, zipCode string, entry domain.CacheEntry) error {
	if _, err := s.client.Collection(s.collection).Doc(zipCode).Set(ctx, entry); err != nil {
		return fmt.Errorf("write cache document: %w", err)
	}
	return nil
}

// Close releases the underlying gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}
