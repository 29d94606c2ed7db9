package discovery

import (
	"context"
	"time"
)

// Store defines the persistence contract for venue cache data.
//
// Both record types are keyed by place identifier. Freshness is a read
// predicate: a record older than maxAge behaves as a miss, implementations
// never delete on read. Writes are insert-or-replace and stamp the current
// time; concurrent writers for the same key race and the last one wins.
type Store interface {
	GetVenue(ctx context.Context, placeID string, maxAge time.Duration) (VenueRecord, bool, error)
	SaveVenue(ctx context.Context, record VenueRecord) error
	GetSummary(ctx context.Context, placeID string, maxAge time.Duration) (AISummary, bool, error)
	SaveSummary(ctx context.Context, record AISummary) error
}
