package venuestore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/dinescout/internal/domain/discovery"
	"github.com/yanqian/dinescout/pkg/util"
)

// MemoryStore is an in-memory implementation of the venue cache for
// tests and development.
type MemoryStore struct {
	mu        sync.RWMutex
	venues    map[string]discovery.VenueRecord
	summaries map[string]discovery.AISummary
	now       func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		venues:    make(map[string]discovery.VenueRecord),
		summaries: make(map[string]discovery.AISummary),
		now:       util.NowUTC,
	}
}

// GetVenue implements discovery.Store. Staleness is checked at read time;
// stale entries behave as misses and stay in place until overwritten.
func (s *MemoryStore) GetVenue(_ context.Context, placeID string, maxAge time.Duration) (discovery.VenueRecord, bool, error) {
	s.mu.RLock()
	record, ok := s.venues[placeID]
	s.mu.RUnlock()
	if !ok || s.stale(record.CachedAt, maxAge) {
		return discovery.VenueRecord{}, false, nil
	}
	return record, true, nil
}

// SaveVenue stores the record, stamping the current time.
func (s *MemoryStore) SaveVenue(_ context.Context, record discovery.VenueRecord) error {
	record.CachedAt = s.now()
	s.mu.Lock()
	s.venues[record.PlaceID] = record
	s.mu.Unlock()
	return nil
}

// GetSummary implements discovery.Store.
func (s *MemoryStore) GetSummary(_ context.Context, placeID string, maxAge time.Duration) (discovery.AISummary, bool, error) {
	s.mu.RLock()
	record, ok := s.summaries[placeID]
	s.mu.RUnlock()
	if !ok || s.stale(record.GeneratedAt, maxAge) {
		return discovery.AISummary{}, false, nil
	}
	return record, true, nil
}

// SaveSummary stores the summary, stamping the current time.
func (s *MemoryStore) SaveSummary(_ context.Context, record discovery.AISummary) error {
	record.GeneratedAt = s.now()
	s.mu.Lock()
	s.summaries[record.PlaceID] = record
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) stale(ts time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return s.now().Sub(ts) > maxAge
}

var _ discovery.Store = (*MemoryStore)(nil)
