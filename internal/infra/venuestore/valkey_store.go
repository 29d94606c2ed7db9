package venuestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/dinescout/internal/domain/discovery"
	"github.com/yanqian/dinescout/pkg/util"
)

// ValkeyStore keeps the venue cache in a Valkey-compatible database. Keys
// carry a TTL matching the cache window so expiry needs no cleanup job, and
// the read path still applies the freshness predicate against maxAge.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "dinescout"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// GetVenue implements discovery.Store.
func (s *ValkeyStore) GetVenue(ctx context.Context, placeID string, maxAge time.Duration) (discovery.VenueRecord, bool, error) {
	var record discovery.VenueRecord
	found, err := s.get(ctx, s.venueKey(placeID), &record)
	if err != nil || !found {
		return discovery.VenueRecord{}, false, err
	}
	if stale(record.CachedAt, maxAge) {
		return discovery.VenueRecord{}, false, nil
	}
	return record, true, nil
}

// SaveVenue implements discovery.Store.
func (s *ValkeyStore) SaveVenue(ctx context.Context, record discovery.VenueRecord) error {
	record.CachedAt = util.NowUTC()
	return s.set(ctx, s.venueKey(record.PlaceID), record)
}

// GetSummary implements discovery.Store.
func (s *ValkeyStore) GetSummary(ctx context.Context, placeID string, maxAge time.Duration) (discovery.AISummary, bool, error) {
	var record discovery.AISummary
	found, err := s.get(ctx, s.summaryKey(placeID), &record)
	if err != nil || !found {
		return discovery.AISummary{}, false, err
	}
	if stale(record.GeneratedAt, maxAge) {
		return discovery.AISummary{}, false, nil
	}
	return record, true, nil
}

// SaveSummary implements discovery.Store.
func (s *ValkeyStore) SaveSummary(ctx context.Context, record discovery.AISummary) error {
	record.GeneratedAt = util.NowUTC()
	return s.set(ctx, s.summaryKey(record.PlaceID), record)
}

func (s *ValkeyStore) get(ctx context.Context, key string, out any) (bool, error) {
	cmd := s.client.B().Get().Key(key).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ValkeyStore) set(ctx context.Context, key string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(key).Value(string(payload))
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) venueKey(placeID string) string {
	return s.prefix + ":venue:" + placeID
}

func (s *ValkeyStore) summaryKey(placeID string) string {
	return s.prefix + ":summary:" + placeID
}

func stale(ts time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return util.NowUTC().Sub(ts) > maxAge
}

var _ discovery.Store = (*ValkeyStore)(nil)
