package venuestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/dinescout/internal/domain/discovery"
	"github.com/yanqian/dinescout/pkg/util"
)

// PostgresStore persists venue cache records using pgx.
//
// Schema, one row per place identifier:
//
//	CREATE TABLE restaurant_cache (
//	    place_id  TEXT PRIMARY KEY,
//	    data      JSONB NOT NULL,
//	    cached_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE ai_summary_cache (
//	    place_id  TEXT PRIMARY KEY,
//	    data      JSONB NOT NULL,
//	    cached_at TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// GetVenue returns the record only when its timestamp is inside the window.
// Expired rows stay in place until the next upsert overwrites them.
func (s *PostgresStore) GetVenue(ctx context.Context, placeID string, maxAge time.Duration) (discovery.VenueRecord, bool, error) {
	var record discovery.VenueRecord
	found, err := s.getFresh(ctx, "restaurant_cache", placeID, maxAge, &record)
	if err != nil || !found {
		return discovery.VenueRecord{}, false, err
	}
	return record, true, nil
}

// SaveVenue upserts the record keyed by place identifier, stamping now.
func (s *PostgresStore) SaveVenue(ctx context.Context, record discovery.VenueRecord) error {
	record.CachedAt = util.NowUTC()
	return s.upsert(ctx, "restaurant_cache", record.PlaceID, record, record.CachedAt)
}

// GetSummary returns the summary only when it is inside the window.
func (s *PostgresStore) GetSummary(ctx context.Context, placeID string, maxAge time.Duration) (discovery.AISummary, bool, error) {
	var record discovery.AISummary
	found, err := s.getFresh(ctx, "ai_summary_cache", placeID, maxAge, &record)
	if err != nil || !found {
		return discovery.AISummary{}, false, err
	}
	return record, true, nil
}

// SaveSummary upserts the summary keyed by place identifier, stamping now.
func (s *PostgresStore) SaveSummary(ctx context.Context, record discovery.AISummary) error {
	record.GeneratedAt = util.NowUTC()
	return s.upsert(ctx, "ai_summary_cache", record.PlaceID, record, record.GeneratedAt)
}

func (s *PostgresStore) getFresh(ctx context.Context, table, placeID string, maxAge time.Duration, out any) (bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT data
		FROM `+table+`
		WHERE place_id = $1 AND cached_at > $2
		LIMIT 1
	`, placeID, util.NowUTC().Add(-maxAge))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	var payload []byte
	if err := rows.Scan(&payload); err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, err
	}
	return true, rows.Err()
}

func (s *PostgresStore) upsert(ctx context.Context, table, placeID string, record any, cachedAt time.Time) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO `+table+` (place_id, data, cached_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (place_id)
		DO UPDATE SET data = EXCLUDED.data, cached_at = EXCLUDED.cached_at
	`, placeID, payload, cachedAt)
	return err
}

var _ discovery.Store = (*PostgresStore)(nil)
