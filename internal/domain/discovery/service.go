package discovery

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	apperrors "github.com/yanqian/dinescout/pkg/errors"
	"github.com/yanqian/dinescout/pkg/util"
)

// Service exposes the restaurant discovery pipeline.
type Service interface {
	Search(ctx context.Context, req SearchRequest) (Response, error)
}

// GeoClient resolves free text locations against the geocoding provider.
type GeoClient interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// PlacesClient covers the two places provider operations. Details returns
// ok=false when the provider cannot serve this one place; callers skip the
// venue instead of failing the batch.
type PlacesClient interface {
	NearbySearch(ctx context.Context, origin Coordinates, radius, maxPrice int) ([]Candidate, error)
	Details(ctx context.Context, placeID string) (VenueRecord, bool, error)
}

type service struct {
	cfg        Config
	geo        GeoClient
	places     PlacesClient
	store      Store
	summarizer *Summarizer
	logger     *slog.Logger
}

// NewService wires up the discovery domain.
func NewService(cfg Config, geo GeoClient, places PlacesClient, store Store, summarizer *Summarizer, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		geo:        geo,
		places:     places,
		store:      store,
		summarizer: summarizer,
		logger:     logger.With("component", "discovery.service"),
	}
}

// Search runs the full pipeline: resolve location, nearby search, concurrent
// per-candidate enrichment, scoring, stable sort. Only the first two stages
// abort the request; every enrichment failure stays scoped to its candidate.
func (s *service) Search(ctx context.Context, req SearchRequest) (Response, error) {
	if strings.TrimSpace(req.Location) == "" {
		return Response{}, apperrors.Wrap("invalid_input", "location cannot be empty", nil)
	}
	radius := req.Radius
	if radius <= 0 {
		radius = s.cfg.DefaultRadius
	}
	maxPrice := 4
	if req.MaxPrice != nil {
		maxPrice = int(clamp(float64(*req.MaxPrice), 0, 4))
	}

	coords, err := s.resolveLocation(ctx, req.Location)
	if err != nil {
		return Response{}, err
	}
	s.logger.Info("location resolved", "location", req.Location, "lat", coords.Lat, "lng", coords.Lng)

	candidates, err := s.places.NearbySearch(ctx, coords, radius, maxPrice)
	if err != nil {
		return Response{}, err
	}
	if len(candidates) > s.cfg.MaxCandidates {
		candidates = candidates[:s.cfg.MaxCandidates]
	}
	s.logger.Info("nearby search completed", "candidates", len(candidates))

	// One unit of work per candidate, full join before scoring. Slots keep
	// the provider order so the stable sort below can preserve it on ties.
	enriched := make([]*RankedResult, len(candidates))
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(slot int, candidate Candidate) {
			defer wg.Done()
			if result, ok := s.enrich(ctx, req, candidate); ok {
				enriched[slot] = &result
			}
		}(i, candidate)
	}
	wg.Wait()

	results := make([]RankedResult, 0, len(enriched))
	for _, result := range enriched {
		if result == nil {
			continue
		}
		result.TotalScore = totalScore(result.VenueRecord, result.AISummary, maxPrice)
		results = append(results, *result)
	}
	sortByScore(results)
	s.logger.Info("discovery completed", "returned", len(results), "dropped", len(candidates)-len(results))

	return Response{
		Restaurants:    results,
		SearchLocation: coords,
		TotalFound:     len(results),
	}, nil
}

func (s *service) resolveLocation(ctx context.Context, location string) (Coordinates, error) {
	coords, attempted, err := parseCoordinates(location)
	if attempted {
		return coords, err
	}
	return s.geo.Geocode(ctx, location)
}

// enrich runs the per-candidate pipeline: cache-or-fetch details, then
// cache-or-generate summary. It reports ok=false only when the candidate
// must be dropped; a missing summary merely degrades the result.
func (s *service) enrich(ctx context.Context, req SearchRequest, candidate Candidate) (RankedResult, bool) {
	log := s.logger.With("place_id", candidate.PlaceID)

	venue, hit, err := s.store.GetVenue(ctx, candidate.PlaceID, s.cfg.CacheTTL)
	if err != nil {
		log.Warn("venue cache lookup failed", "error", err)
	}
	if hit {
		log.Debug("venue cache hit")
	} else {
		fetched, available, err := s.places.Details(ctx, candidate.PlaceID)
		if err != nil {
			log.Warn("place details fetch failed, dropping candidate", "error", err)
			return RankedResult{}, false
		}
		if !available {
			log.Info("place details unavailable, dropping candidate")
			return RankedResult{}, false
		}
		venue = fetched
		venue.CachedAt = util.NowUTC()
		if err := s.store.SaveVenue(ctx, venue); err != nil {
			log.Warn("venue cache write failed", "error", err)
		}
	}

	var summary *AISummary
	if cached, ok, err := s.store.GetSummary(ctx, candidate.PlaceID, s.cfg.CacheTTL); err != nil {
		log.Warn("summary cache lookup failed", "error", err)
	} else if ok {
		log.Debug("summary cache hit")
		summary = &cached
	}
	if summary == nil && hasQualifyingReviews(venue.Reviews, s.cfg.MinReviewLen) {
		if generated, err := s.summarizer.Generate(ctx, venue, req); err != nil {
			log.Warn("summary generation failed, continuing without it", "error", err)
		} else {
			summary = &generated
		}
	}

	return RankedResult{VenueRecord: venue, AISummary: summary}, true
}
