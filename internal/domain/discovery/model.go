package discovery

import "time"

// SearchRequest is the payload accepted by the discovery service.
// Fields are fixed once received; the service works on resolved copies.
type SearchRequest struct {
	Location string   `json:"location" binding:"required"`
	Radius   int      `json:"radius"`
	MaxPrice *int     `json:"max_price"`
	Cuisine  string   `json:"cuisine"`
	VegOnly  bool     `json:"veg_only"`
	JainFood bool     `json:"jain_food"`
	Menu     []string `json:"menu"`
}

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Review is a single raw review attached to a venue.
type Review struct {
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
	Time   int64   `json:"time"`
}

// Candidate is a venue stub returned by the nearby search stage.
type Candidate struct {
	PlaceID string
	Name    string
}

// VenueRecord is the cached detail record for one place.
type VenueRecord struct {
	PlaceID    string      `json:"place_id"`
	Name       string      `json:"name"`
	Rating     *float64    `json:"rating,omitempty"`
	PriceLevel *int        `json:"price_level,omitempty"`
	Address    string      `json:"address,omitempty"`
	Location   Coordinates `json:"location"`
	PhotoURLs  []string    `json:"photos,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	Website    string      `json:"website,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	Reviews    []Review    `json:"reviews,omitempty"`
	CachedAt   time.Time   `json:"cached_at"`
}

// AISummary is the cached generated analysis for one place.
type AISummary struct {
	PlaceID           string    `json:"place_id"`
	RankScore         float64   `json:"rank_score"`
	ShortSummary      string    `json:"short_summary"`
	Pros              []string  `json:"pros"`
	Cons              []string  `json:"cons"`
	DishesToTry       []string  `json:"dishes_to_try"`
	MatchingMenuItems []string  `json:"matching_menu_items"`
	TopPositiveQuote  string    `json:"top_positive_quote,omitempty"`
	TopNegativeQuote  string    `json:"top_negative_quote,omitempty"`
	Confidence        float64   `json:"confidence"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// RankedResult is a venue projected into the response with its score.
type RankedResult struct {
	VenueRecord
	AISummary  *AISummary `json:"ai_summary,omitempty"`
	TotalScore float64    `json:"total_score"`
}

// Response is serialized back to API consumers.
type Response struct {
	Restaurants    []RankedResult `json:"restaurants"`
	SearchLocation Coordinates    `json:"search_location"`
	TotalFound     int            `json:"total_found"`
}

// Config wires runtime tunables into the discovery domain.
type Config struct {
	DefaultRadius     int
	MaxCandidates     int
	CacheTTL          time.Duration
	MinReviewLen      int
	MaxReviews        int
	PromptTokenBudget int
	Prompt            string
	Model             string
	Temperature       float32
}
