package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/yanqian/dinescout/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/dinescout/pkg/errors"
	"github.com/yanqian/dinescout/pkg/metrics"
	"github.com/yanqian/dinescout/pkg/util"
)

// ChatClient is the LLM dependency of the summarizer.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Summarizer turns raw venue reviews into a structured analysis and
// persists successful results before returning them.
type Summarizer struct {
	cfg     Config
	client  ChatClient
	store   Store
	logger  *slog.Logger
	encoder *tiktoken.Tiktoken
}

// NewSummarizer wires the review summarizer. The tokenizer is optional:
// when the encoding cannot be loaded the prompt budget falls back to a
// whitespace token count.
func NewSummarizer(cfg Config, client ChatClient, store Store, logger *slog.Logger) *Summarizer {
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using word count budget", "error", err)
		encoder = nil
	}
	return &Summarizer{
		cfg:     cfg,
		client:  client,
		store:   store,
		logger:  logger.With("component", "discovery.summarizer"),
		encoder: encoder,
	}
}

// Generate asks the model for a structured analysis of the venue's reviews.
// Callers must only invoke it when the venue has qualifying reviews.
func (g *Summarizer) Generate(ctx context.Context, venue VenueRecord, req SearchRequest) (AISummary, error) {
	reviews := qualifyingReviews(venue.Reviews, g.cfg.MinReviewLen, g.cfg.MaxReviews)
	if len(reviews) == 0 {
		return AISummary{}, apperrors.Wrap("summary_error", "no qualifying reviews for "+venue.PlaceID, nil)
	}

	completion, err := g.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: g.buildSystemPrompt()},
			{Role: "user", Content: g.buildReviewPrompt(venue, reviews, req)},
		},
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return AISummary{}, apperrors.Wrap("summary_error", "chatgpt request failed", err)
	}
	if len(completion.Choices) == 0 {
		return AISummary{}, apperrors.Wrap("summary_error", "chatgpt returned no choices", nil)
	}

	usage := metrics.TokenUsage{
		PromptTokens:     completion.Usage.PromptTokens,
		CompletionTokens: completion.Usage.CompletionTokens,
		TotalTokens:      completion.Usage.TotalTokens,
	}
	if !usage.IsZero() {
		g.logger.Info("summary tokens consumed", "place_id", venue.PlaceID, "total_tokens", usage.TotalTokens)
	}

	summary, err := parseSummary(completion.Choices[0].Message.Content)
	if err != nil {
		return AISummary{}, apperrors.Wrap("summary_parse_error", "chatgpt response malformed", err)
	}
	summary.PlaceID = venue.PlaceID
	summary.GeneratedAt = util.NowUTC()

	if err := g.store.SaveSummary(ctx, summary); err != nil {
		g.logger.Warn("summary cache write failed", "place_id", venue.PlaceID, "error", err)
	}
	return summary, nil
}

// qualifyingReviews keeps reviews whose text is long enough to carry signal,
// capped at limit. Length is measured in runes so non-ASCII reviews are not
// over-admitted.
func qualifyingReviews(reviews []Review, minLen, limit int) []Review {
	out := make([]Review, 0, len(reviews))
	for _, review := range reviews {
		if utf8.RuneCountInString(strings.TrimSpace(review.Text)) < minLen {
			continue
		}
		out = append(out, review)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func hasQualifyingReviews(reviews []Review, minLen int) bool {
	for _, review := range reviews {
		if utf8.RuneCountInString(strings.TrimSpace(review.Text)) >= minLen {
			return true
		}
	}
	return false
}

func (g *Summarizer) buildSystemPrompt() string {
	base := strings.TrimSpace(g.cfg.Prompt)
	enforcer := " Respond ONLY with valid minified JSON using this shape: {\"rank_score\":number 0-100,\"short_summary\":string of at most two sentences,\"pros\":string[],\"cons\":string[],\"dishes_to_try\":string[],\"matching_menu_items\":string[],\"top_positive_quote\":string,\"top_negative_quote\":string,\"confidence\":number 0-1}. Never return plain text or other fields."
	return base + enforcer
}

func (g *Summarizer) buildReviewPrompt(venue VenueRecord, reviews []Review, req SearchRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Restaurant: %s\n", venue.Name)
	if venue.Rating != nil {
		fmt.Fprintf(&sb, "Overall rating: %.1f/5\n", *venue.Rating)
	}
	if venue.PriceLevel != nil {
		fmt.Fprintf(&sb, "Price level: %d/4\n", *venue.PriceLevel)
	}
	if len(venue.Categories) > 0 {
		fmt.Fprintf(&sb, "Categories: %s\n", strings.Join(venue.Categories, ", "))
	}
	if venue.Address != "" {
		fmt.Fprintf(&sb, "Address: %s\n", venue.Address)
	}
	if req.VegOnly {
		sb.WriteString("The diner wants strictly vegetarian food.\n")
	}
	if req.JainFood {
		sb.WriteString("The diner follows a Jain diet (no onion, no garlic, no root vegetables).\n")
	}
	if len(req.Menu) > 0 {
		fmt.Fprintf(&sb, "The diner is looking for these dishes: %s\n", strings.Join(req.Menu, ", "))
	}

	sb.WriteString("\nReviews:\n")
	budget := g.cfg.PromptTokenBudget
	used := g.countTokens(sb.String())
	for i, review := range reviews {
		entry := fmt.Sprintf("%d. (%.0f stars) %s\n", i+1, review.Rating, strings.TrimSpace(review.Text))
		cost := g.countTokens(entry)
		if budget > 0 && used+cost > budget && i > 0 {
			break
		}
		sb.WriteString(entry)
		used += cost
	}
	return sb.String()
}

func (g *Summarizer) countTokens(text string) int {
	if text == "" {
		return 0
	}
	if g.encoder != nil {
		return len(g.encoder.Encode(text, nil, nil))
	}
	return len(strings.Fields(text))
}

// parseSummary decodes the model output into a bounded summary. The raw
// content may be wrapped in code fences; scores are clamped and list fields
// tolerate a bare string or null in place of an array.
func parseSummary(raw string) (AISummary, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))

	var wire struct {
		RankScore         float64         `json:"rank_score"`
		ShortSummary      string          `json:"short_summary"`
		Pros              json.RawMessage `json:"pros"`
		Cons              json.RawMessage `json:"cons"`
		DishesToTry       json.RawMessage `json:"dishes_to_try"`
		MatchingMenuItems json.RawMessage `json:"matching_menu_items"`
		TopPositiveQuote  string          `json:"top_positive_quote"`
		TopNegativeQuote  string          `json:"top_negative_quote"`
		Confidence        float64         `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(sanitized), &wire); err != nil {
		return AISummary{}, err
	}
	if strings.TrimSpace(wire.ShortSummary) == "" {
		return AISummary{}, errors.New("short_summary missing")
	}

	summary := AISummary{
		RankScore:        clamp(wire.RankScore, 0, 100),
		ShortSummary:     strings.TrimSpace(wire.ShortSummary),
		TopPositiveQuote: strings.TrimSpace(wire.TopPositiveQuote),
		TopNegativeQuote: strings.TrimSpace(wire.TopNegativeQuote),
		Confidence:       clamp(wire.Confidence, 0, 1),
	}
	summary.Pros = coerceStringList(wire.Pros)
	summary.Cons = coerceStringList(wire.Cons)
	summary.DishesToTry = coerceStringList(wire.DishesToTry)
	summary.MatchingMenuItems = coerceStringList(wire.MatchingMenuItems)
	return summary, nil
}

// coerceStringList accepts an array, a bare string, or anything else and
// always produces a non-nil list.
func coerceStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	switch raw[0] {
	case '[':
		var many []string
		if err := json.Unmarshal(raw, &many); err != nil {
			return []string{}
		}
		return normalizeList(many)
	case '"':
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return []string{}
		}
		return normalizeList([]string{single})
	default:
		return []string{}
	}
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if clean := strings.TrimSpace(item); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
