package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Google    GoogleConfig    `yaml:"google"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Store     StoreConfig     `yaml:"store"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// GoogleConfig carries the Maps Platform credentials and endpoints.
type GoogleConfig struct {
	APIKey         string `yaml:"apiKey"`
	GeocodeBaseURL string `yaml:"geocodeBaseUrl"`
	PlacesBaseURL  string `yaml:"placesBaseUrl"`
}

// DiscoveryConfig tunes the restaurant discovery domain.
type DiscoveryConfig struct {
	DefaultRadius     int           `yaml:"defaultRadius"`
	MaxCandidates     int           `yaml:"maxCandidates"`
	CacheTTL          time.Duration `yaml:"cacheTtl"`
	MinReviewLen      int           `yaml:"minReviewLen"`
	MaxReviews        int           `yaml:"maxReviews"`
	PromptTokenBudget int           `yaml:"promptTokenBudget"`
	Prompt            string        `yaml:"prompt"`
}

// StoreConfig selects and configures the venue cache backend.
type StoreConfig struct {
	Backend  string         `yaml:"backend"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the Valkey backend.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("GOOGLE_MAPS_API_KEY"); v != "" {
		cfg.Google.APIKey = v
	}
	if v := os.Getenv("GOOGLE_GEOCODE_BASE_URL"); v != "" {
		cfg.Google.GeocodeBaseURL = v
	}
	if v := os.Getenv("GOOGLE_PLACES_BASE_URL"); v != "" {
		cfg.Google.PlacesBaseURL = v
	}
	if v := os.Getenv("DISCOVERY_DEFAULT_RADIUS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.DefaultRadius = parsed
		}
	}
	if v := os.Getenv("DISCOVERY_MAX_CANDIDATES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.MaxCandidates = parsed
		}
	}
	if v := os.Getenv("DISCOVERY_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Discovery.CacheTTL = parsed
		}
	}
	if v := os.Getenv("DISCOVERY_PROMPT"); v != "" {
		cfg.Discovery.Prompt = v
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("STORE_POSTGRES_DSN"); v != "" {
		cfg.Store.Postgres.DSN = v
	}
	if v := os.Getenv("STORE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Store.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Store.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORE_VALKEY_ADDR"); v != "" {
		cfg.Store.Valkey.Addr = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
		},
		Google: GoogleConfig{
			GeocodeBaseURL: "https://maps.googleapis.com/maps/api/geocode",
			PlacesBaseURL:  "https://maps.googleapis.com/maps/api/place",
		},
		Discovery: DiscoveryConfig{
			DefaultRadius:     5000,
			MaxCandidates:     25,
			CacheTTL:          24 * time.Hour,
			MinReviewLen:      21,
			MaxReviews:        12,
			PromptTokenBudget: 2800,
			Prompt:            "You are a meticulous restaurant analyst. Judge each restaurant ONLY from the reviews provided, never from outside knowledge. Keep the summary to at most two sentences.",
		},
		Store: StoreConfig{
			Backend: "memory",
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
// Missing provider credentials fail here so a request never discovers them mid flight.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm.apiKey is required")
	}
	if strings.TrimSpace(c.Google.APIKey) == "" {
		return errors.New("google.apiKey is required")
	}
	if c.Google.GeocodeBaseURL == "" {
		return errors.New("google.geocodeBaseUrl cannot be empty")
	}
	if c.Google.PlacesBaseURL == "" {
		return errors.New("google.placesBaseUrl cannot be empty")
	}
	if c.Discovery.DefaultRadius <= 0 {
		return errors.New("discovery.defaultRadius must be positive")
	}
	if c.Discovery.MaxCandidates <= 0 {
		return errors.New("discovery.maxCandidates must be positive")
	}
	if c.Discovery.CacheTTL <= 0 {
		return errors.New("discovery.cacheTtl must be positive")
	}
	if c.Discovery.Prompt == "" {
		return errors.New("discovery.prompt cannot be empty")
	}
	switch c.Store.Backend {
	case "memory", "postgres", "valkey":
	default:
		return fmt.Errorf("store.backend %q is not supported", c.Store.Backend)
	}
	if c.Store.Backend == "postgres" && strings.TrimSpace(c.Store.Postgres.DSN) == "" {
		return errors.New("store.postgres.dsn cannot be empty when the postgres backend is selected")
	}
	if c.Store.Backend == "valkey" && strings.TrimSpace(c.Store.Valkey.Addr) == "" {
		return errors.New("store.valkey.addr cannot be empty when the valkey backend is selected")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
