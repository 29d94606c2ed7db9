package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/dinescout/internal/domain/discovery"
	"github.com/yanqian/dinescout/internal/infra/config"
	"github.com/yanqian/dinescout/internal/infra/geocode/googlemaps"
	"github.com/yanqian/dinescout/internal/infra/llm/chatgpt"
	"github.com/yanqian/dinescout/internal/infra/places/googleplaces"
	"github.com/yanqian/dinescout/internal/infra/venuestore"
)

func provideDiscoveryConfig(cfg *config.Config) discovery.Config {
	return discovery.Config{
		DefaultRadius:     cfg.Discovery.DefaultRadius,
		MaxCandidates:     cfg.Discovery.MaxCandidates,
		CacheTTL:          cfg.Discovery.CacheTTL,
		MinReviewLen:      cfg.Discovery.MinReviewLen,
		MaxReviews:        cfg.Discovery.MaxReviews,
		PromptTokenBudget: cfg.Discovery.PromptTokenBudget,
		Prompt:            cfg.Discovery.Prompt,
		Model:             cfg.LLM.Model,
		Temperature:       cfg.LLM.Temperature,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideGeoClient(cfg *config.Config) *googlemaps.Client {
	return googlemaps.NewClient(cfg.Google.APIKey, cfg.Google.GeocodeBaseURL)
}

func providePlacesClient(cfg *config.Config) *googleplaces.Client {
	return googleplaces.NewClient(cfg.Google.APIKey, cfg.Google.PlacesBaseURL)
}

func provideStore(cfg *config.Config, logger *slog.Logger) discovery.Store {
	switch cfg.Store.Backend {
	case "postgres":
		if store := buildPostgresStore(cfg, logger); store != nil {
			return store
		}
	case "valkey":
		if store := buildValkeyStore(cfg, logger); store != nil {
			return store
		}
	}
	logger.Info("venue cache using memory store", "backend", cfg.Store.Backend)
	return venuestore.NewMemoryStore()
}

func buildPostgresStore(cfg *config.Config, logger *slog.Logger) discovery.Store {
	poolConfig, err := pgxpool.ParseConfig(cfg.Store.Postgres.DSN)
	if err != nil {
		logger.Error("invalid postgres dsn, falling back to memory store", "error", err)
		return nil
	}
	if cfg.Store.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Store.Postgres.MaxConns
	}
	if cfg.Store.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Store.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, falling back to memory store", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, falling back to memory store", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("venue cache using postgres store")
	return venuestore.NewPostgresStore(pool)
}

func buildValkeyStore(cfg *config.Config, logger *slog.Logger) discovery.Store {
	opt, err := buildValkeyOptions(cfg.Store.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		return nil
	}
	logger.Info("venue cache using valkey store", "addr", cfg.Store.Valkey.Addr)
	return venuestore.NewValkeyStore(client, "dinescout", cfg.Discovery.CacheTTL)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
