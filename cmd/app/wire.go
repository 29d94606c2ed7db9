//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/dinescout/internal/bootstrap"
	"github.com/yanqian/dinescout/internal/domain/discovery"
	"github.com/yanqian/dinescout/internal/infra/config"
	"github.com/yanqian/dinescout/internal/infra/geocode/googlemaps"
	"github.com/yanqian/dinescout/internal/infra/llm/chatgpt"
	"github.com/yanqian/dinescout/internal/infra/places/googleplaces"
	httpiface "github.com/yanqian/dinescout/internal/interface/http"
	"github.com/yanqian/dinescout/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideDiscoveryConfig,
		provideChatGPTClient,
		provideGeoClient,
		providePlacesClient,
		provideStore,
		discovery.NewSummarizer,
		discovery.NewService,
		wire.Bind(new(discovery.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(discovery.GeoClient), new(*googlemaps.Client)),
		wire.Bind(new(discovery.PlacesClient), new(*googleplaces.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
