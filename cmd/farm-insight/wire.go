package main

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insight/internal/advisor"
	"github.com/i474232898/farm-insight/internal/config"
	"github.com/i474232898/farm-insight/internal/geo"
	"github.com/i474232898/farm-insight/internal/insight"
	"github.com/i474232898/farm-insight/internal/market"
	marketproviders "github.com/i474232898/farm-insight/internal/market/providers"
	"github.com/i474232898/farm-insight/internal/store"
	"github.com/i474232898/farm-insight/internal/transport"
	"github.com/i474232898/farm-insight/internal/weather"
	weatherproviders "github.com/i474232898/farm-insight/internal/weather/providers"
)

// buildAdvisor wires providers, services, caches and the insight generator.
func buildAdvisor(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (*advisor.Service, error) {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	tcfg := transport.Config{Client: httpClient, Timeout: cfg.HTTPTimeout}

	weatherProvider := weatherproviders.NewOpenWeatherProvider(tcfg, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey)
	marketProvider := marketproviders.NewDataGovProvider(tcfg, marketproviders.DataGovOptions{
		BaseURL:    cfg.MarketBaseURL,
		ResourceID: cfg.MarketResourceID,
		APIKey:     cfg.MarketAPIKey,
		PageLimit:  cfg.MarketPageLimit,
		MaxPages:   cfg.MarketMaxPages,
	})
	regions := geo.NewRegionResolver(cfg.GeocoderAPIKey, cfg.DefaultRegion, log)

	completer, err := insight.NewCompleter(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	if completer == nil {
		log.WithField("provider", cfg.LLM.Provider).Info("no model credential configured; insights use rules only")
	}

	svc := advisor.NewService(
		weather.NewService(weatherProvider, log),
		market.NewService(marketProvider, regions, log),
		insight.NewGenerator(completer, log),
		store.NewSlot[advisor.WeatherPayload](cfg.CacheTTL, cfg.CacheMaxDrift),
		store.NewSlot[advisor.MarketPayload](cfg.CacheTTL, cfg.CacheMaxDrift),
		log,
	)
	return svc.WithLanguage(cfg.InsightLanguage), nil
}
