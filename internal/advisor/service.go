package advisor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/geo"
	"github.com/i474232898/farm-insight/internal/insight"
	"github.com/i474232898/farm-insight/internal/market"
	"github.com/i474232898/farm-insight/internal/metrics"
	"github.com/i474232898/farm-insight/internal/store"
	"github.com/i474232898/farm-insight/internal/weather"
)

type WeatherFetcher interface {
	Fetch(ctx context.Context, fix geo.Fix) (weather.Report, error)
}

type MarketFetcher interface {
	Fetch(ctx context.Context, fix geo.Fix) (market.Report, error)
}

type InsightGenerator interface {
	Weather(ctx context.Context, in insight.WeatherInput) (insight.WeatherInsight, insight.Source)
	Market(ctx context.Context, in insight.MarketInput) (insight.MarketInsight, insight.Source)
}

// Service is the public entry point. Its two calls never return an error:
// failures degrade to a stale cache entry and then to mock data, and the
// report's Status and Reason say which happened.
type Service struct {
	weather  WeatherFetcher
	market   MarketFetcher
	insights InsightGenerator

	weatherCache *store.Slot[WeatherPayload]
	marketCache  *store.Slot[MarketPayload]

	language string
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewService wires the facade. The cache slots are owned by the caller so
// they can be shared with other readers or cleared independently.
func NewService(
	weatherFetcher WeatherFetcher,
	marketFetcher MarketFetcher,
	insights InsightGenerator,
	weatherCache *store.Slot[WeatherPayload],
	marketCache *store.Slot[MarketPayload],
	log logrus.FieldLogger,
) *Service {
	return &Service{
		weather:      weatherFetcher,
		market:       marketFetcher,
		insights:     insights,
		weatherCache: weatherCache,
		marketCache:  marketCache,
		language:     "English",
		log:          log,
		now:          time.Now,
	}
}

// WithLanguage sets the language insights are written in.
func (s *Service) WithLanguage(language string) *Service {
	if language != "" {
		s.language = language
	}
	return s
}

// Weather returns the weather report for the locator's current position.
func (s *Service) Weather(ctx context.Context, locator geo.Locator) WeatherReport {
	id := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"request_id": id, "kind": "weather"})

	fix, err := locator.Locate(ctx)
	if err != nil {
		return s.degradedWeather(id, fix, err, log)
	}

	entry, err := s.weatherCache.Get(fix)
	metrics.CacheLookups.WithLabelValues("weather", lookupResult(err)).Inc()
	if err == nil {
		return s.weatherReport(id, entry, StatusCached, "")
	}

	report, err := s.weather.Fetch(ctx, fix)
	if err != nil {
		return s.degradedWeather(id, fix, err, log)
	}

	ins, source := s.insights.Weather(ctx, insight.WeatherInput{
		Context: insight.Context{Place: report.Place, Language: s.language, Date: s.now()},
		Current: report.Current,
		Days:    report.Days,
	})
	entry = s.weatherCache.Set(WeatherPayload{Report: report, Insight: ins, Source: source}, fix)
	return s.weatherReport(id, entry, StatusLive, "")
}

// Market returns the market report for the locator's current position.
func (s *Service) Market(ctx context.Context, locator geo.Locator) MarketReport {
	id := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{"request_id": id, "kind": "market"})

	fix, err := locator.Locate(ctx)
	if err != nil {
		return s.degradedMarket(id, fix, err, log)
	}

	entry, err := s.marketCache.Get(fix)
	metrics.CacheLookups.WithLabelValues("market", lookupResult(err)).Inc()
	if err == nil {
		return s.marketReport(id, entry, StatusCached, "")
	}

	report, err := s.market.Fetch(ctx, fix)
	if err != nil {
		return s.degradedMarket(id, fix, err, log)
	}

	ins, source := s.insights.Market(ctx, insight.MarketInput{
		Context:     insight.Context{Place: placeOf(report), Language: s.language, Date: s.now()},
		State:       report.State,
		District:    report.District,
		Commodities: report.Commodities,
	})
	entry = s.marketCache.Set(MarketPayload{Report: report, Insight: ins, Source: source}, fix)
	return s.marketReport(id, entry, StatusLive, "")
}

// ClearCaches empties both cache slots.
func (s *Service) ClearCaches() {
	s.weatherCache.Clear()
	s.marketCache.Clear()
}

func (s *Service) degradedWeather(id string, fix geo.Fix, cause error, log logrus.FieldLogger) WeatherReport {
	reason := cause.Error()
	if entry, ok := s.weatherCache.Peek(); ok {
		log.WithFields(logrus.Fields{
			"error_kind":  apperr.Kind(cause),
			"error":       cause,
			"captured_at": entry.CapturedAt,
		}).Warn("serving stale weather report")
		return s.weatherReport(id, entry, StatusStale, reason)
	}

	log.WithFields(logrus.Fields{
		"error_kind": apperr.Kind(cause),
		"error":      cause,
	}).Warn("serving mock weather report")

	now := s.now()
	report := MockWeather(now)
	ins := insight.WeatherRules(insight.WeatherInput{
		Context: insight.Context{Place: report.Place, Language: s.language, Date: now},
		Days:    report.Days,
	})
	metrics.InsightSources.WithLabelValues("weather", string(insight.SourceRules)).Inc()
	entry := store.Entry[WeatherPayload]{
		Payload:    WeatherPayload{Report: report, Insight: ins, Source: insight.SourceRules},
		CapturedAt: now,
		Location:   fix,
	}
	return s.weatherReport(id, entry, StatusMock, reason)
}

func (s *Service) degradedMarket(id string, fix geo.Fix, cause error, log logrus.FieldLogger) MarketReport {
	reason := cause.Error()
	if entry, ok := s.marketCache.Peek(); ok {
		log.WithFields(logrus.Fields{
			"error_kind":  apperr.Kind(cause),
			"error":       cause,
			"captured_at": entry.CapturedAt,
		}).Warn("serving stale market report")
		return s.marketReport(id, entry, StatusStale, reason)
	}

	log.WithFields(logrus.Fields{
		"error_kind": apperr.Kind(cause),
		"error":      cause,
	}).Warn("serving mock market report")

	now := s.now()
	report := MockMarket(now)
	ins := insight.MarketRules(insight.MarketInput{
		Context:     insight.Context{Place: placeOf(report), Language: s.language, Date: now},
		State:       report.State,
		Commodities: report.Commodities,
	})
	metrics.InsightSources.WithLabelValues("market", string(insight.SourceRules)).Inc()
	entry := store.Entry[MarketPayload]{
		Payload:    MarketPayload{Report: report, Insight: ins, Source: insight.SourceRules},
		CapturedAt: now,
		Location:   fix,
	}
	return s.marketReport(id, entry, StatusMock, reason)
}

func (s *Service) weatherReport(id string, entry store.Entry[WeatherPayload], status Status, reason string) WeatherReport {
	metrics.Reports.WithLabelValues("weather", string(status)).Inc()
	p := entry.Payload
	return WeatherReport{
		Location:      entry.Location,
		Place:         p.Report.Place,
		Current:       p.Report.Current,
		Days:          p.Report.Days,
		Insight:       p.Insight,
		InsightSource: p.Source,
		Status:        status,
		Reason:        reason,
		CapturedAt:    entry.CapturedAt,
		RequestID:     id,
	}
}

func (s *Service) marketReport(id string, entry store.Entry[MarketPayload], status Status, reason string) MarketReport {
	metrics.Reports.WithLabelValues("market", string(status)).Inc()
	p := entry.Payload
	return MarketReport{
		Location:      entry.Location,
		Region:        geo.Region{State: p.Report.State, District: p.Report.District},
		Commodities:   p.Report.Commodities,
		Insight:       p.Insight,
		InsightSource: p.Source,
		Status:        status,
		Reason:        reason,
		CapturedAt:    entry.CapturedAt,
		RequestID:     id,
	}
}

func lookupResult(err error) string {
	switch {
	case err == nil:
		return "hit"
	case errors.Is(err, store.ErrEmpty):
		return "empty"
	case errors.Is(err, store.ErrExpired):
		return "expired"
	case errors.Is(err, store.ErrDrifted):
		return "drifted"
	default:
		return "error"
	}
}

func placeOf(r market.Report) string {
	if r.District != "" {
		return r.District + ", " + r.State
	}
	return r.State
}
