package insight

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/metrics"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 10 * time.Second

// Generator turns aggregates into a structured insight. It prefers the model
// and falls back to WeatherRules/MarketRules on any failure.
type Generator struct {
	completer Completer
	timeout   time.Duration
	log       logrus.FieldLogger
}

// NewGenerator creates a Generator. A nil completer always yields rules.
func NewGenerator(completer Completer, log logrus.FieldLogger) *Generator {
	return &Generator{
		completer: completer,
		timeout:   DefaultTimeout,
		log:       log,
	}
}

// Weather never fails; the returned Source tells which path produced the insight.
func (g *Generator) Weather(ctx context.Context, in WeatherInput) (WeatherInsight, Source) {
	rules := WeatherRules(in)
	if g.completer == nil {
		return record("weather", rules, SourceRules)
	}

	prompt, err := RenderWeatherPrompt(in)
	if err != nil {
		g.fallback("weather", err)
		return record("weather", rules, SourceRules)
	}

	var parsed WeatherInsight
	if err := g.completeInto(ctx, prompt, &parsed); err != nil {
		g.fallback("weather", err)
		return record("weather", rules, SourceRules)
	}

	repaired, err := ValidateWeather(parsed)
	g.logRepairs("weather", err)
	if len(repaired.Alerts) == 0 && len(repaired.Guidance) == 0 && repaired.GeneralAdvice == "" {
		g.fallback("weather", err)
		return record("weather", rules, SourceRules)
	}

	if len(repaired.Alerts) == 0 {
		repaired.Alerts = rules.Alerts
	}
	if len(repaired.Guidance) == 0 {
		repaired.Guidance = rules.Guidance
	}
	if repaired.GeneralAdvice == "" {
		repaired.GeneralAdvice = rules.GeneralAdvice
	}
	return record("weather", repaired, SourceModel)
}

// Market never fails; the returned Source tells which path produced the insight.
func (g *Generator) Market(ctx context.Context, in MarketInput) (MarketInsight, Source) {
	rules := MarketRules(in)
	if g.completer == nil {
		return record("market", rules, SourceRules)
	}

	prompt, err := RenderMarketPrompt(in)
	if err != nil {
		g.fallback("market", err)
		return record("market", rules, SourceRules)
	}

	var parsed MarketInsight
	if err := g.completeInto(ctx, prompt, &parsed); err != nil {
		g.fallback("market", err)
		return record("market", rules, SourceRules)
	}

	repaired, err := ValidateMarket(parsed)
	g.logRepairs("market", err)
	if len(repaired.News) == 0 && len(repaired.Factors) == 0 && repaired.GeneralAdvice == "" {
		g.fallback("market", err)
		return record("market", rules, SourceRules)
	}

	if len(repaired.News) == 0 {
		repaired.News = rules.News
	}
	if len(repaired.Factors) == 0 {
		repaired.Factors = rules.Factors
	}
	if repaired.GeneralAdvice == "" {
		repaired.GeneralAdvice = rules.GeneralAdvice
	}
	return record("market", repaired, SourceModel)
}

func (g *Generator) completeInto(ctx context.Context, prompt string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	name := g.completer.Name()
	start := time.Now()
	text, err := g.completer.Complete(ctx, prompt)
	metrics.ProviderLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(name, apperr.Kind(err)).Inc()
		return err
	}

	if err := decodeObject(text, out); err != nil {
		metrics.ProviderRequests.WithLabelValues(name, apperr.Kind(err)).Inc()
		return err
	}
	metrics.ProviderRequests.WithLabelValues(name, "success").Inc()
	return nil
}

func (g *Generator) logRepairs(kind string, err error) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return
	}
	fields := make([]string, len(verr.Issues))
	for i, issue := range verr.Issues {
		fields[i] = issue.String()
	}
	g.log.WithFields(logrus.Fields{
		"kind":   kind,
		"issues": fields,
	}).Warn("repaired model insight")
}

func (g *Generator) fallback(kind string, err error) {
	g.log.WithFields(logrus.Fields{
		"kind":       kind,
		"error":      err,
		"error_kind": apperr.Kind(err),
	}).Warn("falling back to rule-based insight")
}

func record[T any](kind string, insight T, source Source) (T, Source) {
	metrics.InsightSources.WithLabelValues(kind, string(source)).Inc()
	return insight, source
}
