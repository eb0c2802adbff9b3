package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insight/internal/geo"
)

// Service fetches current conditions and the forecast for a fix, then
// normalizes and aggregates them into a Report.
type Service struct {
	provider Provider
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(provider Provider, log logrus.FieldLogger) *Service {
	return &Service{
		provider: provider,
		log:      log,
		now:      time.Now,
	}
}

// Fetch calls the provider's current and forecast endpoints concurrently. The
// forecast is required; a failed current-conditions call only drops Current.
func (s *Service) Fetch(ctx context.Context, fix geo.Fix) (Report, error) {
	if s.provider == nil {
		return Report{}, fmt.Errorf("no weather provider configured")
	}

	var (
		wg                      sync.WaitGroup
		current                 CurrentPayload
		forecast                ForecastPayload
		currentErr, forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.provider.FetchCurrent(ctx, fix)
	}()
	go func() {
		defer wg.Done()
		forecast, forecastErr = s.provider.FetchForecast(ctx, fix)
	}()
	wg.Wait()

	if forecastErr != nil {
		return Report{}, forecastErr
	}

	normalized, err := NormalizeForecast(forecast)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Place: normalized.Place,
		Days:  AggregateDaily(normalized, s.now()),
	}

	if currentErr != nil {
		s.log.WithFields(logrus.Fields{
			"provider": s.provider.Name(),
			"fix":      fix.String(),
			"error":    currentErr,
		}).Warn("current conditions unavailable; continuing with forecast only")
		return report, nil
	}

	cur, err := NormalizeCurrent(current)
	if err != nil {
		s.log.WithField("error", err).Warn("discarding malformed current conditions")
		return report, nil
	}
	if cur.Place == "" {
		cur.Place = report.Place
	}
	report.Current = &cur
	return report, nil
}
