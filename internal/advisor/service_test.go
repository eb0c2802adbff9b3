package advisor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/geo"
	"github.com/i474232898/farm-insight/internal/insight"
	"github.com/i474232898/farm-insight/internal/logging"
	"github.com/i474232898/farm-insight/internal/market"
	"github.com/i474232898/farm-insight/internal/store"
	"github.com/i474232898/farm-insight/internal/weather"
)

type fakeWeather struct {
	report weather.Report
	err    error
	calls  int
}

func (f *fakeWeather) Fetch(context.Context, geo.Fix) (weather.Report, error) {
	f.calls++
	return f.report, f.err
}

type fakeMarket struct {
	report market.Report
	err    error
	calls  int
}

func (f *fakeMarket) Fetch(context.Context, geo.Fix) (market.Report, error) {
	f.calls++
	return f.report, f.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type harness struct {
	svc     *Service
	weather *fakeWeather
	market  *fakeMarket
	clock   *clock
}

func newHarness() *harness {
	c := &clock{t: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)}
	w := &fakeWeather{report: weather.Report{
		Place: "Pune, IN",
		Days:  []weather.DailyAggregate{{Day: "Today", TempHigh: 31, TempLow: 22}},
	}}
	m := &fakeMarket{report: market.Report{
		State:    "Maharashtra",
		District: "Pune",
		Commodities: []market.CommodityAggregate{
			{Commodity: "Onion", CurrentPrice: 2000, Trend: market.TrendStable},
		},
	}}

	svc := NewService(w, m,
		insight.NewGenerator(nil, logging.Discard()),
		store.NewSlot[WeatherPayload](time.Hour, 0.01).WithClock(c.now),
		store.NewSlot[MarketPayload](time.Hour, 0.01).WithClock(c.now),
		logging.Discard(),
	)
	svc.now = c.now
	return &harness{svc: svc, weather: w, market: m, clock: c}
}

var pune = geo.Static{Latitude: 18.52, Longitude: 73.85}

func TestWeatherLiveThenCached(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	first := h.svc.Weather(ctx, pune)
	assert.Equal(t, StatusLive, first.Status)
	assert.Empty(t, first.Reason)
	assert.Equal(t, "Pune, IN", first.Place)
	assert.Equal(t, insight.SourceRules, first.InsightSource)
	assert.NotEmpty(t, first.Insight.Alerts)
	assert.NotEmpty(t, first.RequestID)
	assert.Equal(t, geo.Fix(pune), first.Location)

	h.clock.t = h.clock.t.Add(59 * time.Minute)
	second := h.svc.Weather(ctx, geo.Static{Latitude: 18.525, Longitude: 73.855})
	assert.Equal(t, StatusCached, second.Status)
	assert.Equal(t, first.CapturedAt, second.CapturedAt)
	assert.NotEqual(t, first.RequestID, second.RequestID)
	assert.Equal(t, 1, h.weather.calls)
}

func TestWeatherRefetchesAfterTTLOrDrift(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.svc.Weather(ctx, pune)
	h.clock.t = h.clock.t.Add(61 * time.Minute)
	assert.Equal(t, StatusLive, h.svc.Weather(ctx, pune).Status)

	assert.Equal(t, StatusLive, h.svc.Weather(ctx, geo.Static{Latitude: 18.54, Longitude: 73.85}).Status)
	assert.Equal(t, 3, h.weather.calls)
}

func TestWeatherServesStaleOnFailure(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	live := h.svc.Weather(ctx, pune)
	h.clock.t = h.clock.t.Add(2 * time.Hour)
	h.weather.err = fmt.Errorf("%w: openweathermap: timeout", apperr.ErrNetwork)

	stale := h.svc.Weather(ctx, pune)
	assert.Equal(t, StatusStale, stale.Status)
	assert.Contains(t, stale.Reason, "network error")
	assert.Equal(t, live.CapturedAt, stale.CapturedAt)
	assert.Equal(t, live.Days, stale.Days)
}

func TestWeatherServesMockWithoutCache(t *testing.T) {
	h := newHarness()
	h.weather.err = fmt.Errorf("%w: forecast list empty", apperr.ErrMalformedPayload)

	report := h.svc.Weather(context.Background(), pune)
	assert.Equal(t, StatusMock, report.Status)
	assert.Equal(t, insight.SourceRules, report.InsightSource)
	assert.Len(t, report.Days, weather.MaxForecastDays)
	assert.NotEmpty(t, report.Insight.Guidance)
	assert.NotEmpty(t, report.Insight.GeneralAdvice)
}

func TestWeatherLocationUnavailable(t *testing.T) {
	h := newHarness()

	report := h.svc.Weather(context.Background(), geo.Unavailable{Reason: "permission denied"})
	assert.Equal(t, StatusMock, report.Status)
	assert.Contains(t, report.Reason, "permission denied")
	assert.Zero(t, h.weather.calls)

	h.svc.Weather(context.Background(), pune)
	report = h.svc.Weather(context.Background(), geo.Unavailable{})
	assert.Equal(t, StatusStale, report.Status)
}

func TestMarketLiveCachedAndStale(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	live := h.svc.Market(ctx, pune)
	assert.Equal(t, StatusLive, live.Status)
	assert.Equal(t, geo.Region{State: "Maharashtra", District: "Pune"}, live.Region)
	require.Len(t, live.Commodities, 1)
	assert.Len(t, live.Insight.News, 2)

	assert.Equal(t, StatusCached, h.svc.Market(ctx, pune).Status)

	h.svc.ClearCaches()
	h.market.err = fmt.Errorf("%w: no state", apperr.ErrLocationUnavailable)
	mock := h.svc.Market(ctx, pune)
	assert.Equal(t, StatusMock, mock.Status)
	assert.NotEmpty(t, mock.Commodities)
	assert.Equal(t, "Sample State", mock.Region.State)

	h.market.err = nil
	h.svc.Market(ctx, pune)
	h.clock.t = h.clock.t.Add(3 * time.Hour)
	h.market.err = fmt.Errorf("%w: 503", apperr.ErrNetwork)
	assert.Equal(t, StatusStale, h.svc.Market(ctx, pune).Status)
}

func TestMockMarketTrends(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	report := MockMarket(now)
	require.Len(t, report.Commodities, 3)

	trends := map[string]market.Trend{}
	for _, c := range report.Commodities {
		trends[c.Commodity] = c.Trend
		assert.LessOrEqual(t, len(c.PriceHistory), market.HistoryMonths)
	}
	assert.Equal(t, market.TrendUp, trends["Wheat"])
	assert.Equal(t, market.TrendDown, trends["Onion"])
	assert.Equal(t, market.TrendStable, trends["Tomato"])
}
