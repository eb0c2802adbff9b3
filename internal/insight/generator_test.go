package insight

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/logging"
	"github.com/i474232898/farm-insight/internal/market"
	"github.com/i474232898/farm-insight/internal/weather"
)

type fakeCompleter struct {
	reply   string
	err     error
	block   bool
	prompts []string
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.block {
		<-ctx.Done()
		return "", fmt.Errorf("%w: %v", apperr.ErrNetwork, ctx.Err())
	}
	return f.reply, f.err
}

var sampleWeather = WeatherInput{
	Context: Context{Place: "Pune", Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
	Days: []weather.DailyAggregate{
		{Day: "Today", DisplayDate: "Jun 1", TempHigh: 33, TempLow: 24, RainTotal: 25, WindAvg: 12, HumidityAvg: 80},
	},
}

var sampleMarket = MarketInput{
	State: "Maharashtra",
	Commodities: []market.CommodityAggregate{
		{Commodity: "Wheat", CurrentPrice: 2850, PriceChangePercent: 5.56, Trend: market.TrendUp},
	},
}

func TestGeneratorWithoutCompleterUsesRules(t *testing.T) {
	g := NewGenerator(nil, logging.Discard())

	w, src := g.Weather(context.Background(), sampleWeather)
	assert.Equal(t, SourceRules, src)
	assert.Equal(t, WeatherRules(sampleWeather), w)

	m, src := g.Market(context.Background(), sampleMarket)
	assert.Equal(t, SourceRules, src)
	assert.Equal(t, MarketRules(sampleMarket), m)
}

func TestGeneratorWeatherFromModel(t *testing.T) {
	c := &fakeCompleter{reply: `Here you go:
{"alerts":[{"type":"rain","severity":"high","title":"Downpour","message":"25 mm today"},
           {"type":"general","severity":"low","title":"Mild","message":"Warm evenings"}],
 "guidanceItems":[{"category":"harvest","title":"Harvest early","items":["Pick ripe tomatoes"],"priority":"high"}],
 "generalAdvice":"Harvest before the rain."}
Hope this helps {:}`}
	g := NewGenerator(c, logging.Discard())

	w, src := g.Weather(context.Background(), sampleWeather)
	require.Equal(t, SourceModel, src)
	require.Len(t, w.Alerts, 2)
	assert.Equal(t, "Downpour", w.Alerts[0].Title)
	assert.Equal(t, CategoryHarvest, w.Guidance[0].Category)
	assert.Equal(t, "Harvest before the rain.", w.GeneralAdvice)

	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "near Pune")
}

func TestGeneratorFillsEmptyCollectionsFromRules(t *testing.T) {
	c := &fakeCompleter{reply: `Sure! Here is the data: {"alerts":[],"guidanceItems":[],"generalAdvice":"ok"} Thanks!`}
	g := NewGenerator(c, logging.Discard())

	w, src := g.Weather(context.Background(), sampleWeather)
	rules := WeatherRules(sampleWeather)

	assert.Equal(t, SourceModel, src)
	assert.Equal(t, "ok", w.GeneralAdvice)
	assert.Equal(t, rules.Alerts, w.Alerts)
	assert.Equal(t, rules.Guidance, w.Guidance)
}

func TestGeneratorFallsBack(t *testing.T) {
	cases := map[string]*fakeCompleter{
		"transport error": {err: fmt.Errorf("%w: 503", apperr.ErrNetwork)},
		"no json":         {reply: "I cannot help with that."},
		"broken json":     {reply: `{"alerts": [}`},
		"empty object":    {reply: `{}`},
		"wrong shape":     {reply: `{"alerts": "none"}`},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			g := NewGenerator(c, logging.Discard())
			w, src := g.Weather(context.Background(), sampleWeather)
			assert.Equal(t, SourceRules, src)
			assert.Equal(t, WeatherRules(sampleWeather), w)
		})
	}
}

func TestGeneratorTimesOut(t *testing.T) {
	g := NewGenerator(&fakeCompleter{block: true}, logging.Discard())
	g.timeout = 20 * time.Millisecond

	start := time.Now()
	_, src := g.Market(context.Background(), sampleMarket)
	assert.Equal(t, SourceRules, src)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGeneratorMarketRepairsModelOutput(t *testing.T) {
	c := &fakeCompleter{reply: `{"news":[{"title":"Wheat firm","summary":"","impact":"up"},{"summary":"no title"}],
		"factors":[],"generalAdvice":""}`}
	g := NewGenerator(c, logging.Discard())

	m, src := g.Market(context.Background(), sampleMarket)
	rules := MarketRules(sampleMarket)

	assert.Equal(t, SourceModel, src)
	require.Len(t, m.News, 1)
	assert.Equal(t, NewsItem{"Wheat firm", "Wheat firm", "", ImpactNeutral}, m.News[0])
	assert.Equal(t, rules.Factors, m.Factors)
	assert.Equal(t, rules.GeneralAdvice, m.GeneralAdvice)
}

func TestNewCompleter(t *testing.T) {
	c, err := NewCompleter(context.Background(), CompleterConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = NewCompleter(context.Background(), CompleterConfig{Provider: "gemini"})
	require.NoError(t, err)
	assert.Nil(t, c, "missing credential means rules only")

	c, err = NewCompleter(context.Background(), CompleterConfig{Provider: "Claude", AnthropicAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "claude", c.Name())

	_, err = NewCompleter(context.Background(), CompleterConfig{Provider: "llama"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrNetwork))
}
