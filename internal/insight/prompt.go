package insight

import (
	"strings"
	"text/template"
)

var weatherPrompt = template.Must(template.New("weather").Parse(`You are an agricultural advisor helping farmers near {{.Context.Place}}.
Today is {{.Context.Date.Format "2 January 2006"}}. Write every text field in {{.Context.Language}}.
{{with .Current}}
Current conditions: {{.Condition}}, {{printf "%.1f" .TempC}}°C (feels like {{printf "%.1f" .FeelsLikeC}}°C), humidity {{printf "%.0f" .HumidityPct}}%, wind {{printf "%.1f" .WindKmh}} km/h, rain {{printf "%.1f" .RainMm}} mm.
{{end}}
Daily forecast:
{{range .Days}}- {{.Day}} ({{.DisplayDate}}): {{.Condition}}, high {{printf "%.1f" .TempHigh}}°C, low {{printf "%.1f" .TempLow}}°C, rain {{printf "%.1f" .RainTotal}} mm, wind {{printf "%.1f" .WindAvg}} km/h, gusts {{printf "%.1f" .GustMax}} km/h, humidity {{printf "%.0f" .HumidityAvg}}%, UV {{.UVIndex}}
{{else}}- no forecast available
{{end}}
Reply with exactly one JSON object and nothing else, in this shape:
{"alerts":[{"type":"rain|wind|heat|cold|humidity|general","severity":"low|medium|high","title":"...","message":"..."}],
"guidanceItems":[{"category":"irrigation|crop|pest|harvest|general","title":"...","items":["..."],"priority":"low|medium|high"}],
"generalAdvice":"one sentence"}
Give 2 to 4 alerts and 1 to 4 guidance groups.
`))

var marketPrompt = template.Must(template.New("market").Parse(`You are an agricultural market analyst advising farmers in {{.Region}}.
Today is {{.Context.Date.Format "2 January 2006"}}. Write every text field in {{.Context.Language}}.

Mandi prices (rupees per quintal):
{{range .Commodities}}- {{.Commodity}}{{if .Variety}} ({{.Variety}}){{end}}: current {{printf "%.0f" .CurrentPrice}}, range {{printf "%.0f" .MinPrice}}-{{printf "%.0f" .MaxPrice}}, change {{printf "%.2f" .PriceChangePercent}}%, trend {{.Trend}}, demand {{.Demand}}, supply {{.Supply}}, volatility {{printf "%.2f" .Volatility}}%, {{.MarketCount}} markets
{{else}}- no price reports available
{{end}}
Reply with exactly one JSON object and nothing else, in this shape:
{"news":[{"title":"...","summary":"...","commodity":"...","impact":"positive|negative|neutral"}],
"factors":[{"name":"...","description":"...","impact":"positive|negative|neutral"}],
"generalAdvice":"one sentence"}
Give 2 to 4 news items and 1 to 4 factors.
`))

func withDefaults(c Context) Context {
	if c.Language == "" {
		c.Language = "English"
	}
	if c.Place == "" {
		c.Place = "the farm"
	}
	return c
}

// RenderWeatherPrompt fills the fixed weather template.
func RenderWeatherPrompt(in WeatherInput) (string, error) {
	in.Context = withDefaults(in.Context)
	var b strings.Builder
	if err := weatherPrompt.Execute(&b, in); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderMarketPrompt fills the fixed market template.
func RenderMarketPrompt(in MarketInput) (string, error) {
	in.Context = withDefaults(in.Context)
	data := struct {
		MarketInput
		Region string
	}{in, regionLabel(in)}

	var b strings.Builder
	if err := marketPrompt.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
