package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/i474232898/farm-insight/internal/market"
)

const (
	heavyRainMm     = 20.0
	strongWindKmh   = 20.0
	galeWindKmh     = 40.0
	heatC           = 35.0
	coldC           = 10.0
	humidPct        = 85.0
	volatilePct     = 20.0
	maxItems        = 4
	minNewsOrAlerts = 2
)

type weatherSummary struct {
	days      int
	high      float64
	low       float64
	rainTotal float64
	rainMax   float64
	rainDay   string
	wind      float64
	humidity  float64
}

func summarizeWeather(in WeatherInput) (weatherSummary, bool) {
	s := weatherSummary{days: len(in.Days), high: math.Inf(-1), low: math.Inf(1)}
	for _, d := range in.Days {
		s.high = math.Max(s.high, d.TempHigh)
		s.low = math.Min(s.low, d.TempLow)
		s.rainTotal += d.RainTotal
		if d.RainTotal > s.rainMax {
			s.rainMax, s.rainDay = d.RainTotal, d.Day
		}
		s.wind = math.Max(s.wind, d.WindAvg)
		s.humidity = math.Max(s.humidity, d.HumidityAvg)
	}
	if c := in.Current; c != nil {
		s.high = math.Max(s.high, c.TempC)
		s.low = math.Min(s.low, c.TempC)
		if c.RainMm > s.rainMax {
			s.rainMax, s.rainDay = c.RainMm, "Today"
		}
		s.wind = math.Max(s.wind, c.WindKmh)
		s.humidity = math.Max(s.humidity, c.HumidityPct)
	}
	if s.days == 0 && in.Current == nil {
		return weatherSummary{}, false
	}
	return s, true
}

// WeatherRules derives a weather insight from fixed thresholds. It needs no
// network and always returns 2-4 alerts, 1-4 guidance groups and advice.
func WeatherRules(in WeatherInput) WeatherInsight {
	s, ok := summarizeWeather(in)
	if !ok {
		return WeatherInsight{
			Alerts: []Alert{
				{AlertGeneral, SeverityLow, "Forecast unavailable", "No weather data could be loaded for your location."},
				{AlertGeneral, SeverityLow, "Check conditions locally", "Look at the sky and soil before irrigating or spraying today."},
			},
			Guidance: []GuidanceGroup{{
				Category: CategoryIrrigation,
				Title:    "Keep your usual schedule",
				Items:    []string{"Water based on soil moisture rather than a fixed timetable"},
				Priority: SeverityLow,
			}},
			GeneralAdvice: "No forecast data is available right now; follow your usual field routine and check again later.",
		}
	}

	var alerts []Alert
	if s.rainMax > heavyRainMm {
		alerts = append(alerts, Alert{AlertRain, SeverityHigh, "Heavy rain expected",
			fmt.Sprintf("Up to %.0f mm of rain is forecast %s.", s.rainMax, dayPhrase(s.rainDay))})
	}
	if s.wind > strongWindKmh {
		sev := SeverityMedium
		if s.wind > galeWindKmh {
			sev = SeverityHigh
		}
		alerts = append(alerts, Alert{AlertWind, sev, "Strong winds",
			fmt.Sprintf("Winds up to %.0f km/h may damage tall crops and make spraying ineffective.", s.wind)})
	}
	if s.high > heatC {
		alerts = append(alerts, Alert{AlertHeat, SeverityHigh, "Heat stress",
			fmt.Sprintf("Daytime highs reach %.1f°C; crops and livestock need extra water.", s.high)})
	}
	if s.low < coldC {
		alerts = append(alerts, Alert{AlertCold, SeverityMedium, "Cold nights",
			fmt.Sprintf("Temperatures drop to %.1f°C; protect seedlings and sensitive crops.", s.low)})
	}
	if s.humidity > humidPct {
		alerts = append(alerts, Alert{AlertHumidity, SeverityMedium, "High humidity",
			fmt.Sprintf("Humidity up to %.0f%% raises the risk of fungal disease.", s.humidity)})
	}
	if len(alerts) > maxItems {
		alerts = alerts[:maxItems]
	}
	pads := []Alert{
		{AlertGeneral, SeverityLow, "No severe weather", fmt.Sprintf("No severe weather is expected over the next %d days.", max(s.days, 1))},
		{AlertGeneral, SeverityLow, "Keep monitoring", "Check the forecast again before spraying or irrigating."},
	}
	for i := 0; len(alerts) < minNewsOrAlerts; i++ {
		if i == 0 && len(alerts) > 0 {
			continue
		}
		alerts = append(alerts, pads[i])
	}

	return WeatherInsight{
		Alerts:        alerts,
		Guidance:      weatherGuidance(s),
		GeneralAdvice: weatherAdvice(s),
	}
}

func weatherGuidance(s weatherSummary) []GuidanceGroup {
	heavyRain := s.rainMax > heavyRainMm

	var irrigation GuidanceGroup
	switch {
	case heavyRain:
		irrigation = GuidanceGroup{CategoryIrrigation, "Pause irrigation", []string{
			"Skip irrigation while heavy rain is forecast",
			"Clear field drains to prevent waterlogging",
		}, SeverityMedium}
	case s.high > heatC:
		irrigation = GuidanceGroup{CategoryIrrigation, "Irrigate early", []string{
			"Irrigate early in the morning or late in the evening",
			"Mulch beds to hold soil moisture",
		}, SeverityHigh}
	default:
		irrigation = GuidanceGroup{CategoryIrrigation, "Maintain irrigation schedule", []string{
			"Water based on soil moisture rather than a fixed timetable",
		}, SeverityLow}
	}
	groups := []GuidanceGroup{irrigation}

	var protect []string
	if s.wind > strongWindKmh {
		protect = append(protect, "Stake tall crops and postpone spraying until winds drop")
	}
	if s.high > heatC {
		protect = append(protect, "Provide shade for nurseries and young plants")
	}
	if s.low < coldC {
		protect = append(protect, "Cover seedlings overnight")
	}
	if len(protect) > 0 {
		groups = append(groups, GuidanceGroup{CategoryCrop, "Protect standing crops", protect, SeverityMedium})
	}

	if s.humidity > humidPct || heavyRain {
		groups = append(groups, GuidanceGroup{CategoryPest, "Watch for disease", []string{
			"Inspect leaves for fungal spots after wet or humid spells",
			"Apply preventive fungicide only in a dry window",
		}, SeverityMedium})
	}

	if heavyRain {
		groups = append(groups, GuidanceGroup{CategoryHarvest, "Plan harvest around rain", []string{
			fmt.Sprintf("Harvest mature produce before the rain %s", dayPhrase(s.rainDay)),
			"Store harvested produce under cover",
		}, SeverityHigh})
	}
	return groups
}

func dayPhrase(label string) string {
	switch label {
	case "Today", "Tomorrow":
		return strings.ToLower(label)
	default:
		return "on " + label
	}
}

func weatherAdvice(s weatherSummary) string {
	if s.days == 0 {
		return fmt.Sprintf("Currently %.1f°C with winds of %.0f km/h; forecast details are not available yet.", s.high, s.wind)
	}
	return fmt.Sprintf("Over the next %d days expect highs up to %.1f°C, lows down to %.1f°C, %.1f mm of rain in total and winds up to %.0f km/h.",
		s.days, s.high, s.low, s.rainTotal, s.wind)
}

// MarketRules derives a market insight from trends, demand, supply and
// volatility. It always returns 2-4 news items, 1-4 factors and advice.
func MarketRules(in MarketInput) MarketInsight {
	region := regionLabel(in)
	if len(in.Commodities) == 0 {
		return MarketInsight{
			News: []NewsItem{
				{"Mandi prices unavailable", fmt.Sprintf("No recent price reports were found for %s.", region), "", ImpactNeutral},
				{"Check your local mandi", "Confirm rates with the nearest market before selling.", "", ImpactNeutral},
			},
			Factors:       []Factor{{"No market data", "Price trends cannot be assessed until new reports arrive.", ImpactNeutral}},
			GeneralAdvice: "No market data is available right now; check your nearest mandi before selling.",
		}
	}

	var news []NewsItem
	for _, c := range in.Commodities {
		if len(news) == maxItems {
			break
		}
		news = append(news, commodityNews(c))
	}
	if len(news) < minNewsOrAlerts {
		markets := 0
		for _, c := range in.Commodities {
			markets += c.MarketCount
		}
		news = append(news, NewsItem{
			Title:   "Market overview",
			Summary: fmt.Sprintf("%d commodities tracked across %d market reports in %s.", len(in.Commodities), markets, region),
			Impact:  ImpactNeutral,
		})
	}

	return MarketInsight{
		News:          news,
		Factors:       marketFactors(in.Commodities),
		GeneralAdvice: marketAdvice(in.Commodities, region),
	}
}

func commodityNews(c market.CommodityAggregate) NewsItem {
	name := commodityName(c)
	switch c.Trend {
	case market.TrendUp:
		return NewsItem{name + " prices rising",
			fmt.Sprintf("Modal price ₹%.0f/quintal, up %.2f%% over the last month.", c.CurrentPrice, c.PriceChangePercent),
			c.Commodity, ImpactPositive}
	case market.TrendDown:
		return NewsItem{name + " prices falling",
			fmt.Sprintf("Modal price ₹%.0f/quintal, down %.2f%% over the last month.", c.CurrentPrice, math.Abs(c.PriceChangePercent)),
			c.Commodity, ImpactNegative}
	default:
		return NewsItem{name + " prices steady",
			fmt.Sprintf("Modal price holding near ₹%.0f/quintal.", c.CurrentPrice),
			c.Commodity, ImpactNeutral}
	}
}

func marketFactors(commodities []market.CommodityAggregate) []Factor {
	var demand, supply, volatile []string
	for _, c := range commodities {
		name := commodityName(c)
		if c.Demand == market.LevelHigh || c.Demand == market.LevelVeryHigh {
			demand = append(demand, name)
		}
		if c.Supply == market.LevelHigh || c.Supply == market.LevelVeryHigh {
			supply = append(supply, name)
		}
		if c.Volatility > volatilePct {
			volatile = append(volatile, name)
		}
	}

	var factors []Factor
	if len(demand) > 0 {
		factors = append(factors, Factor{"Strong demand",
			"Buyers are active for " + joinNames(demand) + ".", ImpactPositive})
	}
	if len(supply) > 0 {
		factors = append(factors, Factor{"Heavy arrivals",
			"High supply is weighing on " + joinNames(supply) + ".", ImpactNegative})
	}
	if len(volatile) > 0 {
		factors = append(factors, Factor{"Price volatility",
			"Prices are swinging widely for " + joinNames(volatile) + ".", ImpactNegative})
	}
	if len(factors) == 0 {
		factors = append(factors, Factor{"Balanced market",
			"Demand and arrivals are broadly in balance.", ImpactNeutral})
	}
	return factors
}

func marketAdvice(commodities []market.CommodityAggregate, region string) string {
	var up, down, stable int
	for _, c := range commodities {
		switch c.Trend {
		case market.TrendUp:
			up++
		case market.TrendDown:
			down++
		default:
			stable++
		}
	}
	top := commodities[0]
	return fmt.Sprintf("Across %d commodities in %s, %d are rising, %d falling and %d steady; %s leads at ₹%.0f/quintal.",
		len(commodities), region, up, down, stable, commodityName(top), top.CurrentPrice)
}

func commodityName(c market.CommodityAggregate) string {
	name := strings.TrimSpace(c.Commodity)
	if name == "" {
		name = "Produce"
	}
	if c.Variety != "" && !strings.EqualFold(c.Variety, "other") {
		name += " (" + c.Variety + ")"
	}
	return name
}

func joinNames(names []string) string {
	if len(names) > 3 {
		names = append(names[:3:3], "others")
	}
	return strings.Join(names, ", ")
}

func regionLabel(in MarketInput) string {
	switch {
	case in.District != "" && in.State != "":
		return in.District + ", " + in.State
	case in.State != "":
		return in.State
	case in.Context.Place != "":
		return in.Context.Place
	default:
		return "your area"
	}
}
