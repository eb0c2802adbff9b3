package advisor

import (
	"time"

	"github.com/i474232898/farm-insight/internal/market"
	"github.com/i474232898/farm-insight/internal/weather"
)

const mockPlace = "Sample Farm"

// MockWeather returns a fixed five-day outlook anchored at now. It is served
// only when no live or cached report exists.
func MockWeather(now time.Time) weather.Report {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	conditions := []weather.Condition{
		weather.ConditionSunny,
		weather.ConditionPartlyCloudy,
		weather.ConditionCloudy,
		weather.ConditionRainy,
		weather.ConditionPartlyCloudy,
	}
	f := weather.Forecast{
		Place: mockPlace,
		Zone:  time.UTC,
		Sun:   weather.SunWindow{Sunrise: day.Add(6 * time.Hour), Sunset: day.Add(18 * time.Hour)},
	}
	for d, cond := range conditions {
		for h := 0; h < 24; h += 3 {
			temp := 22.0 + float64(h)/3 + float64(d%2)
			o := weather.RawObservation{
				Timestamp:       day.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour),
				TempKelvin:      temp + 273.15,
				FeelsLikeKelvin: temp + 274.15,
				HumidityPct:     60 + float64(d*4),
				WindMs:          2.5,
				WindDegrees:     240,
				PressureHpa:     1010,
				CloudPct:        float64(d * 20),
				VisibilityM:     10000,
				Condition:       cond,
			}
			if cond == weather.ConditionRainy {
				o.RainMm = 1.5
			}
			f.Observations = append(f.Observations, o)
		}
	}

	return weather.Report{
		Place: mockPlace,
		Days:  weather.AggregateDaily(f, now),
	}
}

// MockMarket returns fixed prices for a few staple commodities.
func MockMarket(now time.Time) market.Report {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	series := []struct {
		commodity, variety string
		prices             []int64
	}{
		{"Wheat", "Lokwan", []int64{2650, 2720, 2780, 2750, 2820, 2850}},
		{"Onion", "Red", []int64{2400, 2300, 2150, 2100, 1950, 1900}},
		{"Tomato", "Local", []int64{1500, 1480, 1520, 1510, 1490, 1500}},
	}

	var records []market.RawPriceRecord
	for _, s := range series {
		for i, p := range s.prices {
			records = append(records, market.RawPriceRecord{
				State:       "Sample State",
				Market:      "Sample Mandi",
				Commodity:   s.commodity,
				Variety:     s.variety,
				Grade:       "FAQ",
				ArrivalDate: day.AddDate(0, 0, -30*(len(s.prices)-1-i)),
				MinPrice:    p - 100,
				MaxPrice:    p + 100,
				ModalPrice:  p,
			})
		}
	}

	return market.Report{
		State:       "Sample State",
		Commodities: market.Aggregate(records, now),
	}
}
