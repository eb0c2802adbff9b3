package weather

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/common"
)

// defaultVisibilityM is assumed when the provider omits visibility.
const defaultVisibilityM = 10000

// KelvinToCelsius converts a Kelvin temperature to Celsius.
func KelvinToCelsius(k float64) float64 { return k - 273.15 }

// MsToKmh converts a speed from m/s to km/h.
func MsToKmh(v float64) float64 { return v * 3.6 }

// MetersToKm converts a distance from meters to kilometers.
func MetersToKm(m float64) float64 { return m / 1000 }

var conditionByMain = map[string]Condition{
	"Clear":        ConditionSunny,
	"Clouds":       ConditionCloudy,
	"Rain":         ConditionRainy,
	"Drizzle":      ConditionRainy,
	"Thunderstorm": ConditionStormy,
	"Squall":       ConditionStormy,
	"Tornado":      ConditionStormy,
	"Snow":         ConditionSnowy,
	"Mist":         ConditionFoggy,
	"Fog":          ConditionFoggy,
	"Haze":         ConditionFoggy,
	"Smoke":        ConditionFoggy,
	"Dust":         ConditionFoggy,
	"Sand":         ConditionFoggy,
	"Ash":          ConditionFoggy,
}

// Keyed by the two-digit icon prefix ("10d" -> "10").
var conditionByIcon = map[string]Condition{
	"01": ConditionSunny,
	"02": ConditionPartlyCloudy,
	"03": ConditionCloudy,
	"04": ConditionCloudy,
	"09": ConditionRainy,
	"10": ConditionRainy,
	"11": ConditionStormy,
	"13": ConditionSnowy,
	"50": ConditionFoggy,
}

// MapCondition maps the provider's condition triple to the internal vocabulary.
// Unknown values fall back to ConditionPartlyCloudy.
func MapCondition(main, icon, description string, cloudPct float64) Condition {
	if c, ok := conditionByMain[main]; ok {
		if c == ConditionCloudy && cloudPct > 0 && cloudPct < 50 {
			return ConditionPartlyCloudy
		}
		return c
	}
	if len(icon) >= 2 {
		if c, ok := conditionByIcon[icon[:2]]; ok {
			return c
		}
	}
	switch {
	case common.ContainsAnyFold(description, "thunder", "storm"):
		return ConditionStormy
	case common.ContainsAnyFold(description, "rain", "shower", "drizzle"):
		return ConditionRainy
	case common.ContainsAnyFold(description, "snow", "sleet"):
		return ConditionSnowy
	case common.ContainsAnyFold(description, "fog", "mist", "haze"):
		return ConditionFoggy
	case common.ContainsAnyFold(description, "overcast"):
		return ConditionCloudy
	case common.ContainsAnyFold(description, "clear", "sunny"):
		return ConditionSunny
	default:
		return ConditionPartlyCloudy
	}
}

func normalizeObservation(p ObservationPayload) RawObservation {
	var cond ConditionPayload
	if len(p.Weather) > 0 {
		cond = p.Weather[0]
	}

	visibility := float64(defaultVisibilityM)
	if p.Visibility != nil {
		visibility = *p.Visibility
	}

	rain := p.Rain.ThreeH
	if rain == 0 {
		rain = p.Rain.OneH
	}

	feels := p.Main.FeelsLike
	if feels == 0 {
		feels = p.Main.Temp
	}

	return RawObservation{
		Timestamp:       time.Unix(p.Dt, 0).UTC(),
		TempKelvin:      p.Main.Temp,
		FeelsLikeKelvin: feels,
		HumidityPct:     p.Main.Humidity,
		WindMs:          p.Wind.Speed,
		WindGustMs:      p.Wind.Gust,
		WindDegrees:     p.Wind.Deg,
		PressureHpa:     p.Main.Pressure,
		CloudPct:        p.Clouds.All,
		VisibilityM:     visibility,
		RainMm:          rain,
		ConditionCode:   cond.Icon,
		ConditionText:   cond.Description,
		Condition:       MapCondition(cond.Main, cond.Icon, cond.Description, p.Clouds.All),
	}
}

// NormalizeForecast maps a provider forecast into canonical observations
// ordered by timestamp. Entries without a timestamp are skipped.
func NormalizeForecast(p ForecastPayload) (Forecast, error) {
	obs := make([]RawObservation, 0, len(p.List))
	for _, item := range p.List {
		if item.Dt <= 0 || item.Main.Temp <= 0 {
			continue
		}
		obs = append(obs, normalizeObservation(item))
	}
	if len(obs) == 0 {
		return Forecast{}, fmt.Errorf("%w: forecast has no usable observations", apperr.ErrMalformedPayload)
	}

	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Timestamp.Before(obs[j].Timestamp)
	})

	return Forecast{
		Place:        placeName(p.City.Name, p.City.Country),
		Zone:         time.FixedZone("", p.City.Timezone),
		Sun:          sunWindow(p.City.Sunrise, p.City.Sunset),
		Observations: obs,
	}, nil
}

// NormalizeCurrent maps a provider current-conditions response into canonical units.
func NormalizeCurrent(p CurrentPayload) (Current, error) {
	if p.Dt <= 0 || p.Main.Temp <= 0 {
		return Current{}, fmt.Errorf("%w: current conditions missing timestamp or temperature", apperr.ErrMalformedPayload)
	}

	o := normalizeObservation(p.ObservationPayload)
	return Current{
		Place:        p.Name,
		Timestamp:    o.Timestamp,
		TempC:        round1(KelvinToCelsius(o.TempKelvin)),
		FeelsLikeC:   round1(KelvinToCelsius(o.FeelsLikeKelvin)),
		HumidityPct:  o.HumidityPct,
		WindKmh:      round1(MsToKmh(o.WindMs)),
		WindDegrees:  o.WindDegrees,
		PressureHpa:  o.PressureHpa,
		CloudPct:     o.CloudPct,
		VisibilityKm: round1(MetersToKm(o.VisibilityM)),
		RainMm:       round1(o.RainMm),
		Condition:    o.Condition,
		Description:  o.ConditionText,
	}, nil
}

func sunWindow(sunrise, sunset int64) SunWindow {
	var w SunWindow
	if sunrise > 0 {
		w.Sunrise = time.Unix(sunrise, 0).UTC()
	}
	if sunset > 0 {
		w.Sunset = time.Unix(sunset, 0).UTC()
	}
	return w
}

func placeName(city, country string) string {
	city = strings.TrimSpace(city)
	if city == "" || country == "" {
		return city
	}
	return city + ", " + country
}
