package weather

import (
	"math"
	"sort"
	"time"
)

const (
	// MaxForecastDays is the number of distinct days kept from a forecast.
	MaxForecastDays = 5

	defaultDayLengthHours = 12.0
	uvMin                 = 1
	uvMax                 = 11
)

// AggregateDaily groups observations into calendar-day buckets in the
// forecast's zone and summarizes the first MaxForecastDays of them. now is
// used only for the "Today"/"Tomorrow" labels, so identical input and now
// always give identical output.
func AggregateDaily(f Forecast, now time.Time) []DailyAggregate {
	zone := f.Zone
	if zone == nil {
		zone = time.UTC
	}

	obs := make([]RawObservation, len(f.Observations))
	copy(obs, f.Observations)
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Timestamp.Before(obs[j].Timestamp)
	})

	var (
		keys    []string
		buckets = make(map[string][]RawObservation)
	)
	for _, o := range obs {
		k := o.Timestamp.In(zone).Format("2006-01-02")
		if _, seen := buckets[k]; !seen {
			if len(keys) == MaxForecastDays {
				continue
			}
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], o)
	}

	today := dateOnly(now.In(zone))
	days := make([]DailyAggregate, 0, len(keys))
	for _, k := range keys {
		days = append(days, aggregateDay(buckets[k], zone, today, f.Sun))
	}
	return days
}

func aggregateDay(bucket []RawObservation, zone *time.Location, today time.Time, sun SunWindow) DailyAggregate {
	first := bucket[0].Timestamp.In(zone)
	date := dateOnly(first)

	highK, lowK := bucket[0].TempKelvin, bucket[0].TempKelvin
	var (
		sumHumidity, sumWind, sumPressure  float64
		sumCloud, sumVisibility, rainTotal float64
		sinDir, cosDir, gustMax            float64
	)
	for _, o := range bucket {
		highK = math.Max(highK, o.TempKelvin)
		lowK = math.Min(lowK, o.TempKelvin)
		sumHumidity += o.HumidityPct
		sumWind += o.WindMs
		sumPressure += o.PressureHpa
		sumCloud += o.CloudPct
		sumVisibility += o.VisibilityM
		rainTotal += o.RainMm

		rad := o.WindDegrees * math.Pi / 180
		sinDir += math.Sin(rad)
		cosDir += math.Cos(rad)

		gustMax = math.Max(gustMax, math.Max(o.WindGustMs, o.WindMs))
	}

	n := float64(len(bucket))
	cloudAvg := sumCloud / n
	cloudFactor := clamp(1-cloudAvg/100, 0, 1)
	rep := representative(bucket, zone)

	return DailyAggregate{
		Day:              dayLabel(date, today),
		DisplayDate:      first.Format("Jan 2"),
		TempHigh:         round1(KelvinToCelsius(highK)),
		TempLow:          round1(KelvinToCelsius(lowK)),
		Condition:        rep.Condition,
		HumidityAvg:      math.Round(sumHumidity / n),
		WindAvg:          round1(MsToKmh(sumWind / n)),
		RainTotal:        round1(rainTotal),
		UVIndex:          UVIndex(date.Month(), cloudAvg, highK),
		PressureAvg:      math.Round(sumPressure / n),
		SunshineHours:    round1(dayLengthHours(sun) * cloudFactor),
		FeelsLike:        round1(KelvinToCelsius(rep.FeelsLikeKelvin)),
		VisibilityAvg:    round1(MetersToKm(sumVisibility / n)),
		CloudCoverAvg:    math.Round(cloudAvg),
		WindDirectionAvg: circularMeanDegrees(sinDir, cosDir),
		GustMax:          round1(MsToKmh(gustMax)),
	}
}

// representative picks the observation nearest local noon among those between
// 11:00 and 14:00, falling back to the bucket's middle element.
func representative(bucket []RawObservation, zone *time.Location) RawObservation {
	best := -1
	var bestDist time.Duration
	for i, o := range bucket {
		local := o.Timestamp.In(zone)
		noon := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, zone)
		if local.Before(noon.Add(-time.Hour)) || local.After(noon.Add(2*time.Hour)) {
			continue
		}
		dist := local.Sub(noon)
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best == -1 {
		best = len(bucket) / 2
	}
	return bucket[best]
}

// UVIndex estimates the UV index from the season, cloud cover and the day's
// peak temperature in Kelvin. The result is clamped to [1, 11].
func UVIndex(month time.Month, cloudPct, tempKelvin float64) int {
	base := 4.0
	if month >= time.May && month <= time.August {
		base = 8.0
	}
	cloudFactor := clamp(1-cloudPct/100, 0, 1)
	tempFactor := clamp(tempKelvin/300, 0, 1)
	uv := int(math.Round(base * cloudFactor * tempFactor))
	if uv < uvMin {
		return uvMin
	}
	if uv > uvMax {
		return uvMax
	}
	return uv
}

func dayLengthHours(sun SunWindow) float64 {
	if sun.Sunrise.IsZero() || sun.Sunset.IsZero() || !sun.Sunset.After(sun.Sunrise) {
		return defaultDayLengthHours
	}
	return sun.Sunset.Sub(sun.Sunrise).Hours()
}

func dayLabel(date, today time.Time) string {
	switch int(math.Round(date.Sub(today).Hours() / 24)) {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return date.Format("Mon")
	}
}

func circularMeanDegrees(sinSum, cosSum float64) float64 {
	if math.Abs(sinSum) < 1e-9 && math.Abs(cosSum) < 1e-9 {
		return 0
	}
	deg := math.Round(math.Atan2(sinSum, cosSum) * 180 / math.Pi)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// dateOnly truncates t to midnight UTC of its wall-clock date, so day
// differences are free of zone offsets.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
