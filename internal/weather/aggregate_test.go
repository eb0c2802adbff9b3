package weather

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsAt(ts time.Time, tempC float64, cond Condition) RawObservation {
	return RawObservation{
		Timestamp:       ts,
		TempKelvin:      tempC + 273.15,
		FeelsLikeKelvin: tempC + 273.15,
		HumidityPct:     60,
		WindMs:          2,
		PressureHpa:     1010,
		CloudPct:        50,
		VisibilityM:     10000,
		Condition:       cond,
	}
}

// threeHourly builds a forecast of n days starting at midnight UTC on start.
func threeHourly(start time.Time, days int) Forecast {
	var obs []RawObservation
	for d := 0; d < days; d++ {
		for h := 0; h < 24; h += 3 {
			ts := start.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour)
			obs = append(obs, obsAt(ts, 20+float64(h)/3, ConditionCloudy))
		}
	}
	return Forecast{Zone: time.UTC, Observations: obs}
}

var june1 = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestAggregateDailyKeepsFiveDays(t *testing.T) {
	days := AggregateDaily(threeHourly(june1, 7), june1.Add(8*time.Hour))

	require.Len(t, days, MaxForecastDays)
	assert.Equal(t, "Today", days[0].Day)
	assert.Equal(t, "Tomorrow", days[1].Day)
	assert.Equal(t, "Wed", days[2].Day)
	assert.Equal(t, "Jun 1", days[0].DisplayDate)
	assert.Equal(t, "Jun 5", days[4].DisplayDate)
}

func TestAggregateDailyStatistics(t *testing.T) {
	f := Forecast{
		Zone: time.UTC,
		Sun: SunWindow{
			Sunrise: june1.Add(6 * time.Hour),
			Sunset:  june1.Add(18 * time.Hour),
		},
	}
	for i, h := range []int{0, 6, 12, 18} {
		o := obsAt(june1.Add(time.Duration(h)*time.Hour), 18+float64(i*4), ConditionRainy)
		o.RainMm = 5
		o.WindMs = float64(i + 1)
		o.WindGustMs = 9
		o.CloudPct = 50
		f.Observations = append(f.Observations, o)
	}

	days := AggregateDaily(f, june1)
	require.Len(t, days, 1)
	d := days[0]

	assert.Equal(t, 30.0, d.TempHigh)
	assert.Equal(t, 18.0, d.TempLow)
	assert.Equal(t, 20.0, d.RainTotal)
	assert.Equal(t, 9.0, d.WindAvg, "mean of 1..4 m/s is 2.5 m/s = 9 km/h")
	assert.Equal(t, 32.4, d.GustMax)
	assert.Equal(t, 60.0, d.HumidityAvg)
	assert.Equal(t, 1010.0, d.PressureAvg)
	assert.Equal(t, 10.0, d.VisibilityAvg)
	assert.Equal(t, 50.0, d.CloudCoverAvg)
	assert.Equal(t, 6.0, d.SunshineHours)
	assert.Equal(t, 26.0, d.FeelsLike, "noon observation drives feels-like")
}

func TestAggregateDailyPicksNoonCondition(t *testing.T) {
	f := Forecast{Zone: time.UTC, Observations: []RawObservation{
		obsAt(june1.Add(9*time.Hour), 20, ConditionRainy),
		obsAt(june1.Add(12*time.Hour), 25, ConditionSunny),
		obsAt(june1.Add(15*time.Hour), 22, ConditionCloudy),
	}}

	days := AggregateDaily(f, june1)
	require.Len(t, days, 1)
	assert.Equal(t, ConditionSunny, days[0].Condition)
}

func TestAggregateDailyFallsBackToMiddleObservation(t *testing.T) {
	f := Forecast{Zone: time.UTC, Observations: []RawObservation{
		obsAt(june1.Add(15*time.Hour), 20, ConditionRainy),
		obsAt(june1.Add(18*time.Hour), 25, ConditionStormy),
		obsAt(june1.Add(21*time.Hour), 22, ConditionCloudy),
	}}

	days := AggregateDaily(f, june1)
	require.Len(t, days, 1)
	assert.Equal(t, ConditionStormy, days[0].Condition)
}

func TestAggregateDailyNoonWindowEndsAtTwo(t *testing.T) {
	ist := time.FixedZone("IST", 19800)
	start := time.Date(2026, 6, 1, 14, 30, 0, 0, ist)
	f := Forecast{Zone: ist, Observations: []RawObservation{
		obsAt(start, 30, ConditionRainy),
		obsAt(start.Add(3*time.Hour), 28, ConditionCloudy),
		obsAt(start.Add(6*time.Hour), 26, ConditionSunny),
		obsAt(start.Add(9*time.Hour), 24, ConditionFoggy),
	}}

	days := AggregateDaily(f, start)
	require.Len(t, days, 1)
	assert.Equal(t, ConditionSunny, days[0].Condition, "14:30 is outside the noon window")
}

func TestAggregateDailyUsesProviderZone(t *testing.T) {
	ist := time.FixedZone("IST", 19800)
	// 20:00 UTC on June 1 is 01:30 on June 2 in IST.
	f := Forecast{Zone: ist, Observations: []RawObservation{
		obsAt(june1.Add(10*time.Hour), 20, ConditionSunny),
		obsAt(june1.Add(20*time.Hour), 25, ConditionSunny),
	}}

	days := AggregateDaily(f, june1)
	require.Len(t, days, 2)
	assert.Equal(t, "Jun 1", days[0].DisplayDate)
	assert.Equal(t, "Jun 2", days[1].DisplayDate)
}

func TestAggregateDailyWindDirectionIsCircular(t *testing.T) {
	a := obsAt(june1.Add(3*time.Hour), 20, ConditionSunny)
	a.WindDegrees = 350
	b := obsAt(june1.Add(6*time.Hour), 20, ConditionSunny)
	b.WindDegrees = 10

	days := AggregateDaily(Forecast{Observations: []RawObservation{a, b}}, june1)
	require.Len(t, days, 1)
	assert.Equal(t, 0.0, days[0].WindDirectionAvg)
}

func TestAggregateDailyTempHighNeverBelowLow(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := Forecast{Zone: time.UTC}
	for i := 0; i < 200; i++ {
		ts := june1.Add(time.Duration(rng.Intn(6*24)) * time.Hour)
		f.Observations = append(f.Observations, obsAt(ts, rng.Float64()*50-10, ConditionCloudy))
	}

	for _, d := range AggregateDaily(f, june1) {
		assert.GreaterOrEqual(t, d.TempHigh, d.TempLow, d.DisplayDate)
	}
}

func TestAggregateDailyIsIdempotent(t *testing.T) {
	f := threeHourly(june1, 6)
	now := june1.Add(5 * time.Hour)

	first := AggregateDaily(f, now)
	second := AggregateDaily(f, now)
	assert.Equal(t, first, second)
}

func TestAggregateDailyEmpty(t *testing.T) {
	assert.Empty(t, AggregateDaily(Forecast{}, june1))
}

func TestUVIndex(t *testing.T) {
	assert.Equal(t, 8, UVIndex(time.June, 0, 310))
	assert.Equal(t, 4, UVIndex(time.January, 0, 300))
	assert.Equal(t, 4, UVIndex(time.July, 50, 270))
	assert.Equal(t, 1, UVIndex(time.June, 100, 300), "clamped to the minimum")
	assert.Equal(t, 1, UVIndex(time.December, 0, 0))
}
