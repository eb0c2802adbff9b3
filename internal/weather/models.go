package weather

import (
	"time"
)

// Condition is the internal weather vocabulary shown to farmers.
type Condition string

const (
	ConditionSunny        Condition = "Sunny"
	ConditionPartlyCloudy Condition = "Partly Cloudy"
	ConditionCloudy       Condition = "Cloudy"
	ConditionRainy        Condition = "Rainy"
	ConditionStormy       Condition = "Stormy"
	ConditionSnowy        Condition = "Snowy"
	ConditionFoggy        Condition = "Foggy"
)

// RawObservation is one provider observation in canonical shape. Temperatures
// stay in Kelvin and speeds in m/s; the aggregator converts them.
type RawObservation struct {
	Timestamp       time.Time
	TempKelvin      float64
	FeelsLikeKelvin float64
	HumidityPct     float64
	WindMs          float64
	WindGustMs      float64
	WindDegrees     float64
	PressureHpa     float64
	CloudPct        float64
	VisibilityM     float64
	RainMm          float64
	ConditionCode   string
	ConditionText   string
	Condition       Condition
}

// SunWindow holds the provider's sunrise and sunset; zero values mean unknown.
type SunWindow struct {
	Sunrise time.Time
	Sunset  time.Time
}

// Forecast is a normalized forecast response.
type Forecast struct {
	Place        string
	Zone         *time.Location
	Sun          SunWindow
	Observations []RawObservation
}

// Current is the normalized current-conditions reading in canonical units.
type Current struct {
	Place        string    `json:"place"`
	Timestamp    time.Time `json:"timestamp"`
	TempC        float64   `json:"tempC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	HumidityPct  float64   `json:"humidityPct"`
	WindKmh      float64   `json:"windKmh"`
	WindDegrees  float64   `json:"windDegrees"`
	PressureHpa  float64   `json:"pressureHpa"`
	CloudPct     float64   `json:"cloudPct"`
	VisibilityKm float64   `json:"visibilityKm"`
	RainMm       float64   `json:"rainMm"`
	Condition    Condition `json:"condition"`
	Description  string    `json:"description"`
}

// DailyAggregate summarizes one calendar day of observations.
// Units: °C, km/h, mm, hPa, km, percent, degrees.
type DailyAggregate struct {
	Day              string    `json:"day"`
	DisplayDate      string    `json:"displayDate"`
	TempHigh         float64   `json:"tempHigh"`
	TempLow          float64   `json:"tempLow"`
	Condition        Condition `json:"condition"`
	HumidityAvg      float64   `json:"humidityAvg"`
	WindAvg          float64   `json:"windAvg"`
	RainTotal        float64   `json:"rainTotal"`
	UVIndex          int       `json:"uvIndex"`
	PressureAvg      float64   `json:"pressureAvg"`
	SunshineHours    float64   `json:"sunshineHours"`
	FeelsLike        float64   `json:"feelsLike"`
	VisibilityAvg    float64   `json:"visibilityAvg"`
	CloudCoverAvg    float64   `json:"cloudCoverAvg"`
	WindDirectionAvg float64   `json:"windDirectionAvg"`
	GustMax          float64   `json:"gustMax"`
}

// Report is what the weather service hands to the facade.
type Report struct {
	Place   string           `json:"place"`
	Current *Current         `json:"current,omitempty"`
	Days    []DailyAggregate `json:"days"`
}
