package weather

import (
	"context"

	"github.com/i474232898/farm-insight/internal/geo"
)

// ConditionPayload is the provider's weather[] triple.
type ConditionPayload struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// MainPayload carries temperatures in Kelvin plus humidity and pressure.
type MainPayload struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

// WindPayload carries wind speeds in m/s.
type WindPayload struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
	Gust  float64 `json:"gust"`
}

// PrecipPayload carries accumulated precipitation in mm.
type PrecipPayload struct {
	OneH   float64 `json:"1h"`
	ThreeH float64 `json:"3h"`
}

// CloudsPayload carries cloud cover in percent.
type CloudsPayload struct {
	All float64 `json:"all"`
}

// ObservationPayload is a single entry of the forecast list.
type ObservationPayload struct {
	Dt         int64              `json:"dt"`
	Main       MainPayload        `json:"main"`
	Weather    []ConditionPayload `json:"weather"`
	Clouds     CloudsPayload      `json:"clouds"`
	Wind       WindPayload        `json:"wind"`
	Visibility *float64           `json:"visibility"`
	Rain       PrecipPayload      `json:"rain"`
}

// ForecastPayload is the provider's /forecast response.
type ForecastPayload struct {
	List []ObservationPayload `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
		Sunrise  int64  `json:"sunrise"`
		Sunset   int64  `json:"sunset"`
	} `json:"city"`
}

// CurrentPayload is the provider's /current response.
type CurrentPayload struct {
	ObservationPayload
	Name     string `json:"name"`
	Timezone int    `json:"timezone"`
	Sys      struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// Provider abstracts the weather data source.
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, fix geo.Fix) (CurrentPayload, error)
	FetchForecast(ctx context.Context, fix geo.Fix) (ForecastPayload, error)
}
