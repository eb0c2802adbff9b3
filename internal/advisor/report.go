package advisor

import (
	"time"

	"github.com/i474232898/farm-insight/internal/geo"
	"github.com/i474232898/farm-insight/internal/insight"
	"github.com/i474232898/farm-insight/internal/market"
	"github.com/i474232898/farm-insight/internal/weather"
)

// Status tells callers how fresh a report is.
type Status string

const (
	// StatusLive means the report was fetched and generated for this call.
	StatusLive Status = "live"
	// StatusCached means a fresh cache entry for the same location was served.
	StatusCached Status = "cached"
	// StatusStale means the refresh failed and an older entry was served.
	StatusStale Status = "stale"
	// StatusMock means neither live data nor a cache entry was available.
	StatusMock Status = "mock"
)

// WeatherPayload is what the weather cache slot holds.
type WeatherPayload struct {
	Report  weather.Report
	Insight insight.WeatherInsight
	Source  insight.Source
}

// MarketPayload is what the market cache slot holds.
type MarketPayload struct {
	Report  market.Report
	Insight insight.MarketInsight
	Source  insight.Source
}

// WeatherReport is the facade result for a weather request.
type WeatherReport struct {
	Location      geo.Fix                  `json:"location"`
	Place         string                   `json:"place"`
	Current       *weather.Current         `json:"current,omitempty"`
	Days          []weather.DailyAggregate `json:"days"`
	Insight       insight.WeatherInsight   `json:"insight"`
	InsightSource insight.Source           `json:"insightSource"`
	Status        Status                   `json:"status"`
	Reason        string                   `json:"reason,omitempty"`
	CapturedAt    time.Time                `json:"capturedAt"`
	RequestID     string                   `json:"requestId"`
}

// MarketReport is the facade result for a market request.
type MarketReport struct {
	Location      geo.Fix                     `json:"location"`
	Region        geo.Region                  `json:"region"`
	Commodities   []market.CommodityAggregate `json:"commodities"`
	Insight       insight.MarketInsight       `json:"insight"`
	InsightSource insight.Source              `json:"insightSource"`
	Status        Status                      `json:"status"`
	Reason        string                      `json:"reason,omitempty"`
	CapturedAt    time.Time                   `json:"capturedAt"`
	RequestID     string                      `json:"requestId"`
}
