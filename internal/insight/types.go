package insight

import (
	"time"

	"github.com/i474232898/farm-insight/internal/market"
	"github.com/i474232898/farm-insight/internal/weather"
)

// Source records whether an insight came from the model or the rules.
type Source string

const (
	SourceModel Source = "model"
	SourceRules Source = "rules"
)

// AlertType names the weather hazard an alert is about.
type AlertType string

const (
	AlertRain     AlertType = "rain"
	AlertWind     AlertType = "wind"
	AlertHeat     AlertType = "heat"
	AlertCold     AlertType = "cold"
	AlertHumidity AlertType = "humidity"
	AlertGeneral  AlertType = "general"
)

// Severity doubles as guidance priority.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Category groups farm guidance by activity.
type Category string

const (
	CategoryIrrigation Category = "irrigation"
	CategoryCrop       Category = "crop"
	CategoryPest       Category = "pest"
	CategoryHarvest    Category = "harvest"
	CategoryGeneral    Category = "general"
)

// Impact is the direction a news item or factor pushes prices.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Alert is a single weather warning.
type Alert struct {
	Type     AlertType `json:"type" validate:"oneof=rain wind heat cold humidity general"`
	Severity Severity  `json:"severity" validate:"oneof=low medium high"`
	Title    string    `json:"title" validate:"required"`
	Message  string    `json:"message" validate:"required"`
}

// GuidanceGroup is a titled list of actions for one category.
type GuidanceGroup struct {
	Category Category `json:"category" validate:"oneof=irrigation crop pest harvest general"`
	Title    string   `json:"title" validate:"required"`
	Items    []string `json:"items" validate:"min=1,dive,required"`
	Priority Severity `json:"priority" validate:"oneof=low medium high"`
}

// NewsItem is a short market headline, optionally tied to a commodity.
type NewsItem struct {
	Title     string `json:"title" validate:"required"`
	Summary   string `json:"summary" validate:"required"`
	Commodity string `json:"commodity"`
	Impact    Impact `json:"impact" validate:"oneof=positive negative neutral"`
}

// Factor is a force currently moving market prices.
type Factor struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Impact      Impact `json:"impact" validate:"oneof=positive negative neutral"`
}

// WeatherInsight is the structured weather report. Every collection is
// non-empty and GeneralAdvice is always set.
type WeatherInsight struct {
	Alerts        []Alert         `json:"alerts"`
	Guidance      []GuidanceGroup `json:"guidanceItems"`
	GeneralAdvice string          `json:"generalAdvice"`
}

// MarketInsight is the structured market report. Every collection is
// non-empty and GeneralAdvice is always set.
type MarketInsight struct {
	News          []NewsItem `json:"news"`
	Factors       []Factor   `json:"factors"`
	GeneralAdvice string     `json:"generalAdvice"`
}

// Context carries the caller-facing details rendered into prompts.
type Context struct {
	Place    string
	Language string
	Date     time.Time
}

// WeatherInput is the aggregated weather a weather insight is built from.
type WeatherInput struct {
	Context Context
	Current *weather.Current
	Days    []weather.DailyAggregate
}

// MarketInput is the aggregated market data a market insight is built from.
type MarketInput struct {
	Context     Context
	State       string
	District    string
	Commodities []market.CommodityAggregate
}
