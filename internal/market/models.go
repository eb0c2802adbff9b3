package market

import (
	"encoding/json"
	"time"
)

// Trend is the direction of a commodity's price over the reference window.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Level grades demand and supply pressure.
type Level string

const (
	LevelLow      Level = "Low"
	LevelMedium   Level = "Medium"
	LevelHigh     Level = "High"
	LevelVeryHigh Level = "VeryHigh"
)

// RawPriceRecord is one usable mandi price report. Prices are per quintal.
type RawPriceRecord struct {
	State       string
	District    string
	Market      string
	Commodity   string
	Variety     string
	Grade       string
	ArrivalDate time.Time
	MinPrice    int64
	MaxPrice    int64
	ModalPrice  int64
}

// PricePoint is the average modal price for one calendar month.
type PricePoint struct {
	Month    string  `json:"month"`
	AvgPrice float64 `json:"avgPrice"`
}

// CommodityAggregate summarizes all records sharing a commodity, variety and grade.
type CommodityAggregate struct {
	Commodity          string       `json:"commodity"`
	Variety            string       `json:"variety"`
	Grade              string       `json:"grade"`
	CurrentPrice       float64      `json:"currentPrice"`
	MinPrice           float64      `json:"minPrice"`
	MaxPrice           float64      `json:"maxPrice"`
	AveragePrice       float64      `json:"averagePrice"`
	PriceChange        float64      `json:"priceChange"`
	PriceChangePercent float64      `json:"priceChangePercent"`
	Volatility         float64      `json:"volatility"`
	Trend              Trend        `json:"trend"`
	Demand             Level        `json:"demand"`
	Supply             Level        `json:"supply"`
	Forecast           string       `json:"forecast"`
	LastUpdated        time.Time    `json:"lastUpdated"`
	MarketCount        int          `json:"marketCount"`
	PriceHistory       []PricePoint `json:"priceHistory"`
}

// PriceField accepts a price encoded either as a JSON string or a JSON number.
type PriceField string

func (p *PriceField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceField(s)
		return nil
	}
	*p = PriceField(b)
	return nil
}

// RecordPayload is one provider record. Field matching is case-insensitive,
// so both "state" and "State" style resources decode.
type RecordPayload struct {
	State       string     `json:"state"`
	District    string     `json:"district"`
	Market      string     `json:"market"`
	Commodity   string     `json:"commodity"`
	Variety     string     `json:"variety"`
	Grade       string     `json:"grade"`
	ArrivalDate string     `json:"arrival_date"`
	MinPrice    PriceField `json:"min_price"`
	MaxPrice    PriceField `json:"max_price"`
	ModalPrice  PriceField `json:"modal_price"`
}

// PagePayload is one page of the provider's resource listing.
type PagePayload struct {
	Total   int             `json:"total"`
	Count   int             `json:"count"`
	Records []RecordPayload `json:"records"`
}

// Report is what the market service hands to the facade.
type Report struct {
	State       string               `json:"state"`
	District    string               `json:"district"`
	Commodities []CommodityAggregate `json:"commodities"`
	Discarded   int                  `json:"discarded"`
}
