package market

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ReferenceAge is how old a record must be to serve as the trend reference.
	ReferenceAge = 30 * 24 * time.Hour
	// HistoryMonths caps the monthly price history.
	HistoryMonths = 6

	trendThreshold = 5.0
)

type groupKey struct {
	commodity, variety, grade string
}

// Aggregate groups records by (commodity, variety, grade) and summarizes each
// group. The result is ordered by descending current price. now only fixes the
// reference cutoff, so identical input and now always give identical output.
func Aggregate(records []RawPriceRecord, now time.Time) []CommodityAggregate {
	groups := make(map[groupKey][]RawPriceRecord)
	for _, r := range records {
		k := groupKey{r.Commodity, r.Variety, r.Grade}
		groups[k] = append(groups[k], r)
	}

	out := make([]CommodityAggregate, 0, len(groups))
	for k, group := range groups {
		out = append(out, aggregateGroup(k, group, now))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CurrentPrice != b.CurrentPrice {
			return a.CurrentPrice > b.CurrentPrice
		}
		if a.Commodity != b.Commodity {
			return a.Commodity < b.Commodity
		}
		if a.Variety != b.Variety {
			return a.Variety < b.Variety
		}
		return a.Grade < b.Grade
	})
	return out
}

func aggregateGroup(k groupKey, group []RawPriceRecord, now time.Time) CommodityAggregate {
	sorted := make([]RawPriceRecord, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.ArrivalDate.Equal(b.ArrivalDate) {
			return a.ArrivalDate.After(b.ArrivalDate)
		}
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		return a.ModalPrice > b.ModalPrice
	})

	current := sorted[0].ModalPrice
	minPrice, maxPrice := current, current
	sum := decimal.Zero
	markets := make(map[string]struct{})
	for _, r := range sorted {
		if r.ModalPrice < minPrice {
			minPrice = r.ModalPrice
		}
		if r.ModalPrice > maxPrice {
			maxPrice = r.ModalPrice
		}
		sum = sum.Add(decimal.NewFromInt(r.ModalPrice))
		markets[r.Market] = struct{}{}
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(sorted)))).Round(2)

	var change int64
	var pct, rawPct float64
	if ref, ok := referencePrice(sorted, now); ok {
		change, pct = PriceChange(current, ref)
		rawPct = changePercent(change, ref)
	}

	trend := ClassifyTrend(rawPct)
	vol := Volatility(sorted)
	demand := ClassifyDemand(rawPct, vol)
	supply := ClassifySupply(rawPct, vol)

	return CommodityAggregate{
		Commodity:          k.commodity,
		Variety:            k.variety,
		Grade:              k.grade,
		CurrentPrice:       float64(current),
		MinPrice:           float64(minPrice),
		MaxPrice:           float64(maxPrice),
		AveragePrice:       avg.InexactFloat64(),
		PriceChange:        float64(change),
		PriceChangePercent: pct,
		Volatility:         vol,
		Trend:              trend,
		Demand:             demand,
		Supply:             supply,
		Forecast:           ForecastText(trend, demand, supply),
		LastUpdated:        sorted[0].ArrivalDate,
		MarketCount:        len(markets),
		PriceHistory:       MonthlyHistory(sorted),
	}
}

// referencePrice returns the modal price of the oldest record dated at least
// ReferenceAge before now. sorted must be ordered newest first.
func referencePrice(sorted []RawPriceRecord, now time.Time) (int64, bool) {
	cutoff := now.Add(-ReferenceAge)
	for i := len(sorted) - 1; i >= 0; i-- {
		if !sorted[i].ArrivalDate.After(cutoff) {
			return sorted[i].ModalPrice, true
		}
	}
	return 0, false
}

// PriceChange returns current-reference and that change as a percentage of
// reference, rounded to two decimals. Classification uses the unrounded value.
func PriceChange(current, reference int64) (int64, float64) {
	if reference <= 0 {
		return 0, 0
	}
	change := current - reference
	return change, percentOf(change, reference).Round(2).InexactFloat64()
}

func changePercent(change, reference int64) float64 {
	if reference <= 0 {
		return 0
	}
	return percentOf(change, reference).InexactFloat64()
}

func percentOf(change, reference int64) decimal.Decimal {
	return decimal.NewFromInt(change).
		Div(decimal.NewFromInt(reference)).
		Mul(decimal.NewFromInt(100))
}

// ClassifyTrend maps a percent change to a Trend. Exactly ±5% is stable.
func ClassifyTrend(pct float64) Trend {
	switch {
	case pct > trendThreshold:
		return TrendUp
	case pct < -trendThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// Volatility is the coefficient of variation of modal prices, in percent.
func Volatility(records []RawPriceRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += float64(r.ModalPrice)
	}
	mean := sum / float64(len(records))
	if mean == 0 {
		return 0
	}
	var sq float64
	for _, r := range records {
		d := float64(r.ModalPrice) - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(records)))
	return decimal.NewFromFloat(stddev / mean * 100).Round(2).InexactFloat64()
}

// ClassifyDemand grades buying pressure from price momentum and volatility.
func ClassifyDemand(pct, volatility float64) Level {
	switch {
	case pct > 15 && volatility < 20:
		return LevelVeryHigh
	case pct > 5 || volatility > 30:
		return LevelHigh
	case pct > -5:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ClassifySupply mirrors ClassifyDemand with the sign of the change inverted.
func ClassifySupply(pct, volatility float64) Level {
	switch {
	case pct < -15 && volatility < 20:
		return LevelVeryHigh
	case pct < -5 || volatility > 30:
		return LevelHigh
	case pct < 5:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ForecastText picks a short outlook sentence for the given classification.
func ForecastText(trend Trend, demand, supply Level) string {
	switch {
	case trend == TrendUp && demand == LevelVeryHigh:
		return "Strong upward trend likely to continue on very high demand."
	case trend == TrendUp && demand == LevelHigh:
		return "Prices expected to rise further over the coming weeks."
	case trend == TrendDown && supply == LevelVeryHigh:
		return "Prices may continue declining while supply stays very high."
	case trend == TrendDown && supply == LevelHigh:
		return "Prices likely to soften further on heavy arrivals."
	case trend == TrendStable && (demand == LevelHigh || demand == LevelVeryHigh):
		return "Prices steady with firm demand; a mild rise is possible."
	case trend == TrendStable && (supply == LevelHigh || supply == LevelVeryHigh):
		return "Prices steady with ample supply; a mild dip is possible."
	}

	switch trend {
	case TrendUp:
		return "Prices are trending upward."
	case TrendDown:
		return "Prices are trending downward."
	default:
		return "Prices expected to remain stable in the near term."
	}
}

// MonthlyHistory averages modal prices per calendar month and returns the most
// recent HistoryMonths months in ascending order.
func MonthlyHistory(records []RawPriceRecord) []PricePoint {
	type bucket struct {
		month time.Time
		sum   decimal.Decimal
		n     int64
	}
	byMonth := make(map[time.Time]*bucket)
	for _, r := range records {
		m := time.Date(r.ArrivalDate.Year(), r.ArrivalDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		b, ok := byMonth[m]
		if !ok {
			b = &bucket{month: m, sum: decimal.Zero}
			byMonth[m] = b
		}
		b.sum = b.sum.Add(decimal.NewFromInt(r.ModalPrice))
		b.n++
	}

	months := make([]*bucket, 0, len(byMonth))
	for _, b := range byMonth {
		months = append(months, b)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].month.Before(months[j].month)
	})
	if len(months) > HistoryMonths {
		months = months[len(months)-HistoryMonths:]
	}

	history := make([]PricePoint, 0, len(months))
	for _, b := range months {
		history = append(history, PricePoint{
			Month:    b.month.Format("Jan 2006"),
			AvgPrice: b.sum.Div(decimal.NewFromInt(b.n)).Round(2).InexactFloat64(),
		})
	}
	return history
}
