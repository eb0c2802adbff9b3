package market

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ArrivalDateLayout is the provider's dd/mm/yyyy date format.
const ArrivalDateLayout = "02/01/2006"

// ParsePrice parses a provider price string into whole rupees. Non-numeric,
// zero and negative values are reported as unusable.
func ParsePrice(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	v := d.IntPart()
	if v <= 0 {
		return 0, false
	}
	return v, true
}

// NormalizeRecords converts provider records into RawPriceRecords. Records
// without a usable modal price or arrival date are discarded; unusable min or
// max prices fall back to the modal price.
func NormalizeRecords(payload []RecordPayload) (records []RawPriceRecord, discarded int) {
	records = make([]RawPriceRecord, 0, len(payload))
	for _, p := range payload {
		modal, ok := ParsePrice(string(p.ModalPrice))
		if !ok {
			discarded++
			continue
		}
		date, err := time.Parse(ArrivalDateLayout, strings.TrimSpace(p.ArrivalDate))
		if err != nil {
			discarded++
			continue
		}
		commodity := strings.TrimSpace(p.Commodity)
		if commodity == "" {
			discarded++
			continue
		}

		minPrice, ok := ParsePrice(string(p.MinPrice))
		if !ok {
			minPrice = modal
		}
		maxPrice, ok := ParsePrice(string(p.MaxPrice))
		if !ok {
			maxPrice = modal
		}

		records = append(records, RawPriceRecord{
			State:       strings.TrimSpace(p.State),
			District:    strings.TrimSpace(p.District),
			Market:      strings.TrimSpace(p.Market),
			Commodity:   commodity,
			Variety:     strings.TrimSpace(p.Variety),
			Grade:       strings.TrimSpace(p.Grade),
			ArrivalDate: date,
			MinPrice:    minPrice,
			MaxPrice:    maxPrice,
			ModalPrice:  modal,
		})
	}
	return records, discarded
}
