package market

import (
	"context"

	"github.com/i474232898/farm-insight/internal/geo"
)

// Provider abstracts the commodity-price data source.
type Provider interface {
	Name() string
	// FetchRecords returns every record for region. An empty District
	// queries the whole state.
	FetchRecords(ctx context.Context, region geo.Region) ([]RecordPayload, error)
}

// RegionResolver maps a location fix to the region used for price filters.
type RegionResolver interface {
	Resolve(ctx context.Context, fix geo.Fix) geo.Region
}
