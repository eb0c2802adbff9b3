package geo

import (
	"context"
	"strings"

	"github.com/kelvins/geocoder"
	"github.com/sirupsen/logrus"
)

// Region is the administrative area used to filter market prices.
type Region struct {
	State    string `json:"state"`
	District string `json:"district"`
}

// RegionResolver reverse-geocodes a fix into a Region, falling back to a
// configured default when no API key is set or the lookup fails.
type RegionResolver struct {
	fallback Region
	enabled  bool
	log      logrus.FieldLogger

	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewRegionResolver configures the geocoder. An empty apiKey disables lookups.
func NewRegionResolver(apiKey string, fallback Region, log logrus.FieldLogger) *RegionResolver {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &RegionResolver{
		fallback: fallback,
		enabled:  apiKey != "",
		log:      log,
		reverse:  geocoder.GeocodingReverse,
	}
}

// Resolve returns the region for fix. It never fails; the fallback region is
// returned whenever the lookup cannot produce a state.
func (r *RegionResolver) Resolve(ctx context.Context, fix Fix) Region {
	if !r.enabled || ctx.Err() != nil {
		return r.fallback
	}

	type result struct {
		addrs []geocoder.Address
		err   error
	}
	done := make(chan result, 1)
	go func() {
		addrs, err := r.reverse(geocoder.Location{Latitude: fix.Latitude, Longitude: fix.Longitude})
		done <- result{addrs, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		r.log.WithField("fix", fix.String()).Warn("reverse geocoding timed out; using default region")
		return r.fallback
	case res = <-done:
	}

	if res.err != nil {
		r.log.WithFields(logrus.Fields{"fix": fix.String(), "error": res.err}).
			Warn("reverse geocoding failed; using default region")
		return r.fallback
	}

	for _, addr := range res.addrs {
		if strings.TrimSpace(addr.State) == "" {
			continue
		}
		region := Region{State: strings.TrimSpace(addr.State)}
		for _, d := range []string{addr.County, addr.District, addr.City} {
			if d = strings.TrimSpace(d); d != "" {
				region.District = strings.TrimSuffix(d, " District")
				break
			}
		}
		return region
	}
	return r.fallback
}
