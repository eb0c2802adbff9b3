package market

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/geo"
)

// Service resolves the caller's region, fetches its price records and
// aggregates them into a Report.
type Service struct {
	provider Provider
	regions  RegionResolver
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(provider Provider, regions RegionResolver, log logrus.FieldLogger) *Service {
	return &Service{
		provider: provider,
		regions:  regions,
		log:      log,
		now:      time.Now,
	}
}

// Fetch returns aggregates for the region around fix. When the district has
// no usable records, one state-wide query is made instead.
func (s *Service) Fetch(ctx context.Context, fix geo.Fix) (Report, error) {
	if s.provider == nil {
		return Report{}, fmt.Errorf("no market provider configured")
	}

	region := s.regions.Resolve(ctx, fix)
	if region.State == "" {
		return Report{}, fmt.Errorf("%w: no state for %s", apperr.ErrLocationUnavailable, fix)
	}

	records, discarded, err := s.fetchRegion(ctx, region)
	if err != nil {
		return Report{}, err
	}

	if len(records) == 0 && region.District != "" {
		s.log.WithFields(logrus.Fields{
			"state":    region.State,
			"district": region.District,
		}).Info("no usable district prices; widening to state")

		region.District = ""
		var widenedDiscarded int
		records, widenedDiscarded, err = s.fetchRegion(ctx, region)
		if err != nil {
			return Report{}, err
		}
		discarded += widenedDiscarded
	}

	if len(records) == 0 {
		return Report{}, fmt.Errorf("%w: no usable price records for %s", apperr.ErrMalformedPayload, region.State)
	}

	if discarded > 0 {
		s.log.WithFields(logrus.Fields{
			"kept":      len(records),
			"discarded": discarded,
		}).Debug("discarded unusable price records")
	}

	return Report{
		State:       region.State,
		District:    region.District,
		Commodities: Aggregate(records, s.now()),
		Discarded:   discarded,
	}, nil
}

func (s *Service) fetchRegion(ctx context.Context, region geo.Region) ([]RawPriceRecord, int, error) {
	payload, err := s.provider.FetchRecords(ctx, region)
	if err != nil {
		return nil, 0, err
	}
	records, discarded := NormalizeRecords(payload)
	return records, discarded, nil
}
