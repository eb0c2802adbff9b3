package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/geo"
	"github.com/i474232898/farm-insight/internal/market"
	"github.com/i474232898/farm-insight/internal/transport"
)

const (
	// DefaultDataGovBaseURL is the Open Government Data platform API root.
	DefaultDataGovBaseURL = "https://api.data.gov.in"
	// DefaultMandiResourceID is the daily mandi price resource.
	DefaultMandiResourceID = "9ef84268-d588-465a-a308-a864a43d0070"

	defaultPageLimit = 500
	defaultMaxPages  = 4
)

// DataGovOptions configures paging for DataGovProvider.
type DataGovOptions struct {
	BaseURL    string
	ResourceID string
	APIKey     string
	PageLimit  int
	MaxPages   int
	// RequestsPerSecond paces page fetches; zero means 2 per second.
	RequestsPerSecond float64
}

// DataGovProvider implements market.Provider for the data.gov.in resource API.
type DataGovProvider struct {
	opts    DataGovOptions
	client  *transport.Client
	limiter *rate.Limiter
}

var _ market.Provider = (*DataGovProvider)(nil)

func NewDataGovProvider(cfg transport.Config, opts DataGovOptions) *DataGovProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultDataGovBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.ResourceID == "" {
		opts.ResourceID = DefaultMandiResourceID
	}
	if opts.PageLimit <= 0 {
		opts.PageLimit = defaultPageLimit
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &DataGovProvider{
		opts:    opts,
		client:  transport.New("datagov", cfg),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (p *DataGovProvider) Name() string {
	return p.client.Name()
}

// FetchRecords pages through the resource until total is reached or MaxPages
// pages have been read.
func (p *DataGovProvider) FetchRecords(ctx context.Context, region geo.Region) ([]market.RecordPayload, error) {
	if p.opts.APIKey == "" {
		return nil, fmt.Errorf("%w: data.gov.in api key is not configured", apperr.ErrNetwork)
	}

	var records []market.RecordPayload
	for page, offset := 0, 0; page < p.opts.MaxPages; page++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrNetwork, err)
		}

		payload, err := p.fetchPage(ctx, region, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, payload.Records...)

		offset += len(payload.Records)
		if len(payload.Records) == 0 || offset >= payload.Total {
			break
		}
	}
	return records, nil
}

func (p *DataGovProvider) fetchPage(ctx context.Context, region geo.Region, offset int) (market.PagePayload, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("api-key", p.opts.APIKey)
		values.Set("format", "json")
		values.Set("limit", strconv.Itoa(p.opts.PageLimit))
		values.Set("offset", strconv.Itoa(offset))
		values.Set("filters[State]", region.State)
		if region.District != "" {
			values.Set("filters[District]", region.District)
		}

		u := fmt.Sprintf("%s/resource/%s?%s", p.opts.BaseURL, url.PathEscape(p.opts.ResourceID), values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	var payload market.PagePayload
	if err := p.client.GetJSON(ctx, buildRequest, &payload); err != nil {
		return market.PagePayload{}, err
	}
	return payload, nil
}
