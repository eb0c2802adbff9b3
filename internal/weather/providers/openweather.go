package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/farm-insight/internal/apperr"
	"github.com/i474232898/farm-insight/internal/geo"
	"github.com/i474232898/farm-insight/internal/transport"
	"github.com/i474232898/farm-insight/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap. It asks
// for standard units, so temperatures arrive in Kelvin and wind in m/s.
type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	client  *transport.Client
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)

func NewOpenWeatherProvider(cfg transport.Config, baseURL, apiKey string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  transport.New("openweathermap", cfg),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.client.Name()
}

func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, fix geo.Fix) (weather.CurrentPayload, error) {
	var payload weather.CurrentPayload
	if err := p.get(ctx, "/weather", fix, &payload); err != nil {
		return weather.CurrentPayload{}, err
	}
	return payload, nil
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, fix geo.Fix) (weather.ForecastPayload, error) {
	var payload weather.ForecastPayload
	if err := p.get(ctx, "/forecast", fix, &payload); err != nil {
		return weather.ForecastPayload{}, err
	}
	return payload, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, fix geo.Fix, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: openweather api key is not configured", apperr.ErrNetwork)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(fix.Latitude, 'f', 4, 64))
		values.Set("lon", strconv.FormatFloat(fix.Longitude, 'f', 4, 64))
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	return p.client.GetJSON(ctx, buildRequest, out)
}
