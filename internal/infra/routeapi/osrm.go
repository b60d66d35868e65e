package routeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"
)

const osrmSource = "osrm"

// osrmProvider queries an OSRM routing server. Its durations are static, so
// the chain falls back to it when the traffic-aware provider is unavailable.
type osrmProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOSRMProvider creates the static routing fallback provider.
func NewOSRMProvider(baseURL string, timeout time.Duration, logger *slog.Logger) service.RouteTimeProvider {
	return &osrmProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

func (p *osrmProvider) Duration(ctx context.Context, originLat, originLon, destLat, destLon float64, _ time.Time) (*service.RouteLeg, error) {
	// OSRM takes lon,lat pairs.
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		p.baseURL, originLon, originLat, destLon, destLat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(service.ErrProviderPermanent, err.Error())
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(service.ErrProviderTransient, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errors.Wrapf(service.ErrProviderTransient, "osrm returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(service.ErrProviderPermanent, "osrm returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(service.ErrProviderTransient, err.Error())
	}

	var parsed osrmResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(service.ErrProviderPermanent, err.Error())
	}

	if parsed.Code != "Ok" {
		return nil, errors.Errorf("osrm code %s", parsed.Code)
	}
	if len(parsed.Routes) == 0 || parsed.Routes[0].Duration <= 0 {
		return nil, errors.Wrap(service.ErrProviderPermanent, "osrm response has no usable route")
	}

	route := parsed.Routes[0]

	return &service.RouteLeg{
		Minutes:    route.Duration / 60,
		DistanceKm: route.Distance / 1000,
		Source:     osrmSource,
	}, nil
}
