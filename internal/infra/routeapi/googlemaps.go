// Package routeapi implements the external travel-time provider chain with a
// Redis read-through cache in front of it.
package routeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"
)

const mapsSource = "maps"

// mapsProvider queries a Directions-style mapping API with a departure time,
// which makes the duration traffic aware.
type mapsProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewMapsProvider creates the traffic-aware provider. It is attempted first
// in the chain because its durations carry a live traffic signal.
func NewMapsProvider(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) service.RouteTimeProvider {
	return &mapsProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type mapsValue struct {
	Value float64 `json:"value"`
}

type mapsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Duration          mapsValue `json:"duration"`
			DurationInTraffic mapsValue `json:"duration_in_traffic"`
			Distance          mapsValue `json:"distance"`
		} `json:"legs"`
	} `json:"routes"`
}

func (p *mapsProvider) Duration(ctx context.Context, originLat, originLon, destLat, destLon float64, departure time.Time) (*service.RouteLeg, error) {
	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", originLat, originLon))
	q.Set("destination", fmt.Sprintf("%f,%f", destLat, destLon))
	q.Set("departure_time", fmt.Sprintf("%d", departure.Unix()))
	q.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/maps/api/directions/json?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(service.ErrProviderPermanent, err.Error())
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures are worth retrying once.
		return nil, errors.Wrap(service.ErrProviderTransient, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errors.Wrapf(service.ErrProviderTransient, "maps returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(service.ErrProviderPermanent, "maps returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(service.ErrProviderTransient, err.Error())
	}

	var parsed mapsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(service.ErrProviderPermanent, err.Error())
	}

	switch parsed.Status {
	case "OK":
	case "ZERO_RESULTS":
		// No route between this pair; the provider itself is healthy.
		return nil, errors.New("maps found no route for pair")
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return nil, errors.Wrapf(service.ErrProviderTransient, "maps status %s", parsed.Status)
	default:
		return nil, errors.Wrapf(service.ErrProviderPermanent, "maps status %s", parsed.Status)
	}

	if len(parsed.Routes) == 0 || len(parsed.Routes[0].Legs) == 0 {
		return nil, errors.Wrap(service.ErrProviderPermanent, "maps response has no legs")
	}

	leg := parsed.Routes[0].Legs[0]
	if leg.Duration.Value <= 0 {
		return nil, errors.Wrap(service.ErrProviderPermanent, "maps reported non-positive duration")
	}

	return &service.RouteLeg{
		Minutes:        leg.Duration.Value / 60,
		DistanceKm:     leg.Distance.Value / 1000,
		TrafficMinutes: leg.DurationInTraffic.Value / 60,
		Source:         mapsSource,
	}, nil
}
