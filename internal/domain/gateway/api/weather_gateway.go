package api

import (
	"context"
	"errors"
	"fmt"

	"city-weather/internal/domain/model/external"
)

// WeatherGateway defines the interface for the third-party weather provider
type WeatherGateway interface {
	// CurrentWeather issues one read request for "{name},{country}".
	// Responses with a 2xx HTTP status are returned as-is, including an
	// application level non-OK "cod"; checking it is up to the caller.
	CurrentWeather(ctx context.Context, name string, country string) (*external.CurrentWeatherResponse, error)
}

// ErrRateLimited is returned when the Limiter refuses a provider read
var ErrRateLimited = errors.New("weather provider rate limited")

// Limiter guards the provider quota. Allow must not block.
type Limiter interface {
	Allow(ctx context.Context) error
}

// ProviderError is returned when the provider answers with an error HTTP status
type ProviderError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather provider returned status %d", e.HTTPStatus)
	}
	return fmt.Sprintf("weather provider returned status %d: %s", e.HTTPStatus, e.Message)
}
