package api

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"city-weather/internal/domain/model/external"
	"city-weather/pkg/http"
	"city-weather/pkg/log"
	"city-weather/pkg/msg"
	"city-weather/pkg/redis"
)

// Response formats the provider can answer with
const (
	ModeJSON = "json"
	ModeXML  = "xml"
)

// GatewayConfig configures the provider gateway
type GatewayConfig struct {
	BaseURL string
	Path    string
	APIKey  string
	// Lang is sent as the provider language preference
	Lang string
	// Mode selects the response format. Empty means JSON.
	Mode string
	// OKStatus is reported for XML answers, which carry no status of their own.
	OKStatus int
	// EpochInSeconds makes XML timestamps seconds instead of milliseconds.
	EpochInSeconds bool
	ClientOptions  http.ClientOptions
	// Limiter is optional. Only an exhausted quota blocks a read, any other
	// limiter failure is logged and the read goes ahead.
	Limiter Limiter
}

// weatherGatewayImpl implements the WeatherGateway interface
type weatherGatewayImpl struct {
	httpClient     *http.Client
	path           string
	apiKey         string
	lang           string
	mode           string
	okStatus       int
	epochInSeconds bool
	limiter        Limiter
}

// NewWeatherGateway creates a new instance of WeatherGateway with HTTP client
func NewWeatherGateway(config GatewayConfig) WeatherGateway {
	path := config.Path
	if path == "" {
		path = "/weather"
	}
	mode := config.Mode
	if mode == "" {
		mode = ModeJSON
	}
	okStatus := config.OKStatus
	if okStatus == 0 {
		okStatus = 200
	}

	return &weatherGatewayImpl{
		httpClient:     http.NewHttpClient(config.BaseURL, config.ClientOptions),
		path:           path,
		apiKey:         config.APIKey,
		lang:           config.Lang,
		mode:           mode,
		okStatus:       okStatus,
		epochInSeconds: config.EpochInSeconds,
		limiter:        config.Limiter,
	}
}

// CurrentWeather gets the current weather for a city
func (w *weatherGatewayImpl) CurrentWeather(ctx context.Context, name string, country string) (*external.CurrentWeatherResponse, error) {
	if err := w.allow(ctx, name, country); err != nil {
		return nil, err
	}

	query := map[string]string{
		"q":    name + "," + country,
		"lang": w.lang,
	}
	if w.apiKey != "" {
		query["appid"] = w.apiKey
	}

	var target any = &external.CurrentWeatherResponse{}
	if w.mode == ModeXML {
		query["mode"] = ModeXML
		target = &external.CurrentWeatherXML{}
	}

	successResp, errResp, status, err := w.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath(w.path).
		WithQueryParams(query).
		WithSuccessResp(target).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute()

	if err == nil {
		if doc, ok := successResp.(*external.CurrentWeatherXML); ok {
			resp, err := doc.ToResponse(w.okStatus, w.epochInSeconds)
			if err != nil {
				return nil, fmt.Errorf("weather provider sent an invalid document: %w", err)
			}
			return resp, nil
		}
		return successResp.(*external.CurrentWeatherResponse), nil
	}

	var statusErr *http.StatusError
	if !errors.As(err, &statusErr) {
		return nil, fmt.Errorf("weather provider request failed: %w", err)
	}

	providerErr := &ProviderError{HTTPStatus: status}
	if errResp != nil {
		apiErr := errResp.(*external.APIErrorResponse)
		providerErr.Code = int(apiErr.Cod)
		providerErr.Message = apiErr.Message
	}
	return nil, providerErr
}

// allow blocks the read only when the quota is spent. A limiter that cannot
// decide, for example because Redis is down, must not take the provider down with it.
func (w *weatherGatewayImpl) allow(ctx context.Context, name string, country string) error {
	if w.limiter == nil {
		return nil
	}
	err := w.limiter.Allow(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.ErrRateLimitExceeded) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	log.Warn(msg.GetMessage("weather.limiter-failed", name+","+country, err), zap.Error(err))
	return nil
}
