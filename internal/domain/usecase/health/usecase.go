package health

import (
	"context"

	"city-weather/internal/domain/model"
	"city-weather/pkg/redis"
)

type UseCase interface {
	CheckHealth(ctx context.Context) model.HealthResponse
}

// RedisChecker is satisfied by *redis.Client.
type RedisChecker interface {
	HealthCheck(ctx context.Context) redis.RedisHealthCheck
}

// ShellChecker reports whether the UI event loop still accepts work.
type ShellChecker interface {
	Ping(ctx context.Context) error
}

// ProviderInfo is the static provider configuration shown in the report.
type ProviderInfo struct {
	BaseURL     string
	APIKeyIsSet bool
	RateLimited bool
	Lang        string
}
