package health

import (
	"context"
	"strconv"
	"time"

	"city-weather/internal/domain/model"
)

const shellPingTimeout = time.Second

type healthUseCase struct {
	provider ProviderInfo
	redis    RedisChecker
	shell    ShellChecker
}

// NewHealthUseCase builds the health report. redis may be nil when the rate
// limiter is disabled.
func NewHealthUseCase(provider ProviderInfo, redis RedisChecker, shell ShellChecker) UseCase {
	return &healthUseCase{
		provider: provider,
		redis:    redis,
		shell:    shell,
	}
}

func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	providerHealth := useCase.providerHealth()
	redisHealth := useCase.redisHealth(ctx)
	shellHealth := useCase.shellHealth(ctx)

	overallStatus := model.StatusUp
	for _, component := range []model.ComponentHealthStatus{providerHealth, redisHealth, shellHealth} {
		if component.Status == model.StatusDown {
			overallStatus = model.StatusDown
		}
	}

	return model.HealthResponse{
		Status:   overallStatus,
		Provider: providerHealth,
		Redis:    redisHealth,
		Shell:    shellHealth,
	}
}

// providerHealth never calls the provider, a probe would spend quota.
func (useCase *healthUseCase) providerHealth() model.ComponentHealthStatus {
	details := map[string]string{
		"baseUrl":     useCase.provider.BaseURL,
		"lang":        useCase.provider.Lang,
		"apiKey":      strconv.FormatBool(useCase.provider.APIKeyIsSet),
		"rateLimited": strconv.FormatBool(useCase.provider.RateLimited),
	}
	if useCase.provider.BaseURL == "" {
		details["error"] = "base url is not configured"
		return model.ComponentHealthStatus{Status: model.StatusDown, Details: details}
	}
	return model.ComponentHealthStatus{Status: model.StatusUp, Details: details}
}

func (useCase *healthUseCase) redisHealth(ctx context.Context) model.ComponentHealthStatus {
	if useCase.redis == nil {
		return model.ComponentHealthStatus{Status: model.StatusDisabled, Details: map[string]string{}}
	}
	check := useCase.redis.HealthCheck(ctx)
	return model.ComponentHealthStatus{Status: model.HealthStatus(check.Status), Details: check.Details}
}

func (useCase *healthUseCase) shellHealth(ctx context.Context) model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(ctx, shellPingTimeout)
	defer cancel()

	start := time.Now()
	if err := useCase.shell.Ping(ctx); err != nil {
		return model.ComponentHealthStatus{
			Status:  model.StatusDown,
			Details: map[string]string{"error": err.Error()},
		}
	}
	return model.ComponentHealthStatus{
		Status:  model.StatusUp,
		Details: map[string]string{"latency": time.Since(start).String()},
	}
}
