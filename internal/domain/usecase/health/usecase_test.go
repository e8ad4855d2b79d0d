package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"city-weather/internal/domain/model"
	"city-weather/pkg/redis"
)

type stubRedis struct {
	status redis.HealthStatus
}

func (s stubRedis) HealthCheck(context.Context) redis.RedisHealthCheck {
	return redis.RedisHealthCheck{Status: s.status, Details: map[string]string{"host": "localhost"}}
}

type stubShell struct {
	err error
}

func (s stubShell) Ping(context.Context) error {
	return s.err
}

var provider = ProviderInfo{BaseURL: "http://api.openweathermap.org/data/2.5", Lang: "sp"}

func TestCheckHealth(t *testing.T) {
	t.Run("all components up", func(t *testing.T) {
		useCase := NewHealthUseCase(provider, stubRedis{status: redis.StatusUp}, stubShell{})

		resp := useCase.CheckHealth(context.Background())

		assert.Equal(t, model.StatusUp, resp.Status)
		assert.Equal(t, model.StatusUp, resp.Provider.Status)
		assert.Equal(t, model.StatusUp, resp.Redis.Status)
		assert.Equal(t, "localhost", resp.Redis.Details["host"])
		assert.Equal(t, model.StatusUp, resp.Shell.Status)
		assert.Equal(t, "false", resp.Provider.Details["apiKey"])
	})

	t.Run("redis disabled does not bring the service down", func(t *testing.T) {
		useCase := NewHealthUseCase(provider, nil, stubShell{})

		resp := useCase.CheckHealth(context.Background())

		assert.Equal(t, model.StatusUp, resp.Status)
		assert.Equal(t, model.StatusDisabled, resp.Redis.Status)
	})

	t.Run("stopped shell loop is down", func(t *testing.T) {
		useCase := NewHealthUseCase(provider, nil, stubShell{err: errors.New("navigator event loop stopped")})

		resp := useCase.CheckHealth(context.Background())

		assert.Equal(t, model.StatusDown, resp.Status)
		assert.Equal(t, model.StatusDown, resp.Shell.Status)
		assert.Equal(t, "navigator event loop stopped", resp.Shell.Details["error"])
	})

	t.Run("redis down and missing base url", func(t *testing.T) {
		useCase := NewHealthUseCase(ProviderInfo{}, stubRedis{status: redis.StatusDown}, stubShell{})

		resp := useCase.CheckHealth(context.Background())

		assert.Equal(t, model.StatusDown, resp.Status)
		assert.Equal(t, model.StatusDown, resp.Provider.Status)
		assert.Equal(t, model.StatusDown, resp.Redis.Status)
	})
}
