package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCounter struct {
	counts map[string]int64
	keys   []string
	err    error
}

func (m *memoryCounter) IncrWithExpiration(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	m.keys = append(m.keys, key)
	return m.counts[key], nil
}

func TestRateLimiterAllow(t *testing.T) {
	counter := &memoryCounter{}
	limiter, err := NewRateLimiter(counter, "provider", NewRateLimiterOptions().
		WithMaxTransactionsPerMinute(2).
		WithNamespace("city-weather"))
	require.NoError(t, err)

	now := time.Date(2026, 10, 16, 12, 0, 5, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.NoError(t, limiter.Allow(context.Background()))
	assert.NoError(t, limiter.Allow(context.Background()))
	assert.ErrorIs(t, limiter.Allow(context.Background()), ErrRateLimitExceeded)

	now = now.Add(time.Minute)
	assert.NoError(t, limiter.Allow(context.Background()), "new window resets the quota")

	assert.Equal(t, "city-weather::provider::tpm::29869200", counter.keys[0])
}

func TestRateLimiterCounterFailure(t *testing.T) {
	limiter, err := NewRateLimiter(&memoryCounter{err: errors.New("connection refused")}, "provider", nil)
	require.NoError(t, err)

	err = limiter.Allow(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, ErrRateLimitExceeded)
}

func TestRateLimiterOptionsValidate(t *testing.T) {
	_, err := NewRateLimiter(&memoryCounter{}, "provider", NewRateLimiterOptions().WithMaxTransactionsPerMinute(0))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "defaults", config: NewRedisConfig()},
		{name: "empty host", config: NewRedisConfig().WithHost(""), wantErr: true},
		{name: "bad port", config: NewRedisConfig().WithPort(70000), wantErr: true},
		{name: "bad database", config: NewRedisConfig().WithDatabase(16), wantErr: true},
		{name: "negative timeout", config: NewRedisConfig().WithDialTimeout(-time.Second), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	_, err := NewClient(NewRedisConfig().WithPort(0))
	assert.Error(t, err)
}
