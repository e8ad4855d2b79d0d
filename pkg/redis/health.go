package redis

import (
	"context"
	"strconv"
	"time"
)

// RedisHealthCheck represents the health check response for Redis
type RedisHealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthCheck pings Redis and reports the connection settings
func (c *Client) HealthCheck(ctx context.Context) RedisHealthCheck {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	details := map[string]string{
		"host":     c.config.Host,
		"port":     strconv.Itoa(c.config.Port),
		"database": strconv.Itoa(c.config.Database),
	}

	start := time.Now()
	if err := c.Ping(ctx); err != nil {
		details["error"] = err.Error()
		return RedisHealthCheck{Status: StatusDown, Details: details}
	}
	details["latency"] = time.Since(start).String()

	return RedisHealthCheck{Status: StatusUp, Details: details}
}
