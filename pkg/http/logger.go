package http

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"city-weather/pkg/log"
)

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent with all request data formed
	LogRequest(method, url string, headers map[string]string)

	// LogResponseSuccess is called immediately after receiving a successful response (non-error HTTP status)
	LogResponseSuccess(method, url string, headers map[string]string, httpStatus int, responseBody string, latency int64)

	// LogResponseError is called after a transport failure or an error HTTP status
	LogResponseError(method, url string, headers map[string]string, httpStatus int, responseBody string, latency int64, err error)
}

type nopLogger struct{}

func (nopLogger) LogRequest(string, string, map[string]string)                          {}
func (nopLogger) LogResponseSuccess(string, string, map[string]string, int, string, int64) {}
func (nopLogger) LogResponseError(string, string, map[string]string, int, string, int64, error) {
}

// ZapLogger writes HTTP events through pkg/log. Query parameters named in
// Redact are masked before the URL is logged.
type ZapLogger struct {
	Redact []string
}

// NewZapLogger returns a logger masking the given query parameters.
func NewZapLogger(redact ...string) *ZapLogger {
	return &ZapLogger{Redact: redact}
}

func (l *ZapLogger) LogRequest(method, rawURL string, _ map[string]string) {
	log.Debug("http request",
		zap.String("method", method),
		zap.String("url", l.redact(rawURL)))
}

func (l *ZapLogger) LogResponseSuccess(method, rawURL string, _ map[string]string, httpStatus int, _ string, latency int64) {
	log.Info("http response",
		zap.String("method", method),
		zap.String("url", l.redact(rawURL)),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency))
}

func (l *ZapLogger) LogResponseError(method, rawURL string, _ map[string]string, httpStatus int, responseBody string, latency int64, err error) {
	log.Error("http response error",
		zap.String("method", method),
		zap.String("url", l.redact(rawURL)),
		zap.Int("status", httpStatus),
		zap.String("response", truncate(responseBody, 512)),
		zap.Int64("latency_ms", latency),
		zap.Error(err))
}

func (l *ZapLogger) redact(rawURL string) string {
	if len(l.Redact) == 0 {
		return rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	for _, name := range l.Redact {
		if query.Has(name) {
			query.Set(name, "***")
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
