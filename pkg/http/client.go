package http

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	charsetpkg "golang.org/x/net/html/charset"
)

// Client represents an HTTP client with configuration options.
type Client struct {
	baseURL string
	client  *http.Client
	logger  HTTPLogger
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	FollowRedirect      bool
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	// Logger receives request/response events. Nil disables logging.
	Logger HTTPLogger
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 20
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 5
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}

	transport := &http.Transport{
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		IdleConnTimeout:     opts.IdleConnTimeout,
		DialContext: (&net.Dialer{
			Timeout: opts.ConnectionTimeout,
		}).DialContext,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.ReadTimeout,
	}

	if !opts.FollowRedirect {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  opts.Logger,
	}
}

// Request creates a new Request object for the client.
func (hc *Client) Request() *Request {
	return NewHttpClientRequest(hc)
}

// doRequest builds the URL, executes the request once and decodes the response.
// It returns the success response, error response, status code, and error if any.
func (hc *Client) doRequest(ctx context.Context, method, path string, queryParams map[string]string, successResp any, errorResp any) (any, any, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	requestURL := hc.buildURL(path)
	if len(queryParams) > 0 {
		requestURL += "?" + buildQueryString(queryParams)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return nil, nil, 0, err
	}

	requestHeaders := flattenHeaders(req.Header)
	hc.logger.LogRequest(method, requestURL, requestHeaders)
	start := time.Now()

	resp, err := hc.client.Do(req)
	if err != nil {
		hc.logger.LogResponseError(method, requestURL, requestHeaders, 0, "", time.Since(start).Milliseconds(), err)
		return nil, nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		hc.logger.LogResponseError(method, requestURL, requestHeaders, resp.StatusCode, "", latency, err)
		return nil, nil, resp.StatusCode, err
	}

	respContentType := resp.Header.Get("Content-Type")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		hc.logger.LogResponseSuccess(method, requestURL, requestHeaders, resp.StatusCode, string(bodyBytes), latency)
		if successResp != nil {
			if err = hc.unmarshalResponse(bodyBytes, respContentType, successResp); err != nil {
				return nil, nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return successResp, nil, resp.StatusCode, nil
	}

	statusErr := &StatusError{StatusCode: resp.StatusCode}
	hc.logger.LogResponseError(method, requestURL, requestHeaders, resp.StatusCode, string(bodyBytes), latency, statusErr)

	if errorResp != nil {
		if err = hc.unmarshalResponse(bodyBytes, respContentType, errorResp); err != nil {
			return nil, nil, resp.StatusCode, statusErr
		}
	}

	return nil, errorResp, resp.StatusCode, statusErr
}

// StatusError is returned when the server answers with a non 2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// unmarshalResponse decodes XML bodies in any charset the document declares
// and everything else as JSON.
func (hc *Client) unmarshalResponse(bodyBytes []byte, contentType string, target any) error {
	mainContentType := strings.TrimSpace(strings.Split(contentType, ";")[0])

	switch mainContentType {
	case "application/xml", "text/xml":
		dec := xml.NewDecoder(bytes.NewReader(bodyBytes))
		dec.CharsetReader = charsetpkg.NewReaderLabel
		return dec.Decode(target)
	default:
		return json.Unmarshal(bodyBytes, target)
	}
}

// buildURL builds a normalized URL by properly handling baseURL and path
func (hc *Client) buildURL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return hc.baseURL + path
}

// buildQueryString builds an encoded query string sorted by key
func buildQueryString(params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	return values.Encode()
}

func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for key := range header {
		flat[key] = header.Get(key)
	}
	return flat
}
