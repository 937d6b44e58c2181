package utils

import (
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Every request sent through an HTTPClient carries an X-Request-ID header
// unless the caller already set one.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient bound to baseURL with the given
// per-request timeout.
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://api.example.com", 15*time.Second)
//	resp, err := client.R().
//	    SetHeader("Accept", "application/json").
//	    Get("/users")
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	ids := NewUUIDGenerator()

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(RequestIDHeader) == "" {
				r.SetHeader(RequestIDHeader, ids.Generate())
			}
			return nil
		})

	return &HTTPClient{Client: client}
}

// WithLogging logs every completed request with its method, path, status,
// duration and size. The query string is never logged: it may carry the
// API key.
func (c *HTTPClient) WithLogging(log *logger.Logger) *HTTPClient {
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		req := resp.Request

		path := ""
		if req.RawRequest != nil && req.RawRequest.URL != nil {
			path = req.RawRequest.URL.Path
		}

		log.Debug().
			Str("request_id", req.Header.Get(RequestIDHeader)).
			Str("method", req.Method).
			Str("path", path).
			Int("status", resp.StatusCode()).
			Dur("duration", resp.Time()).
			Int64("size", resp.Size()).
			Send()
		return nil
	})
	return c
}
