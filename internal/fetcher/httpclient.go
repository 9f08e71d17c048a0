package fetcher

import (
	"log/slog"

	"resty.dev/v3"
)

// NewHTTPClient creates the HTTP client used by every upstream.
// No retry policy is attached: a failed request is terminal for that call,
// so transient upstream trouble surfaces as a degraded run instead of
// being papered over.
func NewHTTPClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		AddResponseMiddleware(logResponse)
}

// logResponse logs each completed request for observability
func logResponse(_ *resty.Client, r *resty.Response) error {
	slog.Debug("request completed",
		"url", r.Request.URL,
		"status_code", r.StatusCode(),
		"duration", r.Duration())
	return nil
}
