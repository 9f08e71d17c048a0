// Package fred fetches series observations from the US statistical API.
package fred

import (
	"context"

	"resty.dev/v3"

	"econfetcher/internal/fetcher"
	"econfetcher/internal/ratelimit"
)

// observationsResponse represents the series/observations envelope.
// A 200 response may still carry an embedded error code.
type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// Client fetches time series from the US statistical API.
// It is keyed by API credential in the query string and covers the
// United States only.
type Client struct {
	apiKey string
	client *resty.Client
}

// NewClient creates a new client for the given credential and base URL
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey: apiKey,
		client: fetcher.NewHTTPClient(baseURL),
	}
}

// Name identifies this provider in the source registry
func (c *Client) Name() string {
	return "fred"
}

// FetchSeries retrieves raw observations for one series id within the
// requested window. The request's country code is ignored: this source
// only serves US series. The sentinel value "." for missing dates is
// passed through for the normalizer to drop.
func (c *Client) FetchSeries(ctx context.Context, req fetcher.SeriesRequest) ([]fetcher.Observation, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIFRED); err != nil {
		return nil, fetcher.NewNetworkError(err)
	}

	var result observationsResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"series_id":         req.SeriesID,
			"api_key":           c.apiKey,
			"file_type":         "json",
			"observation_start": req.Window.Start.Format("2006-01-02"),
			"observation_end":   req.Window.End.Format("2006-01-02"),
		}).
		SetResult(&result).
		Get("/series/observations")

	if err != nil {
		return nil, fetcher.NewNetworkError(err)
	}

	if !resp.IsSuccess() {
		return nil, fetcher.NewHTTPError(resp.StatusCode())
	}

	if result.ErrorCode != 0 {
		return nil, fetcher.NewProviderError(result.ErrorCode, result.ErrorMessage)
	}

	if len(result.Observations) == 0 {
		return nil, fetcher.NewNoDataError(req.SeriesID)
	}

	observations := make([]fetcher.Observation, len(result.Observations))
	for i, obs := range result.Observations {
		observations[i] = fetcher.Observation{Date: obs.Date, Value: obs.Value}
	}

	return observations, nil
}
