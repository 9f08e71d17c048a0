// Package worldbank fetches series observations from the multi-country
// statistical API.
package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"resty.dev/v3"

	"econfetcher/internal/fetcher"
	"econfetcher/internal/ratelimit"
)

// perPage is generous enough that a multi-decade annual series never pages
const perPage = "200"

// metadata is the first element of the positional response envelope
type metadata struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
	Message []struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"message"`
}

// row is one entry of the second (data) element
type row struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Client fetches time series from the multi-country statistical API.
// Requests are keyed by country and indicator in the URL path; no
// credential is required.
type Client struct {
	client *resty.Client
}

// NewClient creates a new client for the given base URL
func NewClient(baseURL string) *Client {
	return &Client{
		client: fetcher.NewHTTPClient(baseURL),
	}
}

// Name identifies this provider in the source registry
func (c *Client) Name() string {
	return "worldbank"
}

// FetchSeries retrieves raw observations for one country/indicator pair.
// The response is a positional two-element JSON array — metadata first,
// then the data rows — which is unpacked here so no provider-specific
// shape leaks past this boundary. Null values map to "" in the shared
// observation form.
func (c *Client) FetchSeries(ctx context.Context, req fetcher.SeriesRequest) ([]fetcher.Observation, error) {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIWorldBank); err != nil {
		return nil, fetcher.NewNetworkError(err)
	}

	path := fmt.Sprintf("/country/%s/indicator/%s",
		strings.ToLower(req.CountryCode), req.SeriesID)

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"date":     fmt.Sprintf("%d:%d", req.Window.Start.Year(), req.Window.End.Year()),
			"format":   "json",
			"per_page": perPage,
		}).
		Get(path)

	if err != nil {
		return nil, fetcher.NewNetworkError(err)
	}

	if !resp.IsSuccess() {
		return nil, fetcher.NewHTTPError(resp.StatusCode())
	}

	return decodeEnvelope(resp.Bytes(), req.SeriesID)
}

// decodeEnvelope unpacks the positional [metadata, data] response shape
func decodeEnvelope(body []byte, seriesID string) ([]fetcher.Observation, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fetcher.NewProviderError(0, "response is not a JSON array")
	}

	// Errors arrive as a message block inside the metadata element
	if len(envelope) > 0 {
		var meta metadata
		if err := json.Unmarshal(envelope[0], &meta); err == nil && len(meta.Message) > 0 {
			return nil, fetcher.NewProviderError(0, meta.Message[0].Value)
		}
	}

	if len(envelope) < 2 {
		return nil, fetcher.NewNoDataError(seriesID)
	}

	var rows []row
	if err := json.Unmarshal(envelope[1], &rows); err != nil {
		return nil, fetcher.NewProviderError(0, fmt.Sprintf("malformed data element: %v", err))
	}

	if len(rows) == 0 {
		return nil, fetcher.NewNoDataError(seriesID)
	}

	observations := make([]fetcher.Observation, len(rows))
	for i, r := range rows {
		value := ""
		if r.Value != nil {
			value = strconv.FormatFloat(*r.Value, 'f', -1, 64)
		}
		observations[i] = fetcher.Observation{Date: r.Date, Value: value}
	}

	return observations, nil
}
