package testutil

import (
	"context"

	"econfetcher/internal/fetcher"
)

// MockSource is a mock implementation of the SeriesSource interface for testing
type MockSource struct {
	FetchFunc func(ctx context.Context, req fetcher.SeriesRequest) ([]fetcher.Observation, error)
	NameFunc  func() string
}

// FetchSeries implements the SeriesSource interface
func (m *MockSource) FetchSeries(ctx context.Context, req fetcher.SeriesRequest) ([]fetcher.Observation, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, req)
	}
	return nil, nil
}

// Name implements the SeriesSource interface
func (m *MockSource) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

// NewMockSource creates a mock source that answers every request with the
// same observations and error
func NewMockSource(name string, observations []fetcher.Observation, err error) fetcher.SeriesSource {
	return &MockSource{
		FetchFunc: func(ctx context.Context, req fetcher.SeriesRequest) ([]fetcher.Observation, error) {
			return observations, err
		},
		NameFunc: func() string {
			return name
		},
	}
}
