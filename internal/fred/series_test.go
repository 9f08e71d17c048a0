package fred

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"econfetcher/internal/fetcher"
)

func testWindow() fetcher.Window {
	return fetcher.Window{
		Start: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("test_key", "https://api.example.com/fred")

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.apiKey != "test_key" {
		t.Errorf("apiKey = %q, want %q", client.apiKey, "test_key")
	}
	if client.client == nil {
		t.Error("client is nil")
	}
	if client.Name() != "fred" {
		t.Errorf("Name() = %q, want %q", client.Name(), "fred")
	}
}

func TestClient_FetchSeries_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request shape
		q := r.URL.Query()
		if q.Get("series_id") != "UNRATE" {
			t.Errorf("series_id = %q, want UNRATE", q.Get("series_id"))
		}
		if q.Get("api_key") != "test_key" {
			t.Errorf("api_key = %q, want test_key", q.Get("api_key"))
		}
		if q.Get("file_type") != "json" {
			t.Errorf("file_type = %q, want json", q.Get("file_type"))
		}
		if q.Get("observation_start") != "2020-01-01" {
			t.Errorf("observation_start = %q, want 2020-01-01", q.Get("observation_start"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"observations": [
				{"date": "2025-09-01", "value": "4.3"},
				{"date": "2025-10-01", "value": "."},
				{"date": "2025-11-01", "value": "4.2"}
			]
		}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient("test_key", server.URL)

	observations, err := client.FetchSeries(context.Background(), fetcher.SeriesRequest{
		SeriesID: "UNRATE",
		Window:   testWindow(),
	})
	if err != nil {
		t.Fatalf("FetchSeries() returned unexpected error: %v", err)
	}

	if len(observations) != 3 {
		t.Fatalf("FetchSeries() returned %d observations, want 3", len(observations))
	}
	if observations[0].Date != "2025-09-01" || observations[0].Value != "4.3" {
		t.Errorf("observations[0] = %+v, want {2025-09-01 4.3}", observations[0])
	}
	// The sentinel passes through untouched
	if observations[1].Value != "." {
		t.Errorf("observations[1].Value = %q, want sentinel to pass through", observations[1].Value)
	}
}

func TestClient_FetchSeries_HTTPError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient("test_key", server.URL)

	_, err := client.FetchSeries(context.Background(), fetcher.SeriesRequest{
		SeriesID: "UNRATE",
		Window:   testWindow(),
	})
	if err == nil {
		t.Fatal("FetchSeries() expected error, got nil")
	}

	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("FetchSeries() error = %T, want *fetcher.FetchError", err)
	}
	if fe.Type != fetcher.ErrorTypeHTTP {
		t.Errorf("error type = %q, want %q", fe.Type, fetcher.ErrorTypeHTTP)
	}
	if fe.StatusCode != http.StatusInternalServerError {
		t.Errorf("status code = %d, want 500", fe.StatusCode)
	}
}

func TestClient_FetchSeries_EmbeddedProviderError(t *testing.T) {
	// A 200 response can still carry a provider error envelope
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"error_code": 400,
			"error_message": "Bad Request. The series does not exist."
		}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient("test_key", server.URL)

	_, err := client.FetchSeries(context.Background(), fetcher.SeriesRequest{
		SeriesID: "NOSUCH",
		Window:   testWindow(),
	})
	if err == nil {
		t.Fatal("FetchSeries() expected error, got nil")
	}

	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("FetchSeries() error = %T, want *fetcher.FetchError", err)
	}
	if fe.Type != fetcher.ErrorTypeProvider {
		t.Errorf("error type = %q, want %q", fe.Type, fetcher.ErrorTypeProvider)
	}
}

func TestClient_FetchSeries_EmptyObservations(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"observations": []}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient("test_key", server.URL)

	_, err := client.FetchSeries(context.Background(), fetcher.SeriesRequest{
		SeriesID: "UNRATE",
		Window:   testWindow(),
	})
	if !fetcher.IsNoData(err) {
		t.Errorf("FetchSeries() error = %v, want a no-data error", err)
	}
}

func TestClient_FetchSeries_NetworkError(t *testing.T) {
	// Point at a server that is already closed
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("test_key", server.URL)

	_, err := client.FetchSeries(context.Background(), fetcher.SeriesRequest{
		SeriesID: "UNRATE",
		Window:   testWindow(),
	})
	if err == nil {
		t.Fatal("FetchSeries() expected error, got nil")
	}

	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("FetchSeries() error = %T, want *fetcher.FetchError", err)
	}
	if fe.Type != fetcher.ErrorTypeNetwork {
		t.Errorf("error type = %q, want %q", fe.Type, fetcher.ErrorTypeNetwork)
	}
}
