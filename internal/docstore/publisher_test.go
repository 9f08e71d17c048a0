package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC)

func TestMerge_UntouchedSectionsByteIdentical(t *testing.T) {
	// Prior document carries US and CN; the run refreshes only US.
	cnPrior := json.RawMessage(`{"name":"China","currency":"CNY","inflation":[{"month":"2024-12","value":0.2}]}`)
	base := map[string]json.RawMessage{
		"US": json.RawMessage(`{"name":"United States","old":true}`),
		"CN": cnPrior,
	}
	partial := map[string]json.RawMessage{
		"US": json.RawMessage(`{"name":"United States","currency":"USD"}`),
	}

	merged := Merge(base, partial, testNow)

	if !bytes.Equal(merged["CN"], cnPrior) {
		t.Errorf("untouched section CN changed: %s", merged["CN"])
	}
	if !bytes.Equal(merged["US"], partial["US"]) {
		t.Errorf("US = %s, want the new partial value", merged["US"])
	}
	if string(merged["lastUpdated"]) != `"2025-11-20T12:00:00Z"` {
		t.Errorf("lastUpdated = %s, want refreshed stamp", merged["lastUpdated"])
	}
}

func TestMerge_EmptyBase(t *testing.T) {
	partial := map[string]json.RawMessage{
		"US": json.RawMessage(`{"currency":"USD"}`),
	}

	merged := Merge(nil, partial, testNow)

	if len(merged) != 2 {
		t.Errorf("merged has %d keys, want 2 (US + lastUpdated)", len(merged))
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := map[string]json.RawMessage{"CN": json.RawMessage(`{}`)}
	partial := map[string]json.RawMessage{"US": json.RawMessage(`{}`)}

	Merge(base, partial, testNow)

	if len(base) != 1 || len(partial) != 1 {
		t.Error("Merge() mutated an input map")
	}
}

// priorDocumentBody wraps content the way the store serves it
func priorDocumentBody(t *testing.T, fileName, content string) []byte {
	t.Helper()
	body, err := json.Marshal(document{
		Files: map[string]documentFile{fileName: {Content: content}},
	})
	if err != nil {
		t.Fatalf("failed to marshal prior document: %v", err)
	}
	return body
}

func TestPublish_MergesWithPriorDocument(t *testing.T) {
	prior := `{"CN":{"name":"China"},"US":{"name":"United States","stale":true}}`

	var patched []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/doc123" {
			t.Errorf("path = %q, want /documents/doc123", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test_token" {
			t.Errorf("Authorization = %q, want bearer credential", got)
		}

		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			w.Write(priorDocumentBody(t, "indicators.json", prior))
		case http.MethodPatch:
			patched, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient("test_token", "doc123", "indicators.json", server.URL)
	client.now = func() time.Time { return testNow }

	err := client.Publish(context.Background(), map[string]json.RawMessage{
		"US": json.RawMessage(`{"name":"United States","currency":"USD"}`),
	})
	if err != nil {
		t.Fatalf("Publish() returned unexpected error: %v", err)
	}

	if patched == nil {
		t.Fatal("no PATCH request was issued")
	}

	var wire document
	if err := json.Unmarshal(patched, &wire); err != nil {
		t.Fatalf("PATCH body is not a document: %v", err)
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal([]byte(wire.Files["indicators.json"].Content), &merged); err != nil {
		t.Fatalf("published content is not a JSON object: %v", err)
	}

	if !bytes.Equal(merged["CN"], json.RawMessage(`{"name":"China"}`)) {
		t.Errorf("CN section changed: %s", merged["CN"])
	}
	if strings.Contains(string(merged["US"]), "stale") {
		t.Errorf("US section was not replaced: %s", merged["US"])
	}
	if _, ok := merged["lastUpdated"]; !ok {
		t.Error("merged document has no lastUpdated stamp")
	}
}

func TestPublish_ReadFailureFallsBackToEmptyBase(t *testing.T) {
	var patched []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusInternalServerError)
		case http.MethodPatch:
			patched, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient("test_token", "doc123", "indicators.json", server.URL)
	client.now = func() time.Time { return testNow }

	err := client.Publish(context.Background(), map[string]json.RawMessage{
		"US": json.RawMessage(`{"currency":"USD"}`),
	})
	if err != nil {
		t.Fatalf("Publish() must not fail on an unreadable prior document: %v", err)
	}
	if patched == nil {
		t.Fatal("no PATCH request was issued after the read fallback")
	}
}

func TestPublish_MalformedPriorContentFallsBackToEmptyBase(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			w.Write(priorDocumentBody(t, "indicators.json", "this is not json{{"))
		case http.MethodPatch:
			w.WriteHeader(http.StatusOK)
		}
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient("test_token", "doc123", "indicators.json", server.URL)
	client.now = func() time.Time { return testNow }

	err := client.Publish(context.Background(), map[string]json.RawMessage{
		"US": json.RawMessage(`{"currency":"USD"}`),
	})
	if err != nil {
		t.Fatalf("Publish() must not fail on malformed prior content: %v", err)
	}
}

func TestPublish_WriteFailureIsFatal(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			w.Write(priorDocumentBody(t, "indicators.json", `{}`))
		case http.MethodPatch:
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"Bad credentials"}`))
		}
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient("bad_token", "doc123", "indicators.json", server.URL)
	client.now = func() time.Time { return testNow }

	err := client.Publish(context.Background(), map[string]json.RawMessage{
		"US": json.RawMessage(`{"currency":"USD"}`),
	})
	if err == nil {
		t.Fatal("Publish() expected error on write failure, got nil")
	}

	// The error is typed and reports the store's status and body
	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("Publish() error = %T, want *PublishError", err)
	}
	if pe.StatusCode != http.StatusForbidden {
		t.Errorf("status code = %d, want 403", pe.StatusCode)
	}
	if !strings.Contains(pe.Body, "Bad credentials") {
		t.Errorf("body %q does not carry the store's response", pe.Body)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error %q does not carry the status code", err)
	}
	if !strings.Contains(err.Error(), "Bad credentials") {
		t.Errorf("error %q does not carry the response body", err)
	}
}
