// Package docstore publishes merged indicator documents to the remote
// key/value document store over HTTP.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"resty.dev/v3"

	"econfetcher/internal/fetcher"
	"econfetcher/internal/ratelimit"
)

// lastUpdatedKey is the top-level timestamp refreshed on every publish
const lastUpdatedKey = "lastUpdated"

// document is the wire shape of the store's blob container
type document struct {
	Files map[string]documentFile `json:"files"`
}

// documentFile wraps one named content blob
type documentFile struct {
	Content string `json:"content"`
}

// Client performs the read-merge-write publish sequence against one
// remote document. The store is overwrite-whole-blob: the merged document
// is written back in full, not patched by path.
//
// No optimistic-concurrency check is performed: concurrent runs racing on
// the same document id can lose updates. Known limitation.
type Client struct {
	documentID string
	fileName   string
	client     *resty.Client
	now        func() time.Time
}

// NewClient creates a publisher for one document in the remote store
func NewClient(token, documentID, fileName, baseURL string) *Client {
	return &Client{
		documentID: documentID,
		fileName:   fileName,
		client:     fetcher.NewHTTPClient(baseURL).SetAuthToken(token),
		now:        time.Now,
	}
}

// Publish merges the partial document into the currently published one
// and writes the result back. Sections named in partial fully replace
// their prior value; every other top-level section carries through byte
// for byte. Read failures degrade to an empty base so publishing is never
// blocked by unreadable prior state; write failures are fatal and return
// a *PublishError carrying the store's status and body.
func (c *Client) Publish(ctx context.Context, partial map[string]json.RawMessage) error {
	base := c.readBase(ctx)
	merged := Merge(base, partial, c.now().UTC())

	// Compact encoding: indentation would rewrite the bytes of carried-
	// through sections, and untouched sections must survive verbatim.
	content, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to marshal merged document: %w", err)
	}

	return c.write(ctx, string(content))
}

// Merge overlays partial sections onto base and refreshes the lastUpdated
// stamp. Neither input map is modified.
func Merge(base, partial map[string]json.RawMessage, now time.Time) map[string]json.RawMessage {
	merged := make(map[string]json.RawMessage, len(base)+len(partial)+1)
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}

	stamp, _ := json.Marshal(now.Format(time.RFC3339))
	merged[lastUpdatedKey] = stamp

	return merged
}

// readBase fetches and decodes the prior document. Any failure — network,
// status, missing file, malformed content — logs a structural fallback
// and returns an empty base rather than blocking the publish.
func (c *Client) readBase(ctx context.Context) map[string]json.RawMessage {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIDocStore); err != nil {
		slog.Warn("publishing against an empty base: rate limiter interrupted", "error", err)
		return nil
	}

	var result document

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/documents/" + c.documentID)

	if err != nil {
		slog.Warn("publishing against an empty base: prior document unreachable", "error", err)
		return nil
	}
	if !resp.IsSuccess() {
		slog.Warn("publishing against an empty base: prior document read failed",
			"status_code", resp.StatusCode())
		return nil
	}

	file, ok := result.Files[c.fileName]
	if !ok || file.Content == "" {
		slog.Warn("publishing against an empty base: prior document has no content file",
			"file", c.fileName)
		return nil
	}

	var base map[string]json.RawMessage
	if err := json.Unmarshal([]byte(file.Content), &base); err != nil {
		slog.Warn("publishing against an empty base: prior content is malformed", "error", err)
		return nil
	}

	return base
}

// write serializes the merged document back to the store as the new
// whole-blob content. A non-success response is fatal for the run and is
// reported with the store's status and body.
func (c *Client) write(ctx context.Context, content string) error {
	if err := ratelimit.GetLimiter().Wait(ctx, ratelimit.APIDocStore); err != nil {
		return newWriteFailedError(err)
	}

	body := document{
		Files: map[string]documentFile{
			c.fileName: {Content: content},
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Patch("/documents/" + c.documentID)

	if err != nil {
		return newWriteFailedError(err)
	}
	if !resp.IsSuccess() {
		return newWriteRejectedError(resp.StatusCode(), resp.String())
	}

	return nil
}
