// Package webdav fetches Zotero attachment archives from WebDAV storage.
package webdav

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Zotero's file sync guidance asks clients to stay well under a few
// requests per second.
const (
	requestsPerSecond = 2
	burstRequests     = 4
)

// StatusError reports a non-success HTTP status from the storage server.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webdav fetch %s returned status %d", e.URL, e.StatusCode)
}

// Client downloads attachment archives over WebDAV with basic auth.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a WebDAV client for the given base URL and credentials.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 60 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), burstRequests),
	}
}

// FetchAttachmentArchive downloads the ZIP archive stored for the given
// attachment key. Zotero's WebDAV layout stores each attachment as
// <base>/zotero/<key>.zip.
func (c *Client) FetchAttachmentArchive(ctx context.Context, attachmentID string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	url := fmt.Sprintf("%s/zotero/%s.zip", c.baseURL, attachmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webdav fetch %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return data, nil
}
