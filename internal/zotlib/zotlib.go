// Package zotlib wraps the Zotero Web API client behind a small interface
// so extraction and listing logic can be tested against fakes.
//
// The client's typed ItemData covers only the common core of the Zotero
// schema; type-specific fields (date, the annotation* fields, volume, DOI,
// ...) are dropped by its decoder. The adapter therefore tees the raw
// response body off the HTTP transport and refills Data.Extra from the
// payload's data object after every read.
package zotlib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/ayatough/zotero-typst-exporter/internal/config"
)

// Library is the slice of the Zotero API this tool consumes.
type Library interface {
	// Item fetches one item's metadata by key.
	Item(ctx context.Context, key string) (*zotero.Item, error)
	// Children lists the child records of an item or attachment.
	Children(ctx context.Context, key string) ([]zotero.Item, error)
	// Collections lists all collections in the library.
	Collections(ctx context.Context) ([]zotero.Collection, error)
	// CollectionItems lists the parent items of a collection
	// (attachment children excluded).
	CollectionItems(ctx context.Context, key string) ([]zotero.Item, error)
}

// bodyTap records the body of the most recent response passing through the
// transport. The adapter issues one request per call and reads the tap
// immediately after, so the recorded body always belongs to that call.
type bodyTap struct {
	base http.RoundTripper

	mu   sync.Mutex
	last []byte
}

func (t *bodyTap) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.Body == nil {
		return resp, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	t.mu.Lock()
	t.last = body
	t.mu.Unlock()
	return resp, nil
}

// take returns and clears the last recorded body.
func (t *bodyTap) take() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	body := t.last
	t.last = nil
	return body
}

type client struct {
	z   *zotero.Client
	tap *bodyTap
}

// NewLibrary builds a Library over the user library identified by cfg.
func NewLibrary(cfg config.Config) Library {
	return newLibrary(cfg, "")
}

func newLibrary(cfg config.Config, baseURL string) *client {
	tap := &bodyTap{base: http.DefaultTransport}
	opts := []zotero.ClientOption{
		zotero.WithAPIKey(cfg.APIKey),
		zotero.WithHTTPClient(&http.Client{Transport: tap}),
	}
	if baseURL != "" {
		opts = append(opts, zotero.WithBaseURL(baseURL))
	}
	return &client{
		z:   zotero.NewClient(cfg.UserID, zotero.LibraryTypeUser, opts...),
		tap: tap,
	}
}

// rawEnvelope is the slice of an API item payload the hydration needs: the
// key for matching and the untyped data object.
type rawEnvelope struct {
	Key  string         `json:"key"`
	Data map[string]any `json:"data"`
}

// hydrateItem refills one item's Extra map from the raw payload.
func hydrateItem(item *zotero.Item, body []byte) {
	var raw rawEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return
	}
	item.Data.Extra = raw.Data
}

// hydrateItems refills each item's Extra map from the raw list payload,
// matched by key.
func hydrateItems(items []zotero.Item, body []byte) {
	var raws []rawEnvelope
	if err := json.Unmarshal(body, &raws); err != nil {
		return
	}
	byKey := make(map[string]map[string]any, len(raws))
	for _, raw := range raws {
		byKey[raw.Key] = raw.Data
	}
	for i := range items {
		if data, ok := byKey[items[i].Key]; ok {
			items[i].Data.Extra = data
		}
	}
}

func (c *client) Item(ctx context.Context, key string) (*zotero.Item, error) {
	item, err := c.z.Item(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %s: %w", key, err)
	}
	hydrateItem(item, c.tap.take())
	return item, nil
}

func (c *client) Children(ctx context.Context, key string) ([]zotero.Item, error) {
	children, err := c.z.Children(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch children of %s: %w", key, err)
	}
	hydrateItems(children, c.tap.take())
	return children, nil
}

func (c *client) Collections(ctx context.Context) ([]zotero.Collection, error) {
	collections, err := c.z.Collections(ctx, &zotero.QueryParams{Limit: 100, Sort: "title"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collections: %w", err)
	}
	return collections, nil
}

func (c *client) CollectionItems(ctx context.Context, key string) ([]zotero.Item, error) {
	items, err := c.z.CollectionItems(ctx, key, &zotero.QueryParams{
		ItemType: []string{"-attachment"},
		Limit:    100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items of collection %s: %w", key, err)
	}
	hydrateItems(items, c.tap.take())
	return items, nil
}
