// Package operations implements the read-only listing surfaces shared by
// the CLI tables and the MCP tools.
package operations

import (
	"context"

	"github.com/ayatough/zotero-typst-exporter/internal/logger"
	"github.com/ayatough/zotero-typst-exporter/internal/zotlib"
)

// CollectionRow is one collection with display information.
type CollectionRow struct {
	Key       string
	Name      string
	ItemCount int
	Parent    string // parent collection name, "-" when top-level
}

// ListCollections retrieves all collections with their top-level item
// counts and resolved parent names.
func ListCollections(ctx context.Context, lib zotlib.Library, log logger.Logger) ([]CollectionRow, error) {
	collections, err := lib.Collections(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("Found %d collections", len(collections))

	names := make(map[string]string, len(collections))
	for _, c := range collections {
		names[c.Data.Key] = c.Data.Name
	}

	rows := make([]CollectionRow, 0, len(collections))
	for _, c := range collections {
		items, err := lib.CollectionItems(ctx, c.Data.Key)
		if err != nil {
			return nil, err
		}

		parent := "-"
		if key := c.Data.ParentCollection.String(); key != "" {
			if name, ok := names[key]; ok {
				parent = name
			}
		}

		rows = append(rows, CollectionRow{
			Key:       c.Data.Key,
			Name:      c.Data.Name,
			ItemCount: len(items),
			Parent:    parent,
		})
	}
	return rows, nil
}
