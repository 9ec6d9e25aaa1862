package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayatough/zotero-typst-exporter/internal/logger"
	"github.com/ayatough/zotero-typst-exporter/internal/operations"
	"github.com/ayatough/zotero-typst-exporter/internal/zotlib"
)

type ListCollectionsQuery struct {
	TopLevelOnly bool `json:"top_level_only,omitempty"` // List only collections without a parent
}

type ListCollectionsResponse struct {
	Collections []CollectionResult `json:"collections"`
	Count       int                `json:"count"`
}

type CollectionResult struct {
	Key       string `json:"key"`              // Collection key (unique identifier)
	Name      string `json:"name"`             // Collection name
	ItemCount int    `json:"item_count"`       // Number of top-level items
	Parent    string `json:"parent,omitempty"` // Parent collection name (empty if top-level)
}

func ListCollectionsTool() *mcp.Tool {
	inputschema, err := jsonschema.For[ListCollectionsQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "list-collections",
		Description: "List the collections of the configured Zotero library with their keys, top-level item counts and parent collections. Use this to find collection keys for the export tools.",
		InputSchema: inputschema,
	}
}

func ListCollectionsToolHandler(ctx context.Context, req *mcp.CallToolRequest, query ListCollectionsQuery, lib zotlib.Library, log logger.Logger) (*mcp.CallToolResult, *ListCollectionsResponse, error) {
	log.Info("list-collections tool called")

	rows, err := operations.ListCollections(ctx, lib, log)
	if err != nil {
		return nil, nil, err
	}

	results := make([]CollectionResult, 0, len(rows))
	for _, row := range rows {
		parent := row.Parent
		if parent == "-" {
			parent = ""
		}
		if query.TopLevelOnly && parent != "" {
			continue
		}
		results = append(results, CollectionResult{
			Key:       row.Key,
			Name:      row.Name,
			ItemCount: row.ItemCount,
			Parent:    parent,
		})
	}

	response := &ListCollectionsResponse{
		Collections: results,
		Count:       len(results),
	}
	return nil, response, nil
}
