package tools

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayatough/zotero-typst-exporter/internal/export"
	"github.com/ayatough/zotero-typst-exporter/internal/logger"
)

type ExportAnnotationsQuery struct {
	ItemID       string `json:"item_id,omitempty"`       // Export one item's annotations
	CollectionID string `json:"collection_id,omitempty"` // Export a whole collection's annotations
	OutputDir    string `json:"output_dir,omitempty"`    // Directory for the document and images (default "assets")
}

type ExportAnnotationsResponse struct {
	OutputPath string `json:"output_path"`
	Processed  int    `json:"processed"`
	Exported   int    `json:"exported"`
}

func ExportAnnotationsTool() *mcp.Tool {
	inputschema, err := jsonschema.For[ExportAnnotationsQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "export-annotations",
		Description: "Export PDF annotations from the Zotero library to a Typst data document. Pass item_id to export one item (writes annotations.typ) or collection_id to export every annotated item of a collection (writes collection_annotations.typ). Image annotations are rendered to PNG files in the output directory.",
		InputSchema: inputschema,
	}
}

func ExportAnnotationsToolHandler(ctx context.Context, req *mcp.CallToolRequest, query ExportAnnotationsQuery, exporter *export.Exporter, log logger.Logger) (*mcp.CallToolResult, *ExportAnnotationsResponse, error) {
	log.Info("export-annotations tool called")

	if exporter == nil {
		return nil, nil, fmt.Errorf("annotation export is not configured: set the ZOTERO_WEBDAV_* environment variables")
	}
	if (query.ItemID == "") == (query.CollectionID == "") {
		return nil, nil, fmt.Errorf("exactly one of item_id and collection_id must be set")
	}

	outDir := query.OutputDir
	if outDir == "" {
		outDir = "assets"
	}

	if query.ItemID != "" {
		outPath, err := exporter.Item(ctx, query.ItemID, outDir)
		if err != nil {
			return nil, nil, err
		}
		return nil, &ExportAnnotationsResponse{OutputPath: outPath, Processed: 1, Exported: 1}, nil
	}

	result, err := exporter.Collection(ctx, query.CollectionID, outDir)
	if err != nil {
		return nil, nil, err
	}
	response := &ExportAnnotationsResponse{
		OutputPath: result.OutputPath,
		Processed:  result.Processed,
		Exported:   result.Exported,
	}
	return nil, response, nil
}
