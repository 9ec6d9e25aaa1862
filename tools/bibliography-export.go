package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayatough/zotero-typst-exporter/internal/export"
	"github.com/ayatough/zotero-typst-exporter/internal/logger"
)

type BibliographyExportQuery struct {
	CollectionID string `json:"collection_id"`         // Collection to export
	OutputFile   string `json:"output_file,omitempty"` // Output path (default "references.bib")
}

type BibliographyExportResponse struct {
	OutputPath string `json:"output_path"`
	Content    string `json:"content"`
	Processed  int    `json:"processed"`
	Exported   int    `json:"exported"`
}

func BibliographyExportTool() *mcp.Tool {
	inputschema, err := jsonschema.For[BibliographyExportQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "bibliography-export",
		Description: "Export every item of a Zotero collection as a BibTeX bibliography. Citation keys follow the pandoc convention (author + year, lowercase) and are deduplicated with letter suffixes. Returns the BibTeX content and writes it to output_file.",
		InputSchema: inputschema,
	}
}

func BibliographyExportToolHandler(ctx context.Context, req *mcp.CallToolRequest, query BibliographyExportQuery, exporter *export.Exporter, log logger.Logger) (*mcp.CallToolResult, *BibliographyExportResponse, error) {
	log.Info("bibliography-export tool called")

	if query.CollectionID == "" {
		return nil, nil, fmt.Errorf("collection_id is required")
	}

	outFile := query.OutputFile
	if outFile == "" {
		outFile = "references.bib"
	}

	result, err := exporter.BibTeX(ctx, query.CollectionID, outFile)
	if err != nil {
		return nil, nil, err
	}

	content, err := os.ReadFile(result.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read bibliography %s: %w", result.OutputPath, err)
	}

	response := &BibliographyExportResponse{
		OutputPath: result.OutputPath,
		Content:    string(content),
		Processed:  result.Processed,
		Exported:   result.Exported,
	}
	return nil, response, nil
}
