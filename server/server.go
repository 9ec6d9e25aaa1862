// Package server assembles the MCP server: the shared Zotero client and
// export pipeline are built once from config and injected into the tool
// handlers.
package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayatough/zotero-typst-exporter/internal/cache"
	"github.com/ayatough/zotero-typst-exporter/internal/config"
	"github.com/ayatough/zotero-typst-exporter/internal/export"
	"github.com/ayatough/zotero-typst-exporter/internal/extract"
	"github.com/ayatough/zotero-typst-exporter/internal/logger"
	"github.com/ayatough/zotero-typst-exporter/internal/webdav"
	"github.com/ayatough/zotero-typst-exporter/internal/zotlib"
	"github.com/ayatough/zotero-typst-exporter/tools"
)

// CreateServer builds the MCP server. The API credentials are required; the
// WebDAV side is optional, and without it the export-annotations tool
// reports a configuration error when called.
func CreateServer(cfg config.Config, log logger.Logger) (*mcp.Server, error) {
	if err := cfg.ValidateAPI(); err != nil {
		return nil, err
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "zotero-typst-exporter", Version: "v0.1.0"}, nil)
	lib := zotlib.NewLibrary(cfg)

	var annotationExporter *export.Exporter
	if err := cfg.ValidateWebDAV(); err != nil {
		log.Warn("WebDAV not configured, annotation export disabled: %v", err)
	} else {
		dav := webdav.NewClient(cfg.WebDAVURL, cfg.WebDAVUsername, cfg.WebDAVPassword)
		pdfCache, err := cache.NewManager(cfg.CacheDir, dav)
		if err != nil {
			return nil, fmt.Errorf("failed to set up PDF cache: %w", err)
		}
		extractor := extract.New(lib, pdfCache, extract.NewCitekeyResolver(), log)
		annotationExporter = export.New(lib, extractor, log)
	}
	bibliographyExporter := export.New(lib, nil, log)

	mcp.AddTool(server, tools.ListCollectionsTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.ListCollectionsQuery) (*mcp.CallToolResult, *tools.ListCollectionsResponse, error) {
		return tools.ListCollectionsToolHandler(ctx, req, query, lib, log)
	})

	mcp.AddTool(server, tools.ExportAnnotationsTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.ExportAnnotationsQuery) (*mcp.CallToolResult, *tools.ExportAnnotationsResponse, error) {
		return tools.ExportAnnotationsToolHandler(ctx, req, query, annotationExporter, log)
	})

	mcp.AddTool(server, tools.BibliographyExportTool(), func(ctx context.Context, req *mcp.CallToolRequest, query tools.BibliographyExportQuery) (*mcp.CallToolResult, *tools.BibliographyExportResponse, error) {
		return tools.BibliographyExportToolHandler(ctx, req, query, bibliographyExporter, log)
	})

	return server, nil
}
