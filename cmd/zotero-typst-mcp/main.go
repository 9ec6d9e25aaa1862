package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ayatough/zotero-typst-exporter/internal/config"
	"github.com/ayatough/zotero-typst-exporter/internal/logger"
	"github.com/ayatough/zotero-typst-exporter/server"
)

func main() {
	log, err := logger.NewLogger(logger.LogConfig{})
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	log.Info("Starting zotero-typst-exporter MCP server")

	srv, err := server.CreateServer(cfg, log)
	if err != nil {
		log.Fatal("Failed to create server: %v", err)
	}
	if err := srv.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal("Server failed: %v", err)
	}
}
