package main

import (
	"github.com/ayatough/zotero-typst-exporter/internal/cache"
	"github.com/ayatough/zotero-typst-exporter/internal/config"
	"github.com/ayatough/zotero-typst-exporter/internal/export"
	"github.com/ayatough/zotero-typst-exporter/internal/extract"
	"github.com/ayatough/zotero-typst-exporter/internal/logger"
	"github.com/ayatough/zotero-typst-exporter/internal/webdav"
	"github.com/ayatough/zotero-typst-exporter/internal/zotlib"
)

// app bundles everything a command needs to talk to the library.
type app struct {
	cfg config.Config
	log logger.Logger
	lib zotlib.Library
}

// newApp loads configuration and connects to the Zotero Web API. Commands
// that only read metadata use this directly; commands that fetch PDFs call
// exporter afterwards. Configuration failures exit the process.
func newApp() *app {
	cfg, err := config.Load(envFile)
	if err != nil {
		exitWithError(ExitConfigError, "loading configuration: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	log, err := logger.NewLogger(logger.LogConfig{Output: cfg.LogOutput, Level: cfg.LogLevel})
	if err != nil {
		exitWithError(ExitConfigError, "setting up logging: %v", err)
	}

	return &app{cfg: cfg, log: log, lib: zotlib.NewLibrary(cfg)}
}

// exporter builds the full extraction pipeline: WebDAV fetch, local PDF
// cache, annotation extraction and document rendering.
func (a *app) exporter() *export.Exporter {
	if err := a.cfg.ValidateWebDAV(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	dav := webdav.NewClient(a.cfg.WebDAVURL, a.cfg.WebDAVUsername, a.cfg.WebDAVPassword)
	pdfCache, err := cache.NewManager(a.cfg.CacheDir, dav)
	if err != nil {
		exitWithError(ExitConfigError, "setting up PDF cache: %v", err)
	}

	extractor := extract.New(a.lib, pdfCache, extract.NewCitekeyResolver(), a.log)
	return export.New(a.lib, extractor, a.log)
}

// bibliography builds an exporter for metadata-only exports. BibTeX export
// never fetches PDFs, so no WebDAV configuration is needed.
func (a *app) bibliography() *export.Exporter {
	return export.New(a.lib, nil, a.log)
}
