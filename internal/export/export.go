// Package export orchestrates annotation and bibliography exports: it
// sequences extraction per item or per collection, accumulates results in
// memory and writes the output file once at the end. A mid-run failure
// therefore produces no output file.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayatough/zotero-typst-exporter/internal/citations"
	"github.com/ayatough/zotero-typst-exporter/internal/extract"
	"github.com/ayatough/zotero-typst-exporter/internal/logger"
	"github.com/ayatough/zotero-typst-exporter/internal/typst"
	"github.com/ayatough/zotero-typst-exporter/internal/zotlib"
	"github.com/ayatough/zotero-typst-exporter/models"
)

const (
	// ItemOutputFile is the annotation document written by Item.
	ItemOutputFile = "annotations.typ"
	// CollectionOutputFile is the annotation document written by Collection.
	CollectionOutputFile = "collection_annotations.typ"
)

// Exporter runs export operations over one library.
type Exporter struct {
	lib       zotlib.Library
	extractor *extract.Extractor
	log       logger.Logger
}

// New creates an Exporter.
func New(lib zotlib.Library, extractor *extract.Extractor, log logger.Logger) *Exporter {
	return &Exporter{lib: lib, extractor: extractor, log: log}
}

// Item exports one item's annotations to <outDir>/annotations.typ and
// returns the output path.
func (e *Exporter) Item(ctx context.Context, itemID, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	citationKey, paper, err := e.extractor.Extract(ctx, itemID, outDir)
	if err != nil {
		return "", err
	}
	e.log.Info("Extracted %d annotations for %s (%s)", len(paper.Annotations), itemID, citationKey)

	papers := models.NewPaperSet()
	papers.Add(citationKey, paper)

	outPath := filepath.Join(outDir, ItemOutputFile)
	if err := writeDocument(outPath, papers); err != nil {
		return "", err
	}
	return outPath, nil
}

// CollectionResult summarizes a collection export.
type CollectionResult struct {
	OutputPath string
	Processed  int // items walked
	Exported   int // items with at least one annotation
}

// Collection exports the annotations of every top-level item of a
// collection to <outDir>/collection_annotations.typ. Items without
// annotations are processed but not included in the document.
func (e *Exporter) Collection(ctx context.Context, collectionID, outDir string) (CollectionResult, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return CollectionResult{}, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	items, err := e.lib.CollectionItems(ctx, collectionID)
	if err != nil {
		return CollectionResult{}, err
	}

	papers := models.NewPaperSet()
	for i := range items {
		itemID := items[i].Key
		citationKey, paper, err := e.extractor.Extract(ctx, itemID, outDir)
		if err != nil {
			return CollectionResult{}, err
		}
		if len(paper.Annotations) > 0 {
			papers.Add(citationKey, paper)
		}
		e.log.Info("Processed item %d/%d (%s)", i+1, len(items), itemID)
	}

	outPath := filepath.Join(outDir, CollectionOutputFile)
	if err := writeDocument(outPath, papers); err != nil {
		return CollectionResult{}, err
	}
	return CollectionResult{
		OutputPath: outPath,
		Processed:  len(items),
		Exported:   papers.Len(),
	}, nil
}

// BibTeXResult summarizes a bibliography export.
type BibTeXResult struct {
	OutputPath string
	Processed  int
	Exported   int
}

// BibTeX exports all items of a collection as a BibTeX file. Items whose
// entry cannot be generated are warned about and skipped; at least one
// entry must survive.
func (e *Exporter) BibTeX(ctx context.Context, collectionID, outFile string) (BibTeXResult, error) {
	items, err := e.lib.CollectionItems(ctx, collectionID)
	if err != nil {
		return BibTeXResult{}, err
	}

	seen := make(map[string]bool)
	var entries []string
	for i := range items {
		item := &items[i]
		metadata := zotlib.ItemMetadata(item)
		if metadata.Title == "" && len(metadata.Authors) == 0 {
			e.log.Warn("Skipping item %s: no usable metadata", item.Key)
			continue
		}
		citekey := citations.GenerateCitekey(metadata, seen)
		seen[citekey] = true
		entries = append(entries, citations.GenerateBibTeXEntry(metadata, citekey))
		e.log.Info("Processed item %d/%d (%s)", i+1, len(items), item.Key)
	}

	if len(entries) == 0 {
		return BibTeXResult{}, fmt.Errorf("no items in collection %s could be exported", collectionID)
	}

	content := citations.GenerateBibTeXFile(entries)
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return BibTeXResult{}, fmt.Errorf("failed to write bibliography %s: %w", outFile, err)
	}
	return BibTeXResult{
		OutputPath: outFile,
		Processed:  len(items),
		Exported:   len(entries),
	}, nil
}

// writeDocument serializes the papers to path in one write.
func writeDocument(path string, papers *models.PaperSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	if err := typst.Write(f, papers); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", path, err)
	}
	return nil
}
