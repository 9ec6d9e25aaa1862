// Package extract walks one bibliographic item's PDF attachments and their
// child annotations, producing a normalized Paper record and rendering the
// regions of image annotations.
package extract

import (
	"context"
	"crypto/md5"
	"fmt"
	"path/filepath"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/ayatough/zotero-typst-exporter/internal/dateparse"
	"github.com/ayatough/zotero-typst-exporter/internal/logger"
	"github.com/ayatough/zotero-typst-exporter/internal/pdf"
	"github.com/ayatough/zotero-typst-exporter/internal/position"
	"github.com/ayatough/zotero-typst-exporter/internal/zotlib"
	"github.com/ayatough/zotero-typst-exporter/models"
)

// PDFCache resolves attachment keys to locally cached PDF paths.
type PDFCache interface {
	Get(ctx context.Context, attachmentID string) (string, error)
}

// Document is the slice of an opened PDF the extractor renders from.
type Document interface {
	PageHeight(pageIndex int) (float64, error)
	RenderRegion(pageIndex int, r pdf.Rect, outPath string) error
	Close() error
}

// DocumentOpener opens a cached PDF file for rendering.
type DocumentOpener func(path string) (Document, error)

func defaultOpener(path string) (Document, error) {
	return pdf.Open(path)
}

// Extractor builds Paper records from a Zotero library.
type Extractor struct {
	lib      zotlib.Library
	cache    PDFCache
	resolver KeyResolver
	open     DocumentOpener
	log      logger.Logger
}

// New creates an Extractor using the real PDF engine for rendering.
func New(lib zotlib.Library, cache PDFCache, resolver KeyResolver, log logger.Logger) *Extractor {
	return &Extractor{lib: lib, cache: cache, resolver: resolver, open: defaultOpener, log: log}
}

// NewWithOpener is New with an injected document opener (tests).
func NewWithOpener(lib zotlib.Library, cache PDFCache, resolver KeyResolver, open DocumentOpener, log logger.Logger) *Extractor {
	return &Extractor{lib: lib, cache: cache, resolver: resolver, open: open, log: log}
}

// Extract builds the Paper for one item. Image annotations are rendered
// into outputDir. An item without PDF attachments yields a Paper with no
// annotations, not an error; a render failure aborts the extraction.
func (e *Extractor) Extract(ctx context.Context, itemID, outputDir string) (string, models.Paper, error) {
	item, err := e.lib.Item(ctx, itemID)
	if err != nil {
		return "", models.Paper{}, err
	}

	citationKey, err := e.resolver.Resolve(ctx, item)
	if err != nil || citationKey == "" {
		e.log.Warn("Citation key lookup for %s failed (%v), falling back to item key", itemID, err)
		citationKey = item.Key
	}

	year, month := dateparse.Parse(zotlib.ExtraString(item, "date"))
	paper := models.Paper{
		Title:   item.Data.Title,
		Authors: zotlib.FormatCreators(item),
		Year:    year,
		Month:   month,
	}

	children, err := e.lib.Children(ctx, itemID)
	if err != nil {
		return "", models.Paper{}, err
	}

	for i := range children {
		attachment := &children[i]
		if cls := ClassifyAttachment(attachment); !cls.Relevant {
			e.log.Debug("Skipping child %s of %s: %s", attachment.Key, itemID, cls.Reason)
			continue
		}
		annotations, err := e.extractAttachment(ctx, itemID, attachment.Key, outputDir)
		if err != nil {
			return "", models.Paper{}, err
		}
		paper.Annotations = append(paper.Annotations, annotations...)
	}

	return citationKey, paper, nil
}

// extractAttachment walks one PDF attachment's annotation children in API
// order.
func (e *Extractor) extractAttachment(ctx context.Context, itemID, attachmentID, outputDir string) ([]models.Annotation, error) {
	path, err := e.cache.Get(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	doc, err := e.open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	children, err := e.lib.Children(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	var annotations []models.Annotation
	for i := range children {
		child := &children[i]
		if cls := ClassifyAnnotation(child); !cls.Relevant {
			e.log.Debug("Skipping child %s of attachment %s: %s", child.Key, attachmentID, cls.Reason)
			continue
		}
		anno, err := e.buildAnnotation(child, doc, itemID, outputDir)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, anno)
	}
	return annotations, nil
}

// buildAnnotation converts one annotation child into a record. A missing or
// unparseable position is recovered: the page defaults to 1 and the image
// step is skipped. Rendering errors are fatal.
func (e *Extractor) buildAnnotation(child *zotero.Item, doc Document, itemID, outputDir string) (models.Annotation, error) {
	anno := models.Annotation{
		Type:    models.AnnotationType(zotlib.ExtraString(child, "annotationType")),
		Text:    zotlib.ExtraString(child, "annotationText"),
		Comment: zotlib.ExtraString(child, "annotationComment"),
		Tags:    zotlib.Tags(child),
		Page:    1,
	}

	pos, posErr := position.Decode(zotlib.ExtraString(child, "annotationPosition"))
	if posErr != nil {
		e.log.Warn("Annotation %s: %v; defaulting to page 1", child.Key, posErr)
		return anno, nil
	}
	anno.Page = pos.Page()

	if anno.Type != models.AnnotationImage {
		return anno, nil
	}

	stored, err := pos.FirstRect()
	if err != nil {
		e.log.Warn("Image annotation %s: %v; skipping image extraction", child.Key, err)
		return anno, nil
	}

	height, err := doc.PageHeight(pos.PageIndex)
	if err != nil {
		return anno, fmt.Errorf("annotation %s: %w", child.Key, err)
	}
	rect := pdf.ToRenderRect(height, pdf.FromSlice(stored))

	imagePath := filepath.Join(outputDir, ImageFilename(itemID, pos.PageIndex, rect))
	if err := doc.RenderRegion(pos.PageIndex, rect, imagePath); err != nil {
		return anno, fmt.Errorf("annotation %s: %w", child.Key, err)
	}
	anno.Image = imagePath
	return anno, nil
}

// ImageFilename derives a deterministic image file name from the item, the
// 0-based page index and the render-space rectangle.
func ImageFilename(itemID string, pageIndex int, r pdf.Rect) string {
	input := fmt.Sprintf("%s_%d_%g_%g_%g_%g", itemID, pageIndex, r.X0, r.Y0, r.X1, r.Y1)
	sum := md5.Sum([]byte(input))
	return fmt.Sprintf("annotation_%x.png", sum[:4])
}
