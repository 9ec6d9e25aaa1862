package operations

import (
	"context"
	"errors"
	"strings"

	"github.com/ayatough/zotero-typst-exporter/internal/dateparse"
	"github.com/ayatough/zotero-typst-exporter/internal/extract"
	"github.com/ayatough/zotero-typst-exporter/internal/logger"
	"github.com/ayatough/zotero-typst-exporter/internal/position"
	"github.com/ayatough/zotero-typst-exporter/internal/zotlib"
)

// ErrNoPDFAttachment reports an item with no PDF attachment where one is
// required.
var ErrNoPDFAttachment = errors.New("no PDF attachment found")

// ItemRow is one collection item with display information.
type ItemRow struct {
	Key      string
	Title    string
	Authors  string // "; " joined
	Date     string // "YYYY-MM", "YYYY" or ""
	ItemType string
}

// ListCollectionItems retrieves the top-level items of a collection.
func ListCollectionItems(ctx context.Context, lib zotlib.Library, collectionID string, log logger.Logger) ([]ItemRow, error) {
	items, err := lib.CollectionItems(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	log.Info("Found %d items in collection %s", len(items), collectionID)

	rows := make([]ItemRow, 0, len(items))
	for i := range items {
		item := &items[i]
		year, month := dateparse.Parse(zotlib.ExtraString(item, "date"))
		date := year
		if year != "" && month != "" {
			date = year + "-" + month
		}
		rows = append(rows, ItemRow{
			Key:      item.Key,
			Title:    item.Data.Title,
			Authors:  strings.Join(zotlib.FormatCreators(item), "; "),
			Date:     date,
			ItemType: item.Data.ItemType,
		})
	}
	return rows, nil
}

// AnnotationRow is one annotation with display information.
type AnnotationRow struct {
	Type    string
	Text    string
	Comment string
	Tags    string // ", " joined
	Page    int
	Color   string // hex color, e.g. "#ffd400"
}

// ListAnnotations retrieves the annotations of all PDF attachments of an
// item in encounter order. It fails with ErrNoPDFAttachment when the item
// has no PDF attachment at all.
func ListAnnotations(ctx context.Context, lib zotlib.Library, itemID string, log logger.Logger) ([]AnnotationRow, error) {
	children, err := lib.Children(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var pdfKeys []string
	for i := range children {
		child := &children[i]
		if cls := extract.ClassifyAttachment(child); !cls.Relevant {
			log.Debug("Skipping child %s of %s: %s", child.Key, itemID, cls.Reason)
			continue
		}
		pdfKeys = append(pdfKeys, child.Key)
	}
	if len(pdfKeys) == 0 {
		return nil, ErrNoPDFAttachment
	}

	var rows []AnnotationRow
	for _, key := range pdfKeys {
		annotations, err := lib.Children(ctx, key)
		if err != nil {
			return nil, err
		}
		for i := range annotations {
			anno := &annotations[i]
			if cls := extract.ClassifyAnnotation(anno); !cls.Relevant {
				log.Debug("Skipping child %s of attachment %s: %s", anno.Key, key, cls.Reason)
				continue
			}

			page := 1
			if pos, err := position.Decode(zotlib.ExtraString(anno, "annotationPosition")); err == nil {
				page = pos.Page()
			}
			rows = append(rows, AnnotationRow{
				Type:    zotlib.ExtraString(anno, "annotationType"),
				Text:    zotlib.ExtraString(anno, "annotationText"),
				Comment: zotlib.ExtraString(anno, "annotationComment"),
				Tags:    strings.Join(zotlib.Tags(anno), ", "),
				Page:    page,
				Color:   zotlib.ExtraString(anno, "annotationColor"),
			})
		}
	}
	return rows, nil
}
