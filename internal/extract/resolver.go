package extract

import (
	"context"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/ayatough/zotero-typst-exporter/internal/citations"
	"github.com/ayatough/zotero-typst-exporter/internal/zotlib"
	"github.com/ayatough/zotero-typst-exporter/models"
)

// KeyResolver derives the citation key for an item. Resolution failure is
// never fatal; the extractor falls back to the item's own key.
type KeyResolver interface {
	Resolve(ctx context.Context, item *zotero.Item) (string, error)
}

// citekeyResolver generates pandoc-style keys locally from item metadata,
// keeping keys unique within one export run.
type citekeyResolver struct {
	seen map[string]bool
}

// NewCitekeyResolver returns the default resolver.
func NewCitekeyResolver() KeyResolver {
	return &citekeyResolver{seen: make(map[string]bool)}
}

func (r *citekeyResolver) Resolve(ctx context.Context, item *zotero.Item) (string, error) {
	metadata := &models.ItemMetadata{
		Title:           item.Data.Title,
		Authors:         zotlib.FormatCreators(item),
		PublicationDate: zotlib.ExtraString(item, "date"),
	}
	key := citations.GenerateCitekey(metadata, r.seen)
	r.seen[key] = true
	return key, nil
}
