package zotlib

import (
	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/ayatough/zotero-typst-exporter/models"
)

// ItemMetadata converts a Zotero item into the bibliographic fields used
// for citation keys and BibTeX entries.
func ItemMetadata(item *zotero.Item) *models.ItemMetadata {
	return &models.ItemMetadata{
		Title:           item.Data.Title,
		Authors:         FormatCreators(item),
		ItemType:        item.Data.ItemType,
		Abstract:        item.Data.AbstractNote,
		PublicationDate: ExtraString(item, "date"),
		Publication:     ExtraString(item, "publicationTitle"),
		Publisher:       ExtraString(item, "publisher"),
		Volume:          ExtraString(item, "volume"),
		Issue:           ExtraString(item, "issue"),
		Pages:           ExtraString(item, "pages"),
		DOI:             ExtraString(item, "DOI"),
		ISSN:            ExtraString(item, "ISSN"),
		ISBN:            ExtraString(item, "ISBN"),
		URL:             ExtraString(item, "url"),
	}
}
