package extract

import (
	"fmt"

	"github.com/Epistemic-Technology/zotero/zotero"
)

// Classification is the outcome of deciding whether a child record takes
// part in extraction. Reason is set only for skipped records, so tests and
// debug logs can state why something was left out instead of inferring it
// from absence.
type Classification struct {
	Relevant bool
	Reason   string
}

// ClassifyAttachment decides whether a child record is a PDF attachment to
// extract from. The content type must be exactly "application/pdf"; PDFs
// declared under any other content type are skipped. The match is
// case-sensitive, mirroring the upstream library's behavior (a known
// limitation, not one this tool papers over).
func ClassifyAttachment(item *zotero.Item) Classification {
	if item.Data.ItemType != "attachment" {
		return Classification{Reason: fmt.Sprintf("item type %q is not attachment", item.Data.ItemType)}
	}
	if item.Data.ContentType != "application/pdf" {
		return Classification{Reason: fmt.Sprintf("content type %q is not application/pdf", item.Data.ContentType)}
	}
	return Classification{Relevant: true}
}

// ClassifyAnnotation decides whether a child record of an attachment is an
// annotation.
func ClassifyAnnotation(item *zotero.Item) Classification {
	if item.Data.ItemType != "annotation" {
		return Classification{Reason: fmt.Sprintf("item type %q is not annotation", item.Data.ItemType)}
	}
	return Classification{Relevant: true}
}
