package zotlib

import "github.com/Epistemic-Technology/zotero/zotero"

// ExtraString returns a string field from an item's hydrated Extra map, or
// "" when absent or not a string.
func ExtraString(item *zotero.Item, field string) string {
	if item.Data.Extra == nil {
		return ""
	}
	if val, ok := item.Data.Extra[field].(string); ok {
		return val
	}
	return ""
}

// Tags returns an item's tag names in API order, from the typed Data.Tags
// list the client decodes directly.
func Tags(item *zotero.Item) []string {
	var tags []string
	for _, tag := range item.Data.Tags {
		if tag.Tag != "" {
			tags = append(tags, tag.Tag)
		}
	}
	return tags
}

// FormatCreators returns author strings for an item: structured creators as
// "Last, First", single-field creators by their display name. A creator
// with neither is omitted.
func FormatCreators(item *zotero.Item) []string {
	var authors []string
	for _, creator := range item.Data.Creators {
		switch {
		case creator.FirstName != "" || creator.LastName != "":
			authors = append(authors, creator.LastName+", "+creator.FirstName)
		case creator.Name != "":
			authors = append(authors, creator.Name)
		}
	}
	return authors
}
