package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Epistemic-Technology/zotero/zotero"

	"github.com/ayatough/zotero-typst-exporter/internal/logger"
	"github.com/ayatough/zotero-typst-exporter/internal/pdf"
	"github.com/ayatough/zotero-typst-exporter/models"
)

type fakeLibrary struct {
	items    map[string]*zotero.Item
	children map[string][]zotero.Item
}

func (f *fakeLibrary) Item(ctx context.Context, key string) (*zotero.Item, error) {
	item, ok := f.items[key]
	if !ok {
		return nil, fmt.Errorf("unknown item %s", key)
	}
	return item, nil
}

func (f *fakeLibrary) Children(ctx context.Context, key string) ([]zotero.Item, error) {
	return f.children[key], nil
}

func (f *fakeLibrary) Collections(ctx context.Context) ([]zotero.Collection, error) {
	return nil, nil
}

func (f *fakeLibrary) CollectionItems(ctx context.Context, key string) ([]zotero.Item, error) {
	return nil, nil
}

type fakeCache struct {
	calls []string
}

func (f *fakeCache) Get(ctx context.Context, attachmentID string) (string, error) {
	f.calls = append(f.calls, attachmentID)
	return filepath.Join("cache", attachmentID+".pdf"), nil
}

type renderCall struct {
	pageIndex int
	rect      pdf.Rect
	outPath   string
}

type fakeDocument struct {
	pageHeight float64
	renderErr  error
	calls      []renderCall
	closed     bool
}

func (f *fakeDocument) PageHeight(pageIndex int) (float64, error) {
	return f.pageHeight, nil
}

func (f *fakeDocument) RenderRegion(pageIndex int, r pdf.Rect, outPath string) error {
	f.calls = append(f.calls, renderCall{pageIndex: pageIndex, rect: r, outPath: outPath})
	return f.renderErr
}

func (f *fakeDocument) Close() error {
	f.closed = true
	return nil
}

type fixedResolver struct {
	key string
	err error
}

func (r fixedResolver) Resolve(ctx context.Context, item *zotero.Item) (string, error) {
	return r.key, r.err
}

func makeItem(key, itemType string) zotero.Item {
	var item zotero.Item
	item.Key = key
	item.Data.ItemType = itemType
	return item
}

func makeAnnotation(key string, extra map[string]any) zotero.Item {
	item := makeItem(key, "annotation")
	item.Data.Extra = extra
	return item
}

func makePDFAttachment(key string) zotero.Item {
	item := makeItem(key, "attachment")
	item.Data.ContentType = "application/pdf"
	return item
}

func newTestExtractor(lib *fakeLibrary, cache *fakeCache, doc *fakeDocument, resolver KeyResolver) *Extractor {
	opener := func(path string) (Document, error) { return doc, nil }
	return NewWithOpener(lib, cache, resolver, opener, logger.NewNoOpLogger())
}

func TestExtract_NoPDFAttachments(t *testing.T) {
	item := makeItem("ITEM0001", "journalArticle")
	item.Data.Title = "A Paper Without Files"
	lib := &fakeLibrary{
		items: map[string]*zotero.Item{"ITEM0001": &item},
		children: map[string][]zotero.Item{
			"ITEM0001": {makeItem("NOTE0001", "note")},
		},
	}
	cache := &fakeCache{}
	e := newTestExtractor(lib, cache, &fakeDocument{}, fixedResolver{key: "nofiles2020"})

	key, paper, err := e.Extract(context.Background(), "ITEM0001", t.TempDir())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if key != "nofiles2020" {
		t.Errorf("citation key = %q, want nofiles2020", key)
	}
	if paper.Title != "A Paper Without Files" {
		t.Errorf("title = %q", paper.Title)
	}
	if len(paper.Annotations) != 0 {
		t.Errorf("annotations = %v, want none", paper.Annotations)
	}
	if len(cache.calls) != 0 {
		t.Errorf("cache must not be touched without PDF attachments, got %v", cache.calls)
	}
}

func TestExtract_HighlightMapping(t *testing.T) {
	item := makeItem("ITEM0002", "journalArticle")
	item.Data.Title = "Annotated Paper"
	item.Data.Extra = map[string]any{"date": "2025-01-19T23:25:38Z"}

	anno := makeAnnotation("ANNO0001", map[string]any{
		"annotationType":     "highlight",
		"annotationText":     "key passage",
		"annotationComment":  "revisit",
		"annotationPosition": `{"pageIndex":3,"rects":[[10,20,110,40]]}`,
	})
	anno.Data.Tags = []zotero.Tag{{Tag: "important"}, {Tag: "method"}}

	lib := &fakeLibrary{
		items: map[string]*zotero.Item{"ITEM0002": &item},
		children: map[string][]zotero.Item{
			"ITEM0002": {makePDFAttachment("ATTACH01")},
			"ATTACH01": {anno},
		},
	}
	e := newTestExtractor(lib, &fakeCache{}, &fakeDocument{pageHeight: 792}, fixedResolver{key: "k"})

	_, paper, err := e.Extract(context.Background(), "ITEM0002", t.TempDir())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if paper.Year != "2025" || paper.Month != "01" {
		t.Errorf("year/month = %q/%q, want 2025/01", paper.Year, paper.Month)
	}
	if len(paper.Annotations) != 1 {
		t.Fatalf("annotations = %d, want 1", len(paper.Annotations))
	}
	got := paper.Annotations[0]
	if got.Type != models.AnnotationHighlight {
		t.Errorf("type = %q", got.Type)
	}
	if got.Text != "key passage" || got.Comment != "revisit" {
		t.Errorf("text/comment = %q/%q", got.Text, got.Comment)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "important" || got.Tags[1] != "method" {
		t.Errorf("tags = %v, want [important method]", got.Tags)
	}
	if got.Page != 4 {
		t.Errorf("page = %d, want 4 (0-based index 3)", got.Page)
	}
	if got.Image != "" {
		t.Errorf("highlight must not carry an image, got %q", got.Image)
	}
}

func TestExtract_MalformedPositionRecovered(t *testing.T) {
	item := makeItem("ITEM0003", "book")
	anno := makeAnnotation("ANNO0002", map[string]any{
		"annotationType": "image",
		"annotationText": "figure",
	})

	lib := &fakeLibrary{
		items: map[string]*zotero.Item{"ITEM0003": &item},
		children: map[string][]zotero.Item{
			"ITEM0003": {makePDFAttachment("ATTACH02")},
			"ATTACH02": {anno},
		},
	}
	doc := &fakeDocument{pageHeight: 792}
	e := newTestExtractor(lib, &fakeCache{}, doc, fixedResolver{key: "k"})

	_, paper, err := e.Extract(context.Background(), "ITEM0003", t.TempDir())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(paper.Annotations) != 1 {
		t.Fatalf("annotations = %d, want 1", len(paper.Annotations))
	}
	got := paper.Annotations[0]
	if got.Page != 1 {
		t.Errorf("page = %d, want 1 (default)", got.Page)
	}
	if got.Image != "" {
		t.Errorf("image step must be skipped, got %q", got.Image)
	}
	if len(doc.calls) != 0 {
		t.Errorf("renderer must not be called, got %v", doc.calls)
	}
}

func TestExtract_ImageAnnotation(t *testing.T) {
	item := makeItem("ITEM0004", "journalArticle")
	anno := makeAnnotation("ANNO0003", map[string]any{
		"annotationType":     "image",
		"annotationPosition": `{"pageIndex":2,"rects":[[100,600,300,700]]}`,
	})

	lib := &fakeLibrary{
		items: map[string]*zotero.Item{"ITEM0004": &item},
		children: map[string][]zotero.Item{
			"ITEM0004": {makePDFAttachment("ATTACH03")},
			"ATTACH03": {anno},
		},
	}
	doc := &fakeDocument{pageHeight: 800}
	e := newTestExtractor(lib, &fakeCache{}, doc, fixedResolver{key: "k"})

	outDir := t.TempDir()
	_, paper, err := e.Extract(context.Background(), "ITEM0004", outDir)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(doc.calls) != 1 {
		t.Fatalf("render calls = %d, want 1", len(doc.calls))
	}
	call := doc.calls[0]
	if call.pageIndex != 2 {
		t.Errorf("render page index = %d, want 2", call.pageIndex)
	}
	// Stored (100,600)-(300,700) on an 800pt page flips to (100,100)-(300,200).
	wantRect := pdf.Rect{X0: 100, Y0: 100, X1: 300, Y1: 200}
	if call.rect != wantRect {
		t.Errorf("render rect = %v, want %v", call.rect, wantRect)
	}
	wantPath := filepath.Join(outDir, ImageFilename("ITEM0004", 2, wantRect))
	if call.outPath != wantPath {
		t.Errorf("render path = %q, want %q", call.outPath, wantPath)
	}
	if paper.Annotations[0].Image != wantPath {
		t.Errorf("annotation image = %q, want %q", paper.Annotations[0].Image, wantPath)
	}
}

func TestExtract_RenderFailureAborts(t *testing.T) {
	item := makeItem("ITEM0005", "journalArticle")
	anno := makeAnnotation("ANNO0004", map[string]any{
		"annotationType":     "image",
		"annotationPosition": `{"pageIndex":0,"rects":[[0,0,10,10]]}`,
	})

	lib := &fakeLibrary{
		items: map[string]*zotero.Item{"ITEM0005": &item},
		children: map[string][]zotero.Item{
			"ITEM0005": {makePDFAttachment("ATTACH04")},
			"ATTACH04": {anno},
		},
	}
	renderErr := errors.New("pixmap write failed")
	doc := &fakeDocument{pageHeight: 800, renderErr: renderErr}
	e := newTestExtractor(lib, &fakeCache{}, doc, fixedResolver{key: "k"})

	if _, _, err := e.Extract(context.Background(), "ITEM0005", t.TempDir()); !errors.Is(err, renderErr) {
		t.Errorf("Extract error = %v, want %v", err, renderErr)
	}
}

func TestExtract_EncounterOrder(t *testing.T) {
	item := makeItem("ITEM0006", "journalArticle")
	first := makeAnnotation("ANNO_A", map[string]any{
		"annotationType": "highlight", "annotationText": "first",
	})
	second := makeAnnotation("ANNO_B", map[string]any{
		"annotationType": "underline", "annotationText": "second",
	})
	third := makeAnnotation("ANNO_C", map[string]any{
		"annotationType": "note", "annotationComment": "third",
	})

	lib := &fakeLibrary{
		items: map[string]*zotero.Item{"ITEM0006": &item},
		children: map[string][]zotero.Item{
			"ITEM0006": {makePDFAttachment("ATT_1"), makeItem("X", "note"), makePDFAttachment("ATT_2")},
			"ATT_1":    {first, second},
			"ATT_2":    {third},
		},
	}
	cache := &fakeCache{}
	e := newTestExtractor(lib, cache, &fakeDocument{pageHeight: 792}, fixedResolver{key: "k"})

	_, paper, err := e.Extract(context.Background(), "ITEM0006", t.TempDir())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(paper.Annotations) != 3 {
		t.Fatalf("annotations = %d, want 3", len(paper.Annotations))
	}
	wantTexts := []string{"first", "second", ""}
	for i, want := range wantTexts {
		if paper.Annotations[i].Text != want {
			t.Errorf("annotation %d text = %q, want %q", i, paper.Annotations[i].Text, want)
		}
	}
	if len(cache.calls) != 2 || cache.calls[0] != "ATT_1" || cache.calls[1] != "ATT_2" {
		t.Errorf("cache calls = %v, want [ATT_1 ATT_2]", cache.calls)
	}
}

func TestExtract_ResolverFailureFallsBack(t *testing.T) {
	item := makeItem("ITEM0007", "journalArticle")
	lib := &fakeLibrary{
		items:    map[string]*zotero.Item{"ITEM0007": &item},
		children: map[string][]zotero.Item{},
	}
	e := newTestExtractor(lib, &fakeCache{}, &fakeDocument{}, fixedResolver{err: errors.New("lookup failed")})

	key, _, err := e.Extract(context.Background(), "ITEM0007", t.TempDir())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if key != "ITEM0007" {
		t.Errorf("citation key = %q, want fallback to item key ITEM0007", key)
	}
}

func TestImageFilename(t *testing.T) {
	r := pdf.Rect{X0: 100, Y0: 100, X1: 300, Y1: 200}
	name := ImageFilename("ITEM0004", 2, r)
	if len(name) != len("annotation_")+8+len(".png") {
		t.Errorf("filename %q must embed an 8-char hash", name)
	}
	if name != ImageFilename("ITEM0004", 2, r) {
		t.Error("filename must be deterministic")
	}
	if name == ImageFilename("ITEM0004", 3, r) {
		t.Error("filename must vary with page index")
	}
}
