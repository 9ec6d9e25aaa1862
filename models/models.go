// Package models defines the domain types shared across the exporter.
package models

// AnnotationType identifies the kind of markup recorded against a PDF page.
// Zotero may introduce new types; unknown values are carried through as-is.
type AnnotationType string

const (
	AnnotationHighlight AnnotationType = "highlight"
	AnnotationUnderline AnnotationType = "underline"
	AnnotationNote      AnnotationType = "note"
	AnnotationImage     AnnotationType = "image"
)

// Annotation is one normalized annotation record extracted from a PDF
// attachment. Page is 1-based. Image is the path of the rendered region
// and is set only for image annotations whose position could be decoded.
type Annotation struct {
	Type    AnnotationType
	Text    string
	Comment string
	Tags    []string
	Page    int
	Image   string
}

// Paper holds the bibliographic skeleton of one item plus its annotations
// in encounter order (attachment order, then child order).
type Paper struct {
	Title       string
	Authors     []string // "Last, First" or a single display name
	Year        string   // possibly empty
	Month       string   // two-digit zero-padded, possibly empty
	Annotations []Annotation
}

// ItemMetadata carries the bibliographic fields used for citation-key and
// BibTeX generation.
type ItemMetadata struct {
	Title           string
	Authors         []string
	ItemType        string
	PublicationDate string
	Publication     string
	Publisher       string
	Volume          string
	Issue           string
	Pages           string
	DOI             string
	ISSN            string
	ISBN            string
	URL             string
	Abstract        string
}

// PaperSet is an ordered citation-key -> Paper mapping. Insertion order is
// preserved for serialization; adding an existing key overwrites the value
// but keeps the key's original position.
type PaperSet struct {
	keys   []string
	papers map[string]Paper
}

func NewPaperSet() *PaperSet {
	return &PaperSet{papers: make(map[string]Paper)}
}

// Add inserts or replaces the paper stored under key.
func (s *PaperSet) Add(key string, paper Paper) {
	if _, ok := s.papers[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.papers[key] = paper
}

// Keys returns the citation keys in insertion order.
func (s *PaperSet) Keys() []string {
	return s.keys
}

// Get returns the paper stored under key.
func (s *PaperSet) Get(key string) (Paper, bool) {
	p, ok := s.papers[key]
	return p, ok
}

// Len returns the number of papers in the set.
func (s *PaperSet) Len() int {
	return len(s.keys)
}
