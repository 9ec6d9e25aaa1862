package citations

import (
	"strings"
	"testing"

	"github.com/ayatough/zotero-typst-exporter/models"
)

func TestGenerateBibTeXEntry(t *testing.T) {
	tests := []struct {
		name     string
		metadata *models.ItemMetadata
		citekey  string
		want     []string // substrings that must appear in the output
	}{
		{
			name: "article with full metadata",
			metadata: &models.ItemMetadata{
				Title:           "Machine Learning in Climate Science",
				Authors:         []string{"Smith, John", "Doe, Jane"},
				PublicationDate: "2020-05-15",
				Publication:     "Nature Climate Change",
				DOI:             "10.1038/s41558-020-0000-0",
				ItemType:        "journalArticle",
				Volume:          "10",
				Issue:           "5",
				Pages:           "123-130",
			},
			citekey: "smithDoe2020",
			want: []string{
				"@article{smithDoe2020,",
				"title = {Machine Learning in Climate Science}",
				"author = {Smith, John and Doe, Jane}",
				"journal = {Nature Climate Change}",
				"year = {2020}",
				"volume = {10}",
				"number = {5}",
				"pages = {123--130}",
				"doi = {10.1038/s41558-020-0000-0}",
			},
		},
		{
			name: "book with minimal metadata",
			metadata: &models.ItemMetadata{
				Title:           "Introduction to Algorithms",
				Authors:         []string{"Cormen, Thomas"},
				PublicationDate: "2009",
				Publisher:       "MIT Press",
				ItemType:        "book",
			},
			citekey: "cormen2009",
			want: []string{
				"@book{cormen2009,",
				"publisher = {MIT Press}",
				"year = {2009}",
			},
		},
		{
			name: "conference paper uses booktitle",
			metadata: &models.ItemMetadata{
				Title:       "Fast Parsing",
				Publication: "Proceedings of PLDI",
				ItemType:    "conferencePaper",
			},
			citekey: "fast",
			want: []string{
				"@inproceedings{fast,",
				"booktitle = {Proceedings of PLDI}",
			},
		},
		{
			name: "special characters escaped",
			metadata: &models.ItemMetadata{
				Title:    "P&L at 100% with under_scores",
				ItemType: "report",
			},
			citekey: "escaped",
			want: []string{
				"@techreport{escaped,",
				`title = {P\&L at 100\% with under\_scores}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateBibTeXEntry(tt.metadata, tt.citekey)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("entry missing %q:\n%s", want, got)
				}
			}
			if !strings.HasSuffix(got, "\n}\n") {
				t.Errorf("entry not properly closed:\n%s", got)
			}
		})
	}
}

func TestGenerateBibTeXEntry_UnknownTypeIsMisc(t *testing.T) {
	got := GenerateBibTeXEntry(&models.ItemMetadata{Title: "X", ItemType: "webpage"}, "x")
	if !strings.HasPrefix(got, "@misc{x,") {
		t.Errorf("entry = %q, want @misc prefix", got)
	}
}

func TestGenerateBibTeXFile(t *testing.T) {
	file := GenerateBibTeXFile([]string{"@misc{a,\n}\n", "@misc{b,\n}\n"})
	if !strings.HasPrefix(file, "% BibTeX bibliography file") {
		t.Errorf("file missing header:\n%s", file)
	}
	if !strings.Contains(file, "@misc{a,") || !strings.Contains(file, "@misc{b,") {
		t.Errorf("file missing entries:\n%s", file)
	}
}
