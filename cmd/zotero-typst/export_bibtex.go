package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportBibtexOutFile string

func init() {
	exportBibtexCmd.Flags().StringVarP(&exportBibtexOutFile, "output", "o", "references.bib", "Output BibTeX file")
	rootCmd.AddCommand(exportBibtexCmd)
}

var exportBibtexCmd = &cobra.Command{
	Use:   "export-bibtex <collection-id>",
	Short: "Export a collection as a BibTeX bibliography",
	Long: `Export every item of a collection as a BibTeX entry. Citation keys
follow the pandoc convention (author + year, lowercase) and are
deduplicated with letter suffixes.

Examples:
  zotero-typst export-bibtex ABCD1234
  zotero-typst export-bibtex ABCD1234 -o thesis/references.bib`,
	Args: cobra.ExactArgs(1),
	RunE: runExportBibtex,
}

func runExportBibtex(cmd *cobra.Command, args []string) error {
	a := newApp()

	result, err := a.bibliography().BibTeX(cmd.Context(), args[0], exportBibtexOutFile)
	if err != nil {
		exitWithError(ExitError, "exporting bibliography of %s: %v", args[0], err)
	}

	fmt.Printf("Wrote %s (%d of %d items exported)\n", result.OutputPath, result.Exported, result.Processed)
	return nil
}
