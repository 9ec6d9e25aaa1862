package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCollectionOutDir string

func init() {
	exportCollectionCmd.Flags().StringVarP(&exportCollectionOutDir, "output", "o", "assets", "Directory for the Typst document and rendered images")
	rootCmd.AddCommand(exportCollectionCmd)
}

var exportCollectionCmd = &cobra.Command{
	Use:   "export-collection-annotations <collection-id>",
	Short: "Export a collection's annotations to a Typst document",
	Long: `Export the annotations of every item of a collection to
<output>/collection_annotations.typ. Items without annotations are
processed but left out of the document.

Examples:
  zotero-typst export-collection-annotations ABCD1234
  zotero-typst export-collection-annotations ABCD1234 -o out/review`,
	Args: cobra.ExactArgs(1),
	RunE: runExportCollection,
}

func runExportCollection(cmd *cobra.Command, args []string) error {
	a := newApp()
	exporter := a.exporter()

	result, err := exporter.Collection(cmd.Context(), args[0], exportCollectionOutDir)
	if err != nil {
		exitWithError(ExitError, "exporting collection %s: %v", args[0], err)
	}

	fmt.Printf("Wrote %s (%d of %d items had annotations)\n", result.OutputPath, result.Exported, result.Processed)
	return nil
}
