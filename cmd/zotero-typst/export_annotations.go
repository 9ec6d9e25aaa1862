package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportAnnotationsOutDir string

func init() {
	exportAnnotationsCmd.Flags().StringVarP(&exportAnnotationsOutDir, "output", "o", "assets", "Directory for the Typst document and rendered images")
	rootCmd.AddCommand(exportAnnotationsCmd)
}

var exportAnnotationsCmd = &cobra.Command{
	Use:   "export-annotations <item-id>",
	Short: "Export one item's annotations to a Typst document",
	Long: `Export the annotations of one item to <output>/annotations.typ.
Image annotations are rendered to PNG files in the same directory.

Examples:
  zotero-typst export-annotations WXYZ9876
  zotero-typst export-annotations WXYZ9876 -o out/paper`,
	Args: cobra.ExactArgs(1),
	RunE: runExportAnnotations,
}

func runExportAnnotations(cmd *cobra.Command, args []string) error {
	a := newApp()
	exporter := a.exporter()

	outPath, err := exporter.Item(cmd.Context(), args[0], exportAnnotationsOutDir)
	if err != nil {
		exitWithError(ExitError, "exporting annotations of %s: %v", args[0], err)
	}

	fmt.Printf("Wrote %s\n", outPath)
	return nil
}
