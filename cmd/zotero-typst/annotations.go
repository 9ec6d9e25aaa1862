package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ayatough/zotero-typst-exporter/internal/operations"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(annotationsCmd)
}

var annotationsCmd = &cobra.Command{
	Use:   "annotations <item-id>",
	Short: "List the annotations of an item's PDF attachments",
	Long: `List the annotations found in the PDF attachments of an item,
without exporting anything.

Examples:
  zotero-typst annotations WXYZ9876`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotations,
}

func runAnnotations(cmd *cobra.Command, args []string) error {
	a := newApp()

	rows, err := operations.ListAnnotations(cmd.Context(), a.lib, args[0], a.log)
	if errors.Is(err, operations.ErrNoPDFAttachment) {
		exitWithError(ExitError, "item %s has no PDF attachment", args[0])
	}
	if err != nil {
		exitWithError(ExitError, "listing annotations of %s: %v", args[0], err)
	}

	if len(rows) == 0 {
		fmt.Println("No annotations on item")
		return nil
	}

	table := make([][]string, len(rows))
	for i, row := range rows {
		table[i] = []string{
			row.Type,
			strconv.Itoa(row.Page),
			row.Color,
			truncateString(row.Text, titleMaxLen),
			truncateString(row.Comment, titleMaxLen),
			row.Tags,
		}
	}
	printTable([]string{"TYPE", "PAGE", "COLOR", "TEXT", "COMMENT", "TAGS"}, table)
	return nil
}
