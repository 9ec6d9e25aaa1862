package main

import (
	"fmt"

	"github.com/ayatough/zotero-typst-exporter/internal/operations"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(itemsCmd)
}

var itemsCmd = &cobra.Command{
	Use:   "items <collection-id>",
	Short: "List the top-level items of a collection",
	Long: `List the top-level items of a collection (attachments and notes
are excluded).

Examples:
  zotero-typst items ABCD1234`,
	Args: cobra.ExactArgs(1),
	RunE: runItems,
}

func runItems(cmd *cobra.Command, args []string) error {
	a := newApp()

	rows, err := operations.ListCollectionItems(cmd.Context(), a.lib, args[0], a.log)
	if err != nil {
		exitWithError(ExitError, "listing items of %s: %v", args[0], err)
	}

	if len(rows) == 0 {
		fmt.Println("No items in collection")
		return nil
	}

	table := make([][]string, len(rows))
	for i, row := range rows {
		table[i] = []string{row.Key, truncateString(row.Title, titleMaxLen), row.Authors, row.Date, row.ItemType}
	}
	printTable([]string{"KEY", "TITLE", "AUTHORS", "DATE", "TYPE"}, table)
	return nil
}
