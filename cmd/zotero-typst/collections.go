package main

import (
	"fmt"
	"strconv"

	"github.com/ayatough/zotero-typst-exporter/internal/operations"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(collectionsCmd)
}

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List all collections in the library",
	Long: `List all collections in the library with their keys, item counts
and parent collections.

Examples:
  zotero-typst collections`,
	Args: cobra.NoArgs,
	RunE: runCollections,
}

func runCollections(cmd *cobra.Command, args []string) error {
	a := newApp()

	rows, err := operations.ListCollections(cmd.Context(), a.lib, a.log)
	if err != nil {
		exitWithError(ExitError, "listing collections: %v", err)
	}

	if len(rows) == 0 {
		fmt.Println("No collections in library")
		return nil
	}

	table := make([][]string, len(rows))
	for i, row := range rows {
		table[i] = []string{row.Key, row.Name, strconv.Itoa(row.ItemCount), row.Parent}
	}
	printTable([]string{"KEY", "NAME", "ITEMS", "PARENT"}, table)
	return nil
}
