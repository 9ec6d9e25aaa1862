// Package main provides the zotero-typst CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// envFile optionally points at a .env file loaded before environment
// variables are read.
var envFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zotero-typst",
	Short: "Export Zotero annotations to Typst documents",
	Long: `zotero-typst extracts PDF annotations from a Zotero library and
exports them as a Typst data document. Image annotations are rendered to
cropped PNG files alongside the document, and collections can also be
exported as a BibTeX bibliography.

Credentials are read from the environment (ZOTERO_API_KEY, ZOTERO_USER_ID
and, for commands that fetch PDFs, the ZOTERO_WEBDAV_* variables), from an
optional .env file, or from the global config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file to load before reading the environment")
	rootCmd.Version = Version
}
