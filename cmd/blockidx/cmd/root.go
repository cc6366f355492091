// Package cmd is the blockidx command-line surface: a thin dispatcher over
// package btree, never implementing B-tree semantics itself.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blockidx",
	Short: "blockidx - a disk-resident B-tree key/value index",
	Long: `blockidx manages a single-file B-tree index mapping unsigned
64-bit keys to unsigned 64-bit values.

Run a one-shot subcommand for scripting, or "blockidx shell" for the
interactive CREATE/OPEN/INSERT/SEARCH/LOAD/PRINT/EXTRACT/QUIT menu.`,
}

// Execute runs the root command. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
