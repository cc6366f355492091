package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rickcollette/blockidx/internal/btree"
)

var searchCmd = &cobra.Command{
	Use:   "search <file> <key>",
	Short: "Search for a key and print its value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid key %q: %w", args[1], err)
		}

		tr, err := btree.Open(args[0])
		if err != nil {
			return err
		}
		value, err := tr.Search(key)
		if err != nil {
			return err
		}
		fmt.Printf("%d\n", value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
