package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickcollette/blockidx/internal/btree"
)

var printCmd = &cobra.Command{
	Use:   "print <file>",
	Short: "Print every key/value pair in ascending key order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := btree.Open(args[0])
		if err != nil {
			return err
		}
		pairs, err := tr.All()
		if err != nil {
			return err
		}
		for _, p := range pairs {
			fmt.Printf("%d -> %d\n", p.Key, p.Value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
}
