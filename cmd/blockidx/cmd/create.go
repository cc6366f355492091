package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickcollette/blockidx/internal/btree"
	"github.com/rickcollette/blockidx/internal/events"
)

var createOverwrite bool

var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Create a fresh, empty index file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bus := events.NewBus()
		stop := newEventLogger(bus)
		defer stop()

		tr, err := btree.Create(args[0], createOverwrite, btree.WithEventBus(bus))
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", tr.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().BoolVar(&createOverwrite, "overwrite", false, "overwrite an existing file")
}
