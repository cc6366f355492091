package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rickcollette/blockidx/internal/btree"
	"github.com/rickcollette/blockidx/internal/events"
)

var insertCmd = &cobra.Command{
	Use:   "insert <file> <key> <value>",
	Short: "Insert a key/value pair into an existing index",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid key %q: %w", args[1], err)
		}
		value, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[2], err)
		}

		bus := events.NewBus()
		stop := newEventLogger(bus)
		defer stop()

		tr, err := btree.Open(args[0], btree.WithEventBus(bus))
		if err != nil {
			return err
		}
		if err := tr.Insert(key, value); err != nil {
			return err
		}
		fmt.Printf("inserted %d -> %d\n", key, value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insertCmd)
}
