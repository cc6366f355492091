package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rickcollette/blockidx/internal/btree"
	"github.com/rickcollette/blockidx/internal/events"
	"github.com/rickcollette/blockidx/internal/loader"
	"github.com/rickcollette/blockidx/internal/seal"
)

var loadUnsealWith string

var loadCmd = &cobra.Command{
	Use:   "load <file> <source>",
	Short: "Bulk-load key,value lines from source into an existing index",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, source := args[0], args[1]

		raw, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("read %s: %w", source, err)
		}
		if loadUnsealWith != "" {
			raw, err = seal.Unseal(loadUnsealWith, raw)
			if err != nil {
				return err
			}
		}

		bus := events.NewBus()
		stop := newEventLogger(bus)
		defer stop()

		tr, err := btree.Open(file, btree.WithEventBus(bus))
		if err != nil {
			return err
		}

		sum, err := loader.Load(bytes.NewReader(raw), tr)
		if err != nil {
			return err
		}
		bus.Publish(events.Event{Kind: events.LoadCompleted, Path: file, Count: sum.Total()})
		fmt.Printf("loaded %d lines: %d success, %d duplicate, %d malformed, %d negative\n",
			sum.Total(), sum.Success, sum.Duplicate, sum.Malformed, sum.Negative)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadUnsealWith, "unseal-with", "", "passphrase to unseal the load source")
}
