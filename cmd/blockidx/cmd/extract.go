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

var (
	extractOverwrite bool
	extractSealWith  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file> <dest>",
	Short: "Write every key/value pair to dest as key,value lines",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, dest := args[0], args[1]

		if !extractOverwrite {
			if _, err := os.Stat(dest); err == nil {
				return fmt.Errorf("%s already exists (pass --overwrite to replace it)", dest)
			}
		}

		tr, err := btree.Open(file)
		if err != nil {
			return err
		}
		pairs, err := tr.All()
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		n, err := loader.Extract(&buf, pairs)
		if err != nil {
			return err
		}

		out := buf.Bytes()
		if extractSealWith != "" {
			out, err = seal.Seal(extractSealWith, out)
			if err != nil {
				return err
			}
		}
		if err := os.WriteFile(dest, out, 0644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}

		bus := events.NewBus()
		stop := newEventLogger(bus)
		bus.Publish(events.Event{Kind: events.Extracted, Path: dest, Count: n})
		stop()

		fmt.Printf("extracted %d pairs to %s\n", n, dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractOverwrite, "overwrite", false, "overwrite dest if it exists")
	extractCmd.Flags().StringVar(&extractSealWith, "seal-with", "", "passphrase to seal the exported text")
}
