package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rickcollette/blockidx/internal/btree"
	"github.com/rickcollette/blockidx/internal/errs"
	"github.com/rickcollette/blockidx/internal/events"
	"github.com/rickcollette/blockidx/internal/loader"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run the interactive CREATE/OPEN/INSERT/SEARCH/LOAD/PRINT/EXTRACT/QUIT menu",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// shellState holds the one open Tree a REPL session may have at a time, plus
// the event bus its logging subscriber listens on. This mirrors the single
// owned *btree.Tree the engine permits per §9.
type shellState struct {
	tree *btree.Tree
	bus  *events.Bus
	stop func()
}

func (s *shellState) close() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.tree = nil
	s.bus = nil
}

func runShell(in *os.File, out *os.File) error {
	reader := bufio.NewReader(in)
	state := &shellState{}
	defer state.close()

	printMenu(out)
	for {
		fmt.Fprint(out, "\nEnter command: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		command := strings.ToUpper(strings.TrimSpace(line))

		switch command {
		case "QUIT":
			fmt.Fprintln(out, "Goodbye.")
			return nil
		case "CREATE":
			shellCreate(reader, out, state)
		case "OPEN":
			shellOpen(reader, out, state)
		case "INSERT":
			shellInsert(reader, out, state)
		case "SEARCH":
			shellSearch(reader, out, state)
		case "LOAD":
			shellLoad(reader, out, state)
		case "PRINT":
			shellPrint(out, state)
		case "EXTRACT":
			shellExtract(reader, out, state)
		case "":
			// blank line between prompts, ignore
		default:
			fmt.Fprintf(out, "Unknown command: %s\n", command)
			printMenu(out)
		}
	}
}

func printMenu(out *os.File) {
	fmt.Fprintln(out, "CREATE - Create a new index file")
	fmt.Fprintln(out, "OPEN - Open an existing index file")
	fmt.Fprintln(out, "INSERT - Insert a key/value pair")
	fmt.Fprintln(out, "SEARCH - Search for a key")
	fmt.Fprintln(out, "LOAD - Load pairs from file")
	fmt.Fprintln(out, "PRINT - Print all key/value pairs")
	fmt.Fprintln(out, "EXTRACT - Save pairs to file")
	fmt.Fprintln(out, "QUIT - Exit program")
}

func readLine(reader *bufio.Reader, out *os.File, prompt string) string {
	fmt.Fprint(out, prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readUint(reader *bufio.Reader, out *os.File, prompt string) (uint64, error) {
	text := readLine(reader, out, prompt)
	return strconv.ParseUint(text, 10, 64)
}

func shellCreate(reader *bufio.Reader, out *os.File, state *shellState) {
	filename := readLine(reader, out, "Enter filename: ")
	if _, err := os.Stat(filename); err == nil {
		answer := readLine(reader, out, "File already exists. Overwrite? (y/n): ")
		if strings.ToLower(answer) != "y" {
			fmt.Fprintln(out, "Create cancelled.")
			return
		}
	}

	state.close()
	bus := events.NewBus()
	stop := newEventLogger(bus)
	tr, err := btree.Create(filename, true, btree.WithEventBus(bus))
	if err != nil {
		stop()
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	state.tree, state.bus, state.stop = tr, bus, stop
	fmt.Fprintf(out, "Created %s\n", filename)
}

func shellOpen(reader *bufio.Reader, out *os.File, state *shellState) {
	filename := readLine(reader, out, "Enter filename: ")

	state.close()
	bus := events.NewBus()
	stop := newEventLogger(bus)
	tr, err := btree.Open(filename, btree.WithEventBus(bus))
	if err != nil {
		stop()
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	state.tree, state.bus, state.stop = tr, bus, stop
	fmt.Fprintf(out, "Opened %s\n", filename)
}

func requireOpen(out *os.File, state *shellState) bool {
	if state.tree == nil {
		fmt.Fprintln(out, "No index file is open. Use CREATE or OPEN first.")
		return false
	}
	return true
}

func shellInsert(reader *bufio.Reader, out *os.File, state *shellState) {
	if !requireOpen(out, state) {
		return
	}
	key, err := readUint(reader, out, "Enter key: ")
	if err != nil {
		fmt.Fprintln(out, "Invalid key.")
		return
	}
	value, err := readUint(reader, out, "Enter value: ")
	if err != nil {
		fmt.Fprintln(out, "Invalid value.")
		return
	}
	if err := state.tree.Insert(key, value); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(out, "Inserted.")
}

func shellSearch(reader *bufio.Reader, out *os.File, state *shellState) {
	if !requireOpen(out, state) {
		return
	}
	key, err := readUint(reader, out, "Enter key: ")
	if err != nil {
		fmt.Fprintln(out, "Invalid key.")
		return
	}
	value, err := state.tree.Search(key)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Found: %d\n", value)
	case errors.Is(err, errs.ErrNotFound):
		fmt.Fprintln(out, "Key not found.")
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func shellLoad(reader *bufio.Reader, out *os.File, state *shellState) {
	if !requireOpen(out, state) {
		return
	}
	filename := readLine(reader, out, "Enter input filename: ")
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	defer f.Close()

	sum, err := loader.Load(f, state.tree)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	state.bus.Publish(events.Event{Kind: events.LoadCompleted, Path: filename, Count: sum.Total()})
	fmt.Fprintf(out, "Loaded %d lines: %d success, %d duplicate, %d malformed, %d negative\n",
		sum.Total(), sum.Success, sum.Duplicate, sum.Malformed, sum.Negative)
}

func shellPrint(out *os.File, state *shellState) {
	if !requireOpen(out, state) {
		return
	}
	pairs, err := state.tree.All()
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	for _, p := range pairs {
		fmt.Fprintf(out, "%d -> %d\n", p.Key, p.Value)
	}
}

func shellExtract(reader *bufio.Reader, out *os.File, state *shellState) {
	if !requireOpen(out, state) {
		return
	}
	filename := readLine(reader, out, "Enter output filename: ")
	if _, err := os.Stat(filename); err == nil {
		answer := readLine(reader, out, "File already exists. Overwrite? (y/n): ")
		if strings.ToLower(answer) != "y" {
			fmt.Fprintln(out, "Extract cancelled.")
			return
		}
	}

	pairs, err := state.tree.All()
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	f, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	defer f.Close()

	n, err := loader.Extract(f, pairs)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	state.bus.Publish(events.Event{Kind: events.Extracted, Path: filename, Count: n})
	fmt.Fprintf(out, "Extracted %d pairs to %s\n", n, filename)
}
