package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rickcollette/blockidx/internal/workspace"
)

var workspaceOverwrite bool

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage a directory of named index files",
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create <dir> [name]",
	Short: "Create a named (or auto-named) index file in dir",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := workspace.New(args[0])
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		path, err := m.Create(name, workspaceOverwrite)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var workspaceDropCmd = &cobra.Command{
	Use:   "drop <dir> <name>",
	Short: "Remove a named index file from dir",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := workspace.New(args[0])
		if err != nil {
			return err
		}
		return m.Drop(args[1])
	},
}

var workspaceListCmd = &cobra.Command{
	Use:   "list <dir>",
	Short: "List the index files in dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := workspace.New(args[0])
		if err != nil {
			return err
		}
		names, err := m.List()
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(names, "\n"))
		return nil
	},
}

var workspaceUseCmd = &cobra.Command{
	Use:   "use <dir> <name>",
	Short: "Resolve name to its path in dir and mark it current",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := workspace.New(args[0])
		if err != nil {
			return err
		}
		path, err := m.Use(args[1])
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceCreateCmd, workspaceDropCmd, workspaceListCmd, workspaceUseCmd)
	workspaceCreateCmd.Flags().BoolVar(&workspaceOverwrite, "overwrite", false, "overwrite an existing index of the same name")
}
