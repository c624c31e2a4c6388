package main

import (
	"fmt"

	"github.com/hivewalk/hivewalk/hive"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newKeysCmd())
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys <hive> [path]",
		Short: "List subkeys at a given path",
		Long: `The keys command lists the subkeys of the key at a given path in a
registry hive. If no path is specified, lists the subkeys of the root key.

Example:
  hivewalk keys system.hive
  hivewalk keys system.hive "ControlSet001\\Services"
  hivewalk keys system.hive "Software" --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(args)
		},
	}
	return cmd
}

func runKeys(args []string) error {
	hivePath := args[0]
	var keyPath string
	if len(args) > 1 {
		keyPath = args[1]
	}

	printVerbose("Opening hive: %s\n", hivePath)

	h, err := hive.Open(hivePath)
	if err != nil {
		return fmt.Errorf("failed to open hive: %w", err)
	}
	defer h.Close()

	node, err := h.Lookup(keyPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	children, err := h.NodeChildren(node)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	names := make([]string, 0, len(children))
	for _, child := range children {
		name, err := h.NodeNameDecoded(child)
		if err != nil {
			return fmt.Errorf("failed to read key name at %s: %w", child, err)
		}
		names = append(names, name)
	}

	// Output as JSON if requested
	if jsonOut {
		result := map[string]interface{}{
			"hive":  hivePath,
			"path":  keyPath,
			"keys":  names,
			"count": len(names),
		}
		return printJSON(result)
	}

	// Text output
	for _, name := range names {
		printInfo("%s\n", name)
	}
	printVerbose("\nTotal: %d keys\n", len(names))

	return nil
}
