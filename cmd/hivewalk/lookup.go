package main

import (
	"fmt"

	"github.com/hivewalk/hivewalk/internal/pathindex"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLookupCmd())
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <index.db> <path>",
		Short: "Resolve a key path against a built index",
		Long: `The lookup command resolves a backslash-separated key path against a
database previously built with the index command and prints the node handle
recorded for it.

Example:
  hivewalk lookup system.idx "ControlSet001\\Services\\Tcpip"
  hivewalk lookup system.idx "Software" --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(args)
		},
	}
	return cmd
}

func runLookup(args []string) error {
	dbPath, keyPath := args[0], args[1]

	printVerbose("Opening index: %s\n", dbPath)

	ix, err := pathindex.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer ix.Close()

	if stamp, err := ix.LastModified(); err == nil {
		printVerbose("Index built from hive stamped %d\n", stamp)
	}

	node, err := ix.Get(keyPath)
	if err != nil {
		return fmt.Errorf("failed to look up path: %w", err)
	}

	// Output as JSON if requested
	if jsonOut {
		result := map[string]interface{}{
			"db":         dbPath,
			"path":       keyPath,
			"normalized": pathindex.Normalize(keyPath),
			"node":       node.String(),
		}
		return printJSON(result)
	}

	// Text output
	printInfo("%s  %s\n", node, pathindex.Normalize(keyPath))

	return nil
}
