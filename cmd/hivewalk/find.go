package main

import (
	"fmt"
	"time"

	"github.com/hivewalk/hivewalk/hive"
	"github.com/hivewalk/hivewalk/internal/format"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newFindCmd())
}

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <hive> <path>",
		Short: "Resolve a key path and print key details",
		Long: `The find command resolves a backslash-separated key path and prints
the key's handle, parent, subkey count, record length, and last-write
timestamp.

Example:
  hivewalk find system.hive "ControlSet001\\Services\\Tcpip"
  hivewalk find system.hive "Software" --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(args)
		},
	}
	return cmd
}

func runFind(args []string) error {
	hivePath, keyPath := args[0], args[1]

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

	name, err := h.NodeNameDecoded(node)
	if err != nil {
		return fmt.Errorf("failed to read key name: %w", err)
	}
	length, err := h.NodeStructLength(node)
	if err != nil {
		return fmt.Errorf("failed to measure key record: %w", err)
	}
	ts, err := h.NodeTimestamp(node)
	if err != nil {
		return fmt.Errorf("failed to read key timestamp: %w", err)
	}
	children, err := h.NodeChildren(node)
	if err != nil {
		return fmt.Errorf("failed to count subkeys: %w", err)
	}

	// The root key stores no usable parent pointer.
	root, err := h.Root()
	if err != nil {
		return err
	}
	var parent string
	if node != root {
		p, err := h.NodeParent(node)
		if err != nil {
			return fmt.Errorf("failed to read parent: %w", err)
		}
		parent = p.String()
	}

	stampText := "-"
	if ts != 0 {
		stampText = format.FiletimeToTime(ts).Format(time.RFC3339)
	}

	// Output as JSON if requested
	if jsonOut {
		result := map[string]interface{}{
			"hive":          hivePath,
			"path":          keyPath,
			"name":          name,
			"node":          node.String(),
			"subkeys":       len(children),
			"struct_length": length,
			"last_written":  ts,
		}
		if ts != 0 {
			result["last_written_time"] = stampText
		}
		if parent != "" {
			result["parent"] = parent
		}
		return printJSON(result)
	}

	// Text output
	printInfo("Key: %s\n", name)
	printInfo("  Node: %s\n", node)
	if parent != "" {
		printInfo("  Parent: %s\n", parent)
	} else {
		printInfo("  Parent: none (root key)\n")
	}
	printInfo("  Subkeys: %d\n", len(children))
	printInfo("  Struct length: %d bytes\n", length)
	printInfo("  Last written: %s (%d ticks)\n", stampText, ts)

	return nil
}
