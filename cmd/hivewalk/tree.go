package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hivewalk/hivewalk/hive"
	"github.com/hivewalk/hivewalk/internal/format"
	"github.com/hivewalk/hivewalk/pkg/types"
	"github.com/spf13/cobra"
)

var treeDepth int

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVar(&treeDepth, "depth", 3, "Maximum depth (0 = unlimited)")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <hive> [path]",
		Short: "Display the key tree",
		Long: `The tree command displays an indented view of the key tree below a
given path, with each key's last-write timestamp.

Example:
  hivewalk tree system.hive
  hivewalk tree system.hive "ControlSet001\\Services" --depth 2
  hivewalk tree system.hive --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args)
		},
	}
	return cmd
}

type treeEntry struct {
	Name        string `json:"name"`
	Depth       int    `json:"depth"`
	Node        string `json:"node"`
	LastWritten string `json:"last_written,omitempty"`
}

func runTree(args []string) error {
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

	start, err := h.Lookup(keyPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	var entries []treeEntry
	err = h.Walk(start, func(n types.NodeID, depth int) error {
		if treeDepth > 0 && depth > treeDepth {
			return nil
		}
		name, err := h.NodeNameDecoded(n)
		if err != nil {
			return err
		}
		e := treeEntry{Name: name, Depth: depth, Node: n.String()}
		if ts, err := h.NodeTimestamp(n); err == nil && ts != 0 {
			e.LastWritten = format.FiletimeToTime(ts).Format(time.RFC3339)
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk tree: %w", err)
	}

	// Output as JSON if requested
	if jsonOut {
		result := map[string]interface{}{
			"hive":  hivePath,
			"path":  keyPath,
			"keys":  entries,
			"count": len(entries),
		}
		return printJSON(result)
	}

	// Text output
	for _, e := range entries {
		stamp := e.LastWritten
		if stamp == "" {
			stamp = "-"
		}
		printInfo("%s%s  (%s)\n", strings.Repeat("  ", e.Depth), e.Name, stamp)
	}
	printVerbose("\nTotal: %d keys\n", len(entries))

	return nil
}
