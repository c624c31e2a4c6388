package main

import (
	"fmt"

	"github.com/hivewalk/hivewalk/hive"
	"github.com/hivewalk/hivewalk/internal/pathindex"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newIndexCmd())
}

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <hive> <out.db>",
		Short: "Build a persistent path index for a hive",
		Long: `The index command walks every key in a hive once and persists
path-to-node mappings into a bolt database, so later lookups do not need to
traverse the hive at all. An existing database at the output path is rebuilt.

Example:
  hivewalk index system.hive system.idx
  hivewalk index system.hive system.idx --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(args)
		},
	}
	return cmd
}

func runIndex(args []string) error {
	hivePath, dbPath := args[0], args[1]

	printVerbose("Opening hive: %s\n", hivePath)

	h, err := hive.Open(hivePath)
	if err != nil {
		return fmt.Errorf("failed to open hive: %w", err)
	}
	defer h.Close()

	printVerbose("Indexing key paths into: %s\n", dbPath)

	ix, err := pathindex.Build(dbPath, h)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	defer ix.Close()

	count, err := ix.Count()
	if err != nil {
		return fmt.Errorf("failed to read back index: %w", err)
	}

	// Output as JSON if requested
	if jsonOut {
		result := map[string]interface{}{
			"hive":  hivePath,
			"db":    dbPath,
			"count": count,
		}
		return printJSON(result)
	}

	// Text output
	printInfo("Indexed %d keys into %s\n", count, dbPath)

	return nil
}
