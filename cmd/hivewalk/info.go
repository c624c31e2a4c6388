package main

import (
	"fmt"
	"time"

	"github.com/hivewalk/hivewalk/hive"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <hive>",
		Short: "Validate a hive header and report basic metadata",
		Long: `The info command validates a Windows registry hive file and displays
header metadata: format version, sequence numbers, the root key handle, and
the last-write timestamp.

Example:
  hivewalk info system.hive
  hivewalk info system.hive --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	hivePath := args[0]

	printVerbose("Opening hive: %s\n", hivePath)

	h, err := hive.Open(hivePath)
	if err != nil {
		return fmt.Errorf("failed to open hive: %w", err)
	}
	defer h.Close()

	info := h.Info()

	// The stored root offset is only validated on demand, so a damaged root
	// must not hide the rest of the header.
	var rootText string
	root, rootErr := h.Root()
	if rootErr == nil {
		rootText = root.String()
	}

	// Output as JSON if requested
	if jsonOut {
		result := map[string]interface{}{
			"hive":               hivePath,
			"length":             info.Length,
			"version":            fmt.Sprintf("%d.%d", info.MajorVersion, info.MinorVersion),
			"primary_sequence":   info.PrimarySequence,
			"secondary_sequence": info.SecondarySequence,
			"bins_data_size":     info.HiveBinsDataSize,
			"last_modified":      info.LastModified,
			"last_modified_time": info.LastModifiedTime.Format(time.RFC3339),
		}
		if rootErr == nil {
			result["root"] = rootText
		} else {
			result["root_error"] = rootErr.Error()
		}
		return printJSON(result)
	}

	// Text output
	printInfo("\nHive Information:\n")
	printInfo("  File: %s\n", hivePath)
	if info.Length < 1024 {
		printInfo("  Size: %d bytes\n", info.Length)
	} else if info.Length < 1024*1024 {
		printInfo("  Size: %.1f KB\n", float64(info.Length)/1024)
	} else {
		printInfo("  Size: %.1f MB\n", float64(info.Length)/(1024*1024))
	}
	printInfo("  Format version: %d.%d\n", info.MajorVersion, info.MinorVersion)
	state := "clean"
	if info.PrimarySequence != info.SecondarySequence {
		state = "dirty"
	}
	printInfo("  Sequences: %d/%d (%s)\n", info.PrimarySequence, info.SecondarySequence, state)
	printInfo("  Hive bins data: %d bytes\n", info.HiveBinsDataSize)
	if rootErr == nil {
		printInfo("  Root key: %s\n", rootText)
	} else {
		printInfo("  Root key: unavailable (%v)\n", rootErr)
	}
	printInfo("  Last modified: %s (%d ticks)\n",
		info.LastModifiedTime.Format(time.RFC3339), info.LastModified)

	return nil
}
