package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/wordfreq/wordcount"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wordfreq %s\n", version)
			fmt.Printf("  library: %s\n", wordcount.Version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
		},
	}
}

func newBuildInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-info",
		Short: "Print the counter's compiled-in limits",
		Long: `The build-info command prints the limits compiled into the counting
library: the word length ceiling, table and arena floors and defaults, the
default scan buffer placement, and the allocation alignment.

Example:
  wordfreq build-info
  wordfreq build-info --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildInfo()
		},
	}
}

func runBuildInfo() error {
	info := wordcount.Build()
	if jsonOut {
		return printJSON(info)
	}
	fmt.Printf("Version:              %s (%d)\n", info.Version, info.VersionNumber)
	fmt.Printf("Max word length:      %d\n", info.MaxWord)
	fmt.Printf("Min table capacity:   %d\n", info.MinInitCap)
	fmt.Printf("Min block size:       %d\n", info.MinBlockSize)
	fmt.Printf("Default capacity:     %d\n", info.DefaultInitCap)
	fmt.Printf("Default block size:   %d\n", info.DefaultBlockSize)
	fmt.Printf("Default scan buffer:  %s\n", info.ScanBufferName)
	fmt.Printf("Alignment:            %d\n", info.Align)
	fmt.Printf("Slot size:            %d\n", info.SlotSize)
	return nil
}
