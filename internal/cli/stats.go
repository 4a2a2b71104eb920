package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show run history statistics",
		Run:   runStats,
	}
	cmd.Flags().String("history-db", "", "Run history database path")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, path := openHistory(cmd)
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), path)
	if err != nil {
		exitErr("stats", err)
	}

	if !textOutput() {
		printJSON(stats)
		return
	}

	fmt.Printf("Database:   %s (%s)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)))
	fmt.Printf("Runs:       %s (%s completed, %s failed)\n",
		humanize.Comma(int64(stats.TotalRuns)), humanize.Comma(int64(stats.CompletedRuns)), humanize.Comma(int64(stats.FailedRuns)))
	fmt.Printf("Additions:  %s\n", humanize.Comma(int64(stats.TotalAdditions)))
	fmt.Printf("Removals:   %s\n", humanize.Comma(int64(stats.TotalRemovals)))
	if stats.LastRunAt != nil {
		fmt.Printf("Last run:   %s\n", humanize.Time(*stats.LastRunAt))
	}
	if len(stats.Sources) > 0 {
		fmt.Println("Top sources:")
		for _, src := range stats.Sources {
			fmt.Printf("  %4d  %s\n", src.Count, src.SourceFile)
		}
	}
}
