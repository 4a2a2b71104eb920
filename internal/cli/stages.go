package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/memory-curator/internal/config"
	"github.com/rcliao/memory-curator/internal/score"
)

var selectFlagKeys = []string{
	config.FlagMemoryDir,
	config.FlagDays,
	config.FlagMemoryFile,
	config.FlagExclude,
}

var extractFlagKeys = append(append([]string{}, selectFlagKeys...), config.FlagConfidence, config.FlagMaxEntries)

var pruneFlagKeys = []string{
	config.FlagMemoryDir,
	config.FlagMemoryFile,
	config.FlagPruneDays,
}

func init() {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "List daily notes eligible for the next pass",
		Run:   runScan,
	}
	config.AddFlags(scanCmd, selectFlagKeys...)

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Show the signals the next pass would merge",
		Run:   runExtract,
	}
	config.AddFlags(extractCmd, extractFlagKeys...)

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove stale entries from the memory document",
		Run:   runPrune,
	}
	config.AddFlags(pruneCmd, pruneFlagKeys...)

	scoreCmd := &cobra.Command{
		Use:   "score [text]",
		Short: "Print the salience score of a statement",
		Args:  cobra.MinimumNArgs(1),
		Run:   runScore,
	}

	RootCmd.AddCommand(scanCmd, extractCmd, pruneCmd, scoreCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd, selectFlagKeys...)
	engine := newEngine(cfg, newLogger(cfg))

	files, err := engine.Scan(cmd.Context())
	if err != nil {
		exitErr("scan", err)
	}

	if !textOutput() {
		printJSON(files)
		return
	}
	for _, f := range files {
		modified := ""
		if info, err := os.Stat(f); err == nil {
			modified = humanize.Time(info.ModTime())
		}
		fmt.Printf("%s\t%s\n", f, modified)
	}
}

func runExtract(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd, extractFlagKeys...)
	engine := newEngine(cfg, newLogger(cfg))

	files, err := engine.Scan(cmd.Context())
	if err != nil {
		exitErr("scan", err)
	}
	signals, err := engine.Extract(cmd.Context(), files)
	if err != nil {
		exitErr("extract", err)
	}

	if !textOutput() {
		printJSON(signals)
		return
	}
	for _, s := range signals {
		fmt.Printf("%.2f  %s  (%s)\n", s.Confidence, s.Content, s.SourceFile)
	}
}

func runPrune(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd, pruneFlagKeys...)
	engine := newEngine(cfg, newLogger(cfg))

	removals, err := engine.Prune(cmd.Context())
	if err != nil {
		exitErr("prune", err)
	}

	if !textOutput() {
		printJSON(removals)
		return
	}
	fmt.Printf("Pruned %d stale entries\n", len(removals))
	for _, r := range removals {
		fmt.Printf("  %s\n", r.Content)
	}
}

func runScore(cmd *cobra.Command, args []string) {
	text := strings.Join(args, " ")
	s := score.Score(text)

	if !textOutput() {
		printJSON(map[string]any{"text": text, "score": s})
		return
	}
	fmt.Printf("%.2f\n", s)
}
