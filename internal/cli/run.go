package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-curator/internal/config"
	"github.com/rcliao/memory-curator/internal/curator"
	"github.com/rcliao/memory-curator/internal/model"
	"github.com/rcliao/memory-curator/internal/report"
)

var runFlagKeys = []string{
	config.FlagMemoryDir,
	config.FlagDays,
	config.FlagMemoryFile,
	config.FlagOutputReport,
	config.FlagReportFormat,
	config.FlagConfidence,
	config.FlagMaxEntries,
	config.FlagPruneDays,
	config.FlagExclude,
	config.FlagHistoryDB,
}

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full curation pass",
		Long:  "Scan recent daily notes, merge salient headlines into the memory document, prune stale entries and write a report.",
		Run:   runRun,
	}

	config.AddFlags(cmd, runFlagKeys...)
	cmd.Flags().Bool("no-history", false, "Do not record the run in the history database")

	RootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) {
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cfg := loadConfig(cmd, runFlagKeys...)
	if noHistory {
		cfg.History.Enabled = false
	}
	log := newLogger(cfg)
	engine := newEngine(cfg, log)

	rep, err := curate(cmd.Context(), engine, cfg, log)
	if err != nil {
		exitErr("run", err)
	}

	if !textOutput() {
		printJSON(rep)
		return
	}
	fmt.Printf("Scanned %d files\n", len(rep.FilesScanned))
	fmt.Printf("Merged %d entries into %s\n", len(rep.Additions), cfg.Curator.MemoryFile)
	fmt.Printf("Pruned %d stale entries\n", len(rep.Removals))
	fmt.Printf("Report written to %s\n", cfg.Report.Path)
	fmt.Printf("\n%s\n", rep.Summary())
}

// curate runs one pass, records it in the history database when enabled and
// writes the report file for completed passes.
func curate(ctx context.Context, engine *curator.Engine, cfg *config.Config, log *slog.Logger) (*model.Report, error) {
	rep, runErr := engine.Run(ctx)

	if cfg.History.Enabled {
		recordRun(ctx, cfg, rep, log)
	}
	if runErr != nil {
		return rep, runErr
	}

	if err := report.WriteFile(cfg.Report.Path, rep, cfg.Report.Format); err != nil {
		return rep, err
	}
	log.Info("report: written", "path", cfg.Report.Path, "format", cfg.Report.Format)
	return rep, nil
}

func recordRun(ctx context.Context, cfg *config.Config, rep *model.Report, log *slog.Logger) {
	s, err := openStore(cfg)
	if err != nil {
		log.Warn("history: open store", "path", cfg.History.Path, "err", err)
		return
	}
	defer s.Close()

	run, err := s.RecordRun(ctx, rep)
	if err != nil {
		log.Warn("history: record run", "err", err)
		return
	}
	log.Debug("history: recorded run", "id", run.ID, "status", run.Status)
}
