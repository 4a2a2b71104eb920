// Package cli implements the memory-curator CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-curator/internal/config"
	"github.com/rcliao/memory-curator/internal/curator"
	"github.com/rcliao/memory-curator/internal/logger"
	"github.com/rcliao/memory-curator/internal/store"
)

var (
	configPath string
	formatFlag string
	debugFlag  bool
	logJSON    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "memory-curator",
	Short: "Curate daily notes into long-term memory",
	Long: "Scans recent daily markdown notes, merges salient headlines into MEMORY.md, " +
		"prunes stale entries and keeps a history of every run.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.memory-curator/config.toml)")
	RootCmd.PersistentFlags().StringVar(&formatFlag, "format", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	RootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
}

// loadConfig resolves the effective configuration with the given command
// flags bound on top of env, file and defaults.
func loadConfig(cmd *cobra.Command, flagKeys ...string) *config.Config {
	v, err := config.InitViper(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	config.BindFlags(v, cmd, flagKeys...)

	cfg, err := config.Load(v)
	if err != nil {
		exitErr("load config", err)
	}
	if debugFlag {
		cfg.Log.Debug = true
	}
	if logJSON {
		cfg.Log.JSON = true
	}
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(
		logger.WithDebug(cfg.Log.Debug),
		logger.WithJSON(cfg.Log.JSON),
		logger.WithPretty(cfg.Log.Pretty),
	)
}

func newEngine(cfg *config.Config, log *slog.Logger) *curator.Engine {
	e, err := curator.New(cfg.CuratorConfig(), curator.WithLogger(log))
	if err != nil {
		exitErr("init curator", err)
	}
	return e
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.History.Path)
}

func textOutput() bool {
	return formatFlag == "text"
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr("encode output", err)
	}
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
