package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag bound to a config key.
type Flag struct {
	Name        string
	Shorthand   string
	ViperKey    string
	Description string
}

// Flag registry keys.
const (
	FlagMemoryDir    = "memory-dir"
	FlagDays         = "days"
	FlagMemoryFile   = "memory-file"
	FlagOutputReport = "output-report"
	FlagReportFormat = "report-format"
	FlagConfidence   = "confidence"
	FlagMaxEntries   = "max-entries"
	FlagPruneDays    = "prune-days"
	FlagExclude      = "exclude"
	FlagHistoryDB    = "history-db"
)

// Flags maps registry keys to their definitions.
var Flags = map[string]Flag{
	FlagMemoryDir:    {"memory-dir", "m", "curator.memory_dir", "Directory containing daily memory files"},
	FlagDays:         {"days", "d", "curator.days_to_review", "Days of daily notes to review"},
	FlagMemoryFile:   {"memory-file", "f", "curator.memory_file", "Long-term memory document"},
	FlagOutputReport: {"output-report", "o", "report.path", "Report output path"},
	FlagReportFormat: {"report-format", "", "report.format", "Report format (json, yaml)"},
	FlagConfidence:   {"confidence", "c", "curator.min_signal_confidence", "Minimum confidence for a signal to be kept"},
	FlagMaxEntries:   {"max-entries", "n", "curator.max_daily_entries", "Maximum entries merged per run"},
	FlagPruneDays:    {"prune-days", "", "curator.prune_threshold_days", "Prune memory entries older than this many days"},
	FlagExclude:      {"exclude", "x", "curator.exclude", "Glob pattern of notes to skip (repeatable)"},
	FlagHistoryDB:    {"history-db", "", "history.path", "Run history database path"},
}

// AddFlags registers the given flags on cmd with defaults taken from Default().
func AddFlags(cmd *cobra.Command, keys ...string) {
	defaults := viper.New()
	setViperDefaults(defaults)

	for _, key := range keys {
		def, ok := Flags[key]
		if !ok {
			continue
		}
		fs := cmd.Flags()
		switch val := defaults.Get(def.ViperKey).(type) {
		case int:
			fs.IntP(def.Name, def.Shorthand, val, def.Description)
		case float64:
			fs.Float64P(def.Name, def.Shorthand, val, def.Description)
		case bool:
			fs.BoolP(def.Name, def.Shorthand, val, def.Description)
		case []string:
			fs.StringSliceP(def.Name, def.Shorthand, val, def.Description)
		default:
			fs.StringP(def.Name, def.Shorthand, defaults.GetString(def.ViperKey), def.Description)
		}
	}
}

// BindFlags binds already-registered flags to v so they take precedence over
// environment, file and defaults. Call it after InitViper.
func BindFlags(v *viper.Viper, cmd *cobra.Command, keys ...string) {
	for _, key := range keys {
		def, ok := Flags[key]
		if !ok {
			continue
		}
		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}
		_ = v.BindPFlag(def.ViperKey, f)
	}
}
