package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CURATOR_REPORT_FORMAT.
const EnvPrefix = "CURATOR"

// InitViper creates a configured *viper.Viper.
//
// Precedence, highest first:
//  1. CLI flags (once bound via BindFlags)
//  2. Environment variables (CURATOR_CURATOR_MEMORY_DIR, CURATOR_HISTORY_ENABLED, ...)
//  3. config.toml values
//  4. Defaults from Default()
//
// An empty path means DefaultPath(). A missing config file is not an error.
func InitViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setViperDefaults(v)

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	path = ExpandHome(path)

	v.SetConfigType("toml")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// DefaultPath is ~/.memory-curator/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, ".memory-curator", "config.toml"), nil
}

// setViperDefaults registers Default() under dotted keys so defaults.go stays
// the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("curator.memory_dir", d.Curator.MemoryDir)
	v.SetDefault("curator.memory_file", d.Curator.MemoryFile)
	v.SetDefault("curator.days_to_review", d.Curator.DaysToReview)
	v.SetDefault("curator.max_daily_entries", d.Curator.MaxDailyEntries)
	v.SetDefault("curator.min_signal_confidence", d.Curator.MinSignalConfidence)
	v.SetDefault("curator.prune_threshold_days", d.Curator.PruneThresholdDays)
	v.SetDefault("curator.exclude", d.Curator.Exclude)
	v.SetDefault("curator.agent_id", d.Curator.AgentID)

	v.SetDefault("report.path", d.Report.Path)
	v.SetDefault("report.format", d.Report.Format)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)

	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.pretty", d.Log.Pretty)
}
