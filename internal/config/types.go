package config

import "github.com/rcliao/memory-curator/internal/curator"

// Config is the persistent curator configuration stored as config.toml.
type Config struct {
	Curator CuratorConfig `toml:"curator" mapstructure:"curator"`
	Report  ReportConfig  `toml:"report" mapstructure:"report"`
	History HistoryConfig `toml:"history" mapstructure:"history"`
	Log     LogConfig     `toml:"log" mapstructure:"log"`
}

// CuratorConfig holds the curation pass settings.
type CuratorConfig struct {
	MemoryDir           string   `toml:"memory_dir" mapstructure:"memory_dir"`
	MemoryFile          string   `toml:"memory_file" mapstructure:"memory_file"`
	DaysToReview        int      `toml:"days_to_review" mapstructure:"days_to_review"`
	MaxDailyEntries     int      `toml:"max_daily_entries" mapstructure:"max_daily_entries"`
	MinSignalConfidence float64  `toml:"min_signal_confidence" mapstructure:"min_signal_confidence"`
	PruneThresholdDays  int      `toml:"prune_threshold_days" mapstructure:"prune_threshold_days"`
	Exclude             []string `toml:"exclude" mapstructure:"exclude"`
	AgentID             string   `toml:"agent_id" mapstructure:"agent_id"`
}

// ReportConfig controls where the run report is written.
type ReportConfig struct {
	Path   string `toml:"path" mapstructure:"path"`
	Format string `toml:"format" mapstructure:"format"`
}

// HistoryConfig controls the SQLite run ledger.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Path    string `toml:"path" mapstructure:"path"`
}

// LogConfig controls log output.
type LogConfig struct {
	Debug  bool `toml:"debug" mapstructure:"debug"`
	JSON   bool `toml:"json" mapstructure:"json"`
	Pretty bool `toml:"pretty" mapstructure:"pretty"`
}

// CuratorConfig converts the curator section into an engine configuration.
func (c *Config) CuratorConfig() curator.Config {
	return curator.Config{
		MemoryDir:           c.Curator.MemoryDir,
		DaysToReview:        c.Curator.DaysToReview,
		MemoryFile:          c.Curator.MemoryFile,
		MaxDailyEntries:     c.Curator.MaxDailyEntries,
		MinSignalConfidence: c.Curator.MinSignalConfidence,
		PruneThresholdDays:  c.Curator.PruneThresholdDays,
		Exclude:             c.Curator.Exclude,
		AgentID:             c.Curator.AgentID,
	}
}
