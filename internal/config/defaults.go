package config

import "github.com/rcliao/memory-curator/internal/model"

const (
	defaultMemoryDir           = "~/.openclaw/workspace/memory"
	defaultMemoryFile          = "~/.openclaw/workspace/MEMORY.md"
	defaultDaysToReview        = 2
	defaultMaxDailyEntries     = 5
	defaultMinSignalConfidence = 0.7
	defaultPruneThresholdDays  = 90

	defaultReportPath   = "/tmp/curator-report.json"
	defaultReportFormat = "json"

	defaultHistoryPath = "~/.memory-curator/history.db"
)

// Default returns a Config with every field populated.
// This is the single source of truth for default values.
func Default() *Config {
	return &Config{
		Curator: CuratorConfig{
			MemoryDir:           defaultMemoryDir,
			MemoryFile:          defaultMemoryFile,
			DaysToReview:        defaultDaysToReview,
			MaxDailyEntries:     defaultMaxDailyEntries,
			MinSignalConfidence: defaultMinSignalConfidence,
			PruneThresholdDays:  defaultPruneThresholdDays,
			Exclude:             []string{},
			AgentID:             model.DefaultAgentID,
		},
		Report: ReportConfig{
			Path:   defaultReportPath,
			Format: defaultReportFormat,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Log: LogConfig{
			Pretty: true,
		},
	}
}
