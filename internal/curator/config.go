package curator

import (
	"os"
	"time"

	"github.com/rcliao/memory-curator/internal/model"
)

// Config is the resolved configuration of a curation pass.
type Config struct {
	MemoryDir           string
	DaysToReview        int
	MemoryFile          string
	MaxDailyEntries     int
	MinSignalConfidence float64
	PruneThresholdDays  int

	// Exclude holds glob patterns of notes to skip while scanning.
	Exclude []string
	AgentID string
}

// PruneCutoff is the instant before which memory entries are pruned.
func (c Config) PruneCutoff(now time.Time) time.Time {
	return daysBefore(now, c.PruneThresholdDays)
}

// daysBefore steps back whole UTC days. Unlike a time.Duration it cannot
// overflow for large day counts.
func daysBefore(now time.Time, days int) time.Time {
	return now.UTC().AddDate(0, 0, -days)
}

// Validate checks value ranges and that both configured paths exist.
func (c Config) Validate() error {
	const op = "validate config"

	switch {
	case c.DaysToReview <= 0:
		return model.Errorf(model.KindConfigInvalid, op, "", "days_to_review must be positive, got %d", c.DaysToReview)
	case c.MaxDailyEntries < 0:
		return model.Errorf(model.KindConfigInvalid, op, "", "max_daily_entries must not be negative, got %d", c.MaxDailyEntries)
	case !(c.MinSignalConfidence >= 0 && c.MinSignalConfidence <= 1):
		return model.Errorf(model.KindConfigInvalid, op, "", "min_signal_confidence must be within [0, 1], got %v", c.MinSignalConfidence)
	case c.PruneThresholdDays <= 0:
		return model.Errorf(model.KindConfigInvalid, op, "", "prune_threshold_days must be positive, got %d", c.PruneThresholdDays)
	}

	for _, p := range []string{c.MemoryDir, c.MemoryFile} {
		if p == "" {
			return model.Errorf(model.KindConfigInvalid, op, "", "memory_dir and memory_file are required")
		}
		if _, err := os.Stat(p); err != nil {
			kind := model.KindIO
			if os.IsNotExist(err) {
				kind = model.KindPathNotFound
			}
			return &model.Error{Kind: kind, Op: op, Path: p, Err: err}
		}
	}

	return nil
}
