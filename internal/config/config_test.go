package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-curator/internal/model"
)

func TestDefaults(t *testing.T) {
	v, err := InitViper(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("init viper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	c := cfg.CuratorConfig()
	if c.DaysToReview != 2 || c.MaxDailyEntries != 5 || c.MinSignalConfidence != 0.7 || c.PruneThresholdDays != 90 {
		t.Errorf("unexpected curator defaults: %+v", c)
	}
	if c.AgentID != model.DefaultAgentID {
		t.Errorf("expected agent id %q, got %q", model.DefaultAgentID, c.AgentID)
	}
	if strings.HasPrefix(c.MemoryDir, "~") || !strings.HasSuffix(c.MemoryDir, filepath.Join(".openclaw", "workspace", "memory")) {
		t.Errorf("expected expanded memory dir, got %q", c.MemoryDir)
	}
	if cfg.Report.Path != "/tmp/curator-report.json" || cfg.Report.Format != "json" {
		t.Errorf("unexpected report defaults: %+v", cfg.Report)
	}
	if !cfg.History.Enabled {
		t.Error("expected history enabled by default")
	}
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[curator]
memory_dir = "/data/memory"
days_to_review = 7
exclude = ["archive/**"]

[report]
format = "yaml"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CURATOR_CURATOR_MAX_DAILY_ENTRIES", "9")

	v, err := InitViper(path)
	if err != nil {
		t.Fatalf("init viper: %v", err)
	}

	cmd := &cobra.Command{Use: "run"}
	AddFlags(cmd, FlagDays, FlagConfidence)
	if err := cmd.Flags().Parse([]string{"--confidence", "0.5"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	BindFlags(v, cmd, FlagDays, FlagConfidence)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Curator.MemoryDir != "/data/memory" {
		t.Errorf("expected file value, got %q", cfg.Curator.MemoryDir)
	}
	if cfg.Curator.DaysToReview != 7 {
		t.Errorf("expected unset flag to keep file value 7, got %d", cfg.Curator.DaysToReview)
	}
	if cfg.Curator.MaxDailyEntries != 9 {
		t.Errorf("expected env value 9, got %d", cfg.Curator.MaxDailyEntries)
	}
	if cfg.Curator.MinSignalConfidence != 0.5 {
		t.Errorf("expected flag value 0.5, got %v", cfg.Curator.MinSignalConfidence)
	}
	if !slices.Equal(cfg.Curator.Exclude, []string{"archive/**"}) {
		t.Errorf("unexpected exclude %v", cfg.Curator.Exclude)
	}
	if cfg.Report.Format != "yaml" {
		t.Errorf("expected yaml, got %q", cfg.Report.Format)
	}
}

func TestLoad_BadFormat(t *testing.T) {
	t.Setenv("CURATOR_REPORT_FORMAT", "xml")
	v, err := InitViper(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("init viper: %v", err)
	}
	_, err = Load(v)
	if model.KindOf(err) != model.KindConfigInvalid {
		t.Errorf("expected KindConfigInvalid, got %v", err)
	}
}

func TestInitViper_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[curator\nbroken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := InitViper(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Curator.MemoryDir = "/srv/notes"
	cfg.Curator.Exclude = []string{"drafts/**"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	v, err := InitViper(path)
	if err != nil {
		t.Fatalf("init viper: %v", err)
	}
	got, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Curator.MemoryDir != "/srv/notes" || !slices.Equal(got.Curator.Exclude, []string{"drafts/**"}) {
		t.Errorf("unexpected round trip: %+v", got.Curator)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	tests := map[string]string{
		"~":          home,
		"~/notes":    filepath.Join(home, "notes"),
		"/abs/path":  "/abs/path",
		"~other/dir": "~other/dir",
	}
	for in, want := range tests {
		if got := ExpandHome(in); got != want {
			t.Errorf("ExpandHome(%q): expected %q, got %q", in, want, got)
		}
	}
}
