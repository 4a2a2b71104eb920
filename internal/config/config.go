// Package config loads and saves the curator configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/rcliao/memory-curator/internal/model"
	"github.com/rcliao/memory-curator/internal/report"
)

// Load unmarshals the effective configuration from v, expands ~ in paths and
// checks the report format. Range and existence checks happen in curator.New.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &model.Error{Kind: model.KindConfigInvalid, Op: "load config", Err: err}
	}

	cfg.Curator.MemoryDir = ExpandHome(cfg.Curator.MemoryDir)
	cfg.Curator.MemoryFile = ExpandHome(cfg.Curator.MemoryFile)
	cfg.Report.Path = ExpandHome(cfg.Report.Path)
	cfg.History.Path = ExpandHome(cfg.History.Path)
	cfg.Report.Format = strings.ToLower(cfg.Report.Format)

	if !report.ValidFormat(cfg.Report.Format) {
		return nil, model.Errorf(model.KindConfigInvalid, "load config", "",
			"report.format must be one of %v, got %q", report.Formats, cfg.Report.Format)
	}

	return cfg, nil
}

// Save writes cfg as TOML to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return buf.String(), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
