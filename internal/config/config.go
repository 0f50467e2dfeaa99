// Package config provides configuration management for histprune.
//
// The configuration is stored in TOML format and supports validation
// and default values for all fields.
package config

import (
	"fmt"

	hperrors "github.com/chazuruo/histprune/internal/errors"
	"github.com/chazuruo/histprune/internal/history"
	"github.com/chazuruo/histprune/internal/historyfile"
	"github.com/chazuruo/histprune/internal/prune"
)

// Config is the top-level configuration struct for histprune.
type Config struct {
	History HistoryConfig `toml:"history"`
	Prune   PruneConfig   `toml:"prune"`
	Output  OutputConfig  `toml:"output"`
	Log     LogConfig     `toml:"log"`
}

// HistoryConfig locates the history file and its exit codes.
type HistoryConfig struct {
	// Path is the zsh history file. Empty means $HISTFILE or the first of
	// ~/.zsh_history, ~/.zhistory, ~/.histfile that exists.
	Path string `toml:"path"`

	// ExitPath is the sidecar exit code file. Empty means Path + "_exits".
	ExitPath string `toml:"exit_path"`

	// ExitMode selects where exit codes come from.
	// Valid values: "auto", "sidecar", "inline".
	ExitMode string `toml:"exit_mode"`

	// BackupSuffix is appended to Path to name the backup (default: ".backup").
	BackupSuffix string `toml:"backup_suffix"`
}

// PruneConfig tunes the removal strategies.
type PruneConfig struct {
	// Similarity is the minimum similarity score, between 0 and 1.
	Similarity float64 `toml:"similarity"`

	// RareThreshold is the largest occurrence count treated as rare.
	RareThreshold int `toml:"rare_threshold"`

	// RemoveRare enables removal of rare variants.
	RemoveRare bool `toml:"remove_rare"`

	// Confirm prompts before the history file is rewritten.
	Confirm bool `toml:"confirm"`
}

// OutputConfig controls the report.
type OutputConfig struct {
	// Format is the report format.
	// Valid values: "text", "json", "yaml".
	Format string `toml:"format"`

	// Quiet suppresses the report unless running dry.
	Quiet bool `toml:"quiet"`

	// SampleSize caps the number of removal samples listed.
	SampleSize int `toml:"sample_size"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// File enables a rotated log file at this path.
	File string `toml:"file"`

	// Level is the minimum level logged.
	// Valid values: "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// Format is the log line format.
	// Valid values: "text", "json".
	Format string `toml:"format"`

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `toml:"max_backups"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	settings := prune.DefaultSettings()

	return &Config{
		History: HistoryConfig{
			Path:         "",
			ExitPath:     "",
			ExitMode:     string(history.ExitModeAuto),
			BackupSuffix: historyfile.DefaultBackupSuffix,
		},
		Prune: PruneConfig{
			Similarity:    settings.Similarity,
			RareThreshold: settings.RareThreshold,
			RemoveRare:    settings.RemoveRare,
			Confirm:       false,
		},
		Output: OutputConfig{
			Format:     "text",
			Quiet:      false,
			SampleSize: 20,
		},
		Log: LogConfig{
			File:       "",
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Settings returns the strategy settings described by the [prune] section.
func (c *Config) Settings() prune.Settings {
	return prune.Settings{
		Similarity:    c.Prune.Similarity,
		RareThreshold: c.Prune.RareThreshold,
		RemoveRare:    c.Prune.RemoveRare,
	}
}

// Validate checks the configuration for valid values.
// The returned error wraps errors.ErrInvalid.
func (c *Config) Validate() error {
	// History section
	if _, err := history.ParseExitMode(c.History.ExitMode); err != nil {
		return invalid("history.exit_mode must be one of: auto, sidecar, inline; got %q", c.History.ExitMode)
	}
	if c.History.BackupSuffix == "" {
		return invalid("history.backup_suffix cannot be empty")
	}

	// Prune section
	if c.Prune.Similarity < 0 || c.Prune.Similarity > 1 {
		return invalid("prune.similarity must be between 0 and 1; got %v", c.Prune.Similarity)
	}
	if c.Prune.RareThreshold < 0 {
		return invalid("prune.rare_threshold must be >= 0; got %d", c.Prune.RareThreshold)
	}

	// Output section
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
	}
	if !validFormats[c.Output.Format] {
		return invalid("output.format must be one of: text, json, yaml; got %q", c.Output.Format)
	}
	if c.Output.SampleSize < 0 {
		return invalid("output.sample_size must be >= 0; got %d", c.Output.SampleSize)
	}

	// Log section
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return invalid("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be one of: text, json; got %q", c.Log.Format)
	}
	if c.Log.MaxSizeMB < 1 {
		return invalid("log.max_size_mb must be >= 1; got %d", c.Log.MaxSizeMB)
	}
	if c.Log.MaxBackups < 0 {
		return invalid("log.max_backups must be >= 0; got %d", c.Log.MaxBackups)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", hperrors.ErrInvalid, fmt.Sprintf(format, args...))
}
