package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	hperrors "github.com/chazuruo/histprune/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HISTPRUNE_"

// DefaultConfigPath returns ~/.config/histprune/config.toml, whether or not
// it exists.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "histprune", "config.toml")
}

// DetectConfigPath returns DefaultConfigPath if the file exists, or an empty
// string if it does not (caller should use defaults).
func DetectConfigPath() string {
	configPath := DefaultConfigPath()
	if configPath == "" {
		return ""
	}
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}
	return ""
}

// Load loads a config from path on top of the defaults, applies environment
// overrides and expands ~ in paths. The result is not validated: callers
// apply their own overrides first and then call Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &hperrors.ConfigError{Path: path, Err: hperrors.Join(hperrors.ErrNotFound, err)}
		}
		return nil, &hperrors.ConfigError{Path: path, Err: hperrors.Join(hperrors.ErrIO, err)}
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &hperrors.ConfigError{Path: path, Err: hperrors.Join(hperrors.ErrInvalid, err)}
	}

	applyEnvOverrides(cfg)
	expandPaths(cfg)

	return cfg, nil
}

// LoadWithDefaults loads the config at DetectConfigPath, or the defaults
// with environment overrides applied when there is none.
func LoadWithDefaults() (*Config, error) {
	configPath := DetectConfigPath()
	if configPath == "" {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandPaths(cfg)
		return cfg, nil
	}

	return Load(configPath)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables follow the pattern: HISTPRUNE_<SECTION>_<FIELD>
//
// Examples:
// - HISTPRUNE_HISTORY_PATH overrides [history].path
// - HISTPRUNE_PRUNE_SIMILARITY overrides [prune].similarity
//
// Boolean fields accept true/false, 1/0, yes/no and on/off. Values that do
// not parse are ignored.
func applyEnvOverrides(c *Config) {
	applyString := func(key string, target *string) {
		if val, ok := os.LookupEnv(EnvPrefix + key); ok && val != "" {
			*target = val
		}
	}

	applyBool := func(key string, target *bool) {
		if val, ok := os.LookupEnv(EnvPrefix + key); ok && val != "" {
			switch strings.ToLower(val) {
			case "true", "1", "yes", "on":
				*target = true
			case "false", "0", "no", "off":
				*target = false
			}
		}
	}

	applyInt := func(key string, target *int) {
		if val, ok := os.LookupEnv(EnvPrefix + key); ok && val != "" {
			if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				*target = i
			}
		}
	}

	applyFloat := func(key string, target *float64) {
		if val, ok := os.LookupEnv(EnvPrefix + key); ok && val != "" {
			if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
				*target = f
			}
		}
	}

	// History section
	applyString("HISTORY_PATH", &c.History.Path)
	applyString("HISTORY_EXIT_PATH", &c.History.ExitPath)
	applyString("HISTORY_EXIT_MODE", &c.History.ExitMode)
	applyString("HISTORY_BACKUP_SUFFIX", &c.History.BackupSuffix)

	// Prune section
	applyFloat("PRUNE_SIMILARITY", &c.Prune.Similarity)
	applyInt("PRUNE_RARE_THRESHOLD", &c.Prune.RareThreshold)
	applyBool("PRUNE_REMOVE_RARE", &c.Prune.RemoveRare)
	applyBool("PRUNE_CONFIRM", &c.Prune.Confirm)

	// Output section
	applyString("OUTPUT_FORMAT", &c.Output.Format)
	applyBool("OUTPUT_QUIET", &c.Output.Quiet)
	applyInt("OUTPUT_SAMPLE_SIZE", &c.Output.SampleSize)

	// Log section
	applyString("LOG_FILE", &c.Log.File)
	applyString("LOG_LEVEL", &c.Log.Level)
	applyString("LOG_FORMAT", &c.Log.Format)
	applyInt("LOG_MAX_SIZE_MB", &c.Log.MaxSizeMB)
	applyInt("LOG_MAX_BACKUPS", &c.Log.MaxBackups)
}

// expandPaths expands a leading ~ in every path field.
func expandPaths(c *Config) {
	c.History.Path = ExpandHome(c.History.Path)
	c.History.ExitPath = ExpandHome(c.History.ExitPath)
	c.Log.File = ExpandHome(c.Log.File)
}

// ExpandHome replaces a leading "~" or "~/" in path with the home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) (string, error) {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.String(), nil
}
