// Package cli provides tests for CLI commands.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/histprune/internal/config"
	hperrors "github.com/chazuruo/histprune/internal/errors"
	"github.com/chazuruo/histprune/internal/testutil"
)

// TestMain points HOME at an empty directory so a developer's own config
// and history never leak into the tests.
func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "histprune-cli-home-*")
	if err != nil {
		panic(err)
	}
	os.Setenv("HOME", home)
	os.Unsetenv("HISTFILE")

	code := m.Run()
	os.RemoveAll(home)
	os.Exit(code)
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01", BuiltBy: "test"})
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func dupHistory(t *testing.T) string {
	t.Helper()
	return testutil.WriteHistory(t, ": 1:0;git status###EXIT:0", ": 2:0;git status###EXIT:0", ": 3:0;ls")
}

func TestClean_DryRun(t *testing.T) {
	path := dupHistory(t)
	before := testutil.ReadFile(t, path)

	out, err := execute(t, "--file", path, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "Would remove: 1")
	assert.Contains(t, out, "Duplicate")
	assert.Equal(t, before, testutil.ReadFile(t, path))
	_, statErr := os.Stat(path + ".backup")
	assert.True(t, os.IsNotExist(statErr))
}

func TestClean_Rewrites(t *testing.T) {
	path := dupHistory(t)

	out, err := execute(t, "--file", path, "--backup-suffix", ".orig")
	require.NoError(t, err)

	assert.Contains(t, out, "Created backup: "+path+".orig")
	assert.Contains(t, out, "Removed: 1")
	assert.Equal(t, ": 1:0;git status###EXIT:0\n: 3:0;ls\n", testutil.ReadFile(t, path))
	assert.Equal(t, 3, strings.Count(testutil.ReadFile(t, path+".orig"), "\n"))
}

func TestClean_Quiet(t *testing.T) {
	path := dupHistory(t)

	out, err := execute(t, "--file", path, "-q")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 2, strings.Count(testutil.ReadFile(t, path), "\n"))
}

func TestClean_Precedence(t *testing.T) {
	t.Run("env beats file", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		cfgPath := filepath.Join(home, "custom.toml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("[output]\nformat = \"yaml\"\n"), 0644))
		t.Setenv("HISTPRUNE_OUTPUT_FORMAT", "json")

		out, err := execute(t, "--config", cfgPath, "--file", dupHistory(t), "--dry-run")
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, float64(1), decoded["removed"])
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv("HISTPRUNE_OUTPUT_FORMAT", "json")

		out, err := execute(t, "--file", dupHistory(t), "--dry-run", "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "removed: 1")
	})

	t.Run("unset flag keeps config value", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		cfgPath := filepath.Join(home, "custom.toml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("[prune]\nsimilarity = 0.95\n"), 0644))

		path := testutil.WriteHistory(t,
			": 1:0;git status###EXIT:0",
			": 2:0;git status###EXIT:0",
			": 3:0;git statsu###EXIT:1",
		)

		out, err := execute(t, "--config", cfgPath, "--file", path, "--dry-run")
		require.NoError(t, err)
		assert.NotContains(t, out, "Failed similar")

		out, err = execute(t, "--config", cfgPath, "--file", path, "--dry-run", "--similarity", "0.8")
		require.NoError(t, err)
		assert.Contains(t, out, "Failed similar to 'git status'")
	})
}

func TestClean_RemoveRare(t *testing.T) {
	lines := make([]string, 0, 22)
	for i := 0; i < 20; i++ {
		lines = append(lines, ": 1:0;git status###EXIT:0")
	}
	lines = append(lines, ": 2:0;git stauts###EXIT:0")
	path := testutil.WriteHistory(t, lines...)

	out, err := execute(t, "--file", path, "--dry-run", "--remove-rare")
	require.NoError(t, err)
	assert.Contains(t, out, "Rare variant of 'git status'")

	out, err = execute(t, "--file", path, "--dry-run", "--remove-rare", "--rare-threshold", "0")
	require.NoError(t, err)
	assert.NotContains(t, out, "Rare variant")
}

func TestClean_SidecarMode(t *testing.T) {
	path := testutil.WriteHistory(t, ": 1:0;git status", ": 2:0;git statsu", ": 3:0;git status")
	exits := filepath.Join(t.TempDir(), "exits")
	testutil.WriteFile(t, exits, "1:0\n2:1\n3:0\n")

	out, err := execute(t, "--file", path, "--exit-file", exits, "--exit-mode", "sidecar", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Failed similar to 'git status'")
	assert.Contains(t, out, "Would remove: 2")
}

func TestClean_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		invalid bool
	}{
		{name: "similarity out of range", args: []string{"--similarity", "1.5"}, invalid: true},
		{name: "unknown exit mode", args: []string{"--exit-mode", "fish"}, invalid: true},
		{name: "unknown format", args: []string{"--format", "xml"}, invalid: true},
		{name: "review without tui", args: []string{"--review", "--no-tui"}, invalid: true},
		{name: "confirm without tui", args: []string{"--no-tui"}, env: map[string]string{"HISTPRUNE_PRUNE_CONFIRM": "true"}, invalid: true},
		{name: "positional args", args: []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := dupHistory(t)
			before := testutil.ReadFile(t, path)

			_, err := execute(t, append([]string{"--file", path}, tt.args...)...)
			require.Error(t, err)
			if tt.invalid {
				assert.True(t, hperrors.IsInvalid(err), "error %v should wrap ErrInvalid", err)
			}
			assert.Equal(t, before, testutil.ReadFile(t, path))
		})
	}

	t.Run("missing history file", func(t *testing.T) {
		_, err := execute(t, "--file", filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.True(t, hperrors.IsNotFound(err))
		assert.Contains(t, err.Error(), "hint: pass --file or set $HISTFILE")
	})

	t.Run("malformed config file", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("[prune\n"), 0644))

		_, err := execute(t, "--config", cfgPath, "--file", dupHistory(t))
		require.Error(t, err)
		assert.True(t, hperrors.IsInvalid(err))
		assert.Contains(t, err.Error(), "hint: fix "+cfgPath)
	})
}

func TestClean_FlagRepairsOutOfRangeSetting(t *testing.T) {
	t.Run("env value overridden by flag", func(t *testing.T) {
		t.Setenv("HISTPRUNE_PRUNE_SIMILARITY", "1.5")

		out, err := execute(t, "--file", dupHistory(t), "--dry-run", "--similarity", "0.7")
		require.NoError(t, err)
		assert.Contains(t, out, "Would remove: 1")
	})

	t.Run("file value overridden by flag", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "custom.toml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("[prune]\nrare_threshold = -1\n"), 0644))

		_, err := execute(t, "--config", cfgPath, "--file", dupHistory(t), "--dry-run", "--rare-threshold", "2")
		require.NoError(t, err)
	})

	t.Run("env value without flag", func(t *testing.T) {
		t.Setenv("HISTPRUNE_PRUNE_SIMILARITY", "1.5")

		_, err := execute(t, "--file", dupHistory(t), "--dry-run")
		require.Error(t, err)
		assert.True(t, hperrors.IsInvalid(err))
	})
}

func TestClean_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "histprune.log")
	t.Setenv("HISTPRUNE_LOG_FILE", logPath)
	path := dupHistory(t)

	_, err := execute(t, "--file", path, "--yes")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	log := string(data)
	assert.Contains(t, log, "starting clean")
	assert.Contains(t, log, `msg="cleaned history"`)
	assert.Contains(t, log, "removed=1")
	assert.Contains(t, log, "backup="+path+".backup")
	assert.NotContains(t, log, "level=DEBUG", "default level is info")
}

func TestClean_LogFileRecordsFailure(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "histprune.log")
	t.Setenv("HISTPRUNE_LOG_FILE", logPath)

	_, err := execute(t, "--file", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=ERROR")
	assert.Contains(t, string(data), `msg="clean failed"`)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "canceled", err: hperrors.ErrCanceled, want: "canceled"},
		{name: "wrapped cancel", err: hperrors.Join(hperrors.ErrCanceled, context.Canceled), want: "canceled"},
		{name: "other", err: hperrors.Wrap(hperrors.ErrIO, "write report"), want: "write report: I/O error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestClean_ConfirmSkippedWithYes(t *testing.T) {
	t.Setenv("HISTPRUNE_PRUNE_CONFIRM", "true")
	path := dupHistory(t)

	_, err := execute(t, "--file", path, "--no-tui", "--yes")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(testutil.ReadFile(t, path), "\n"))
}

func TestVersion(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		out, err := execute(t, "version")
		require.NoError(t, err)
		assert.Contains(t, out, "histprune version 1.2.3")
		assert.Contains(t, out, "commit: abc123")
		assert.Contains(t, out, "built by: test")
	})

	t.Run("short", func(t *testing.T) {
		out, err := execute(t, "version", "--short")
		require.NoError(t, err)
		assert.Equal(t, "1.2.3\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "version", "--json")
		require.NoError(t, err)

		var info VersionInfo
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.Equal(t, "1.2.3", info.Version)
		assert.NotEmpty(t, info.Go)
	})
}

func TestConfigCommand(t *testing.T) {
	t.Run("show effective config", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("HISTPRUNE_PRUNE_RARE_THRESHOLD", "9")

		out, err := execute(t, "config")
		require.NoError(t, err)
		assert.Contains(t, out, "[prune]")
		assert.Contains(t, out, "rare_threshold = 9")
	})

	t.Run("init writes defaults once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sub", "config.toml")

		out, err := execute(t, "config", "--init", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Wrote "+path)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig(), cfg)

		_, err = execute(t, "config", "--init", "--config", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")

		_, err = execute(t, "config", "--init", "--force", "--config", path)
		require.NoError(t, err)
	})

	t.Run("init at default path", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		_, err := execute(t, "config", "--init")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(home, ".config", "histprune", "config.toml"))
	})
}
