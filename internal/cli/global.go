// Package cli provides Cobra command definitions for histprune.
package cli

import (
	"sync"

	"github.com/spf13/cobra"
)

var (
	// ConfigPath is the config file given with --config.
	ConfigPath string

	// Verbose sends debug logs to stderr. Set by --verbose.
	Verbose bool

	// NoTUI disables the review screen and confirmation prompt.
	// Set by --no-tui.
	NoTUI bool

	// globalMutex protects the global flag values.
	globalMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&ConfigPath, "config", "",
		"config file (default ~/.config/histprune/config.toml)")
	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false,
		"write debug logs to stderr")
	cmd.PersistentFlags().BoolVar(&NoTUI, "no-tui", false,
		"disable interactive review and confirmation")
}

// GetConfigPath returns the --config value.
func GetConfigPath() string {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return ConfigPath
}

// IsVerbose returns true if --verbose was given.
func IsVerbose() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return Verbose
}

// IsNoTUI returns true if TUI mode is disabled.
func IsNoTUI() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return NoTUI
}
