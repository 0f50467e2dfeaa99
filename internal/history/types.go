// Package history parses zsh extended-history lines and their exit codes.
package history

import (
	"fmt"
	"strings"
)

// Record is a single line of a history file. Lines that do not match the
// extended-history format keep their Raw text and have an empty Command.
type Record struct {
	// Index is the 0-based line number within the file.
	Index int
	// Raw is the line exactly as read, without the trailing newline.
	Raw string
	// Timestamp is the epoch seconds field, kept as text for sidecar lookups.
	Timestamp string
	// Command is the trimmed command text.
	Command string
	// ExitCode is set when the line carried an inline exit marker.
	ExitCode *int
}

// HasCommand reports whether the line parsed to a command.
func (r Record) HasCommand() bool {
	return r.Command != ""
}

// ExitMode selects where exit codes are read from.
type ExitMode string

const (
	// ExitModeAuto reads an inline marker when present and falls back to the
	// sidecar file otherwise.
	ExitModeAuto ExitMode = "auto"
	// ExitModeSidecar reads exit codes only from the sidecar file.
	ExitModeSidecar ExitMode = "sidecar"
	// ExitModeInline reads exit codes only from inline ###EXIT: markers.
	ExitModeInline ExitMode = "inline"
)

// ParseExitMode converts a string to an ExitMode.
func ParseExitMode(s string) (ExitMode, error) {
	switch ExitMode(strings.ToLower(strings.TrimSpace(s))) {
	case ExitModeAuto, "":
		return ExitModeAuto, nil
	case ExitModeSidecar:
		return ExitModeSidecar, nil
	case ExitModeInline:
		return ExitModeInline, nil
	default:
		return "", fmt.Errorf("unsupported exit mode %q (supported: auto, sidecar, inline)", s)
	}
}

// ExitCodes maps a history timestamp to the exit code recorded for it.
type ExitCodes map[string]int
