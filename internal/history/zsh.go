package history

import (
	"regexp"
	"strconv"
	"strings"
)

// ExitMarker separates the command from its exit code in the inline format.
const ExitMarker = "###EXIT:"

// zshLineRegex matches the zsh extended history format: ": <ts>:<elapsed>;<command>".
var zshLineRegex = regexp.MustCompile(`^: (\d+):\d+;(.+)`)

// ParseLine parses one raw history line.
//
// Extended history format:
//
//	: 1616420000:0;git status
//	: 1616420100:0;git statsu###EXIT:1
//
// The second form is only honoured when mode is ExitModeInline or
// ExitModeAuto. Lines that do not match are returned with an empty Command.
func ParseLine(index int, raw string, mode ExitMode) Record {
	rec := Record{Index: index, Raw: raw}

	matches := zshLineRegex.FindStringSubmatch(strings.ToValidUTF8(raw, ""))
	if matches == nil {
		return rec
	}

	rest := matches[2]
	var exitCode *int
	if mode != ExitModeSidecar {
		if pos := strings.LastIndex(rest, ExitMarker); pos >= 0 {
			if code, err := strconv.Atoi(strings.TrimSpace(rest[pos+len(ExitMarker):])); err == nil {
				exitCode = &code
			}
			rest = rest[:pos]
		}
	}

	// A marker with no command is not a record.
	command := strings.TrimSpace(rest)
	if command == "" {
		return rec
	}

	rec.Timestamp = matches[1]
	rec.Command = command
	rec.ExitCode = exitCode
	return rec
}

// ParseLines parses every line, preserving order and indices.
func ParseLines(lines []string, mode ExitMode) []Record {
	records := make([]Record, len(lines))
	for i, line := range lines {
		records[i] = ParseLine(i, line, mode)
	}
	return records
}
