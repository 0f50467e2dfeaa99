package history

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	hperrors "github.com/chazuruo/histprune/internal/errors"
)

// LoadExitCodes reads a sidecar file of "timestamp:exitcode" lines.
//
// Example:
//
//	1616420000:0
//	1616420100:127
//
// A missing file yields an empty map. Lines without a colon or with a
// non-integer exit code are skipped. Later entries for the same timestamp
// replace earlier ones.
func LoadExitCodes(path string) (ExitCodes, error) {
	codes := ExitCodes{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return codes, nil
		}
		return nil, &hperrors.HistoryError{Op: "load exit codes", Path: path, Err: hperrors.Join(hperrors.ErrIO, err)}
	}

	// Lines of any length are accepted; bad ones are skipped.
	for _, line := range bytes.Split(data, []byte("\n")) {
		timestamp, code, ok := parseExitLine(string(line))
		if ok {
			codes[timestamp] = code
		}
	}

	return codes, nil
}

// parseExitLine splits one sidecar line on its first colon.
func parseExitLine(line string) (string, int, bool) {
	line = strings.TrimSpace(line)
	timestamp, value, found := strings.Cut(line, ":")
	if !found {
		return "", 0, false
	}

	code, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "", 0, false
	}
	return timestamp, code, true
}
