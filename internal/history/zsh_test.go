package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		mode          ExitMode
		wantTimestamp string
		wantCommand   string
		wantExit      *int
	}{
		{
			name:          "valid line",
			line:          ": 1234567890:0;ls -la",
			mode:          ExitModeAuto,
			wantTimestamp: "1234567890",
			wantCommand:   "ls -la",
		},
		{
			name: "invalid line",
			line: "invalid line",
			mode: ExitModeAuto,
		},
		{
			name:          "command with surrounding spaces",
			line:          ": 1234567890:0;  git status  ",
			mode:          ExitModeAuto,
			wantTimestamp: "1234567890",
			wantCommand:   "git status",
		},
		{
			name: "missing leading space",
			line: ":1234567890:0;git status",
			mode: ExitModeAuto,
		},
		{
			name: "empty command",
			line: ": 1234567890:0;",
			mode: ExitModeAuto,
		},
		{
			name: "whitespace only command",
			line: ": 1234567890:0;   ",
			mode: ExitModeAuto,
		},
		{
			name:          "inline exit code",
			line:          ": 1234567890:0;git statsu###EXIT:1",
			mode:          ExitModeAuto,
			wantTimestamp: "1234567890",
			wantCommand:   "git statsu",
			wantExit:      intPtr(1),
		},
		{
			name:          "inline exit code zero with padding",
			line:          ": 1234567890:3;make build ###EXIT:0",
			mode:          ExitModeInline,
			wantTimestamp: "1234567890",
			wantCommand:   "make build",
			wantExit:      intPtr(0),
		},
		{
			name:          "inline exit code not an integer",
			line:          ": 1234567890:0;make build###EXIT:oops",
			mode:          ExitModeInline,
			wantTimestamp: "1234567890",
			wantCommand:   "make build",
		},
		{
			name:          "sidecar mode keeps marker text",
			line:          ": 1234567890:0;echo hi###EXIT:1",
			mode:          ExitModeSidecar,
			wantTimestamp: "1234567890",
			wantCommand:   "echo hi###EXIT:1",
		},
		{
			name: "marker only",
			line: ": 1234567890:0;###EXIT:2",
			mode: ExitModeInline,
		},
		{
			name: "marker only in auto mode",
			line: ": 1234567890:0;  ###EXIT:0",
			mode: ExitModeAuto,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ParseLine(7, tt.line, tt.mode)

			assert.Equal(t, 7, rec.Index)
			assert.Equal(t, tt.line, rec.Raw)
			assert.Equal(t, tt.wantTimestamp, rec.Timestamp)
			assert.Equal(t, tt.wantCommand, rec.Command)
			assert.Equal(t, tt.wantCommand != "", rec.HasCommand())
			if tt.wantExit == nil {
				assert.Nil(t, rec.ExitCode)
			} else {
				require.NotNil(t, rec.ExitCode)
				assert.Equal(t, *tt.wantExit, *rec.ExitCode)
			}
		})
	}
}

func TestParseLine_InvalidUTF8(t *testing.T) {
	raw := ": 1234567890:0;echo caf\xe9"
	rec := ParseLine(0, raw, ExitModeAuto)

	assert.Equal(t, "echo caf", rec.Command)
	assert.Equal(t, raw, rec.Raw, "raw text must be preserved byte for byte")
}

func TestParseLines(t *testing.T) {
	lines := []string{
		": 1:0;git status",
		"garbage",
		": 2:0;ls",
	}

	records := ParseLines(lines, ExitModeAuto)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, i, rec.Index)
	}
	assert.False(t, records[1].HasCommand())
	assert.Equal(t, "ls", records[2].Command)
}

func TestParseExitMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ExitMode
		wantErr bool
	}{
		{"", ExitModeAuto, false},
		{"auto", ExitModeAuto, false},
		{"Sidecar", ExitModeSidecar, false},
		{" inline ", ExitModeInline, false},
		{"fish", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExitMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadExitCodes(t *testing.T) {
	t.Run("valid exit codes", func(t *testing.T) {
		path := writeFile(t, "1234567890:0\n1234567891:1\n1234567892:127\n")

		codes, err := LoadExitCodes(path)
		require.NoError(t, err)
		assert.Equal(t, 0, codes["1234567890"])
		assert.Equal(t, 1, codes["1234567891"])
		assert.Equal(t, 127, codes["1234567892"])
	})

	t.Run("nonexistent file", func(t *testing.T) {
		codes, err := LoadExitCodes(filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Empty(t, codes)
	})

	t.Run("invalid entries are skipped", func(t *testing.T) {
		path := writeFile(t, "1234567890:0\ninvalid:line\n1234567891:abc\nno colon here\n")

		codes, err := LoadExitCodes(path)
		require.NoError(t, err)
		assert.Equal(t, ExitCodes{"1234567890": 0}, codes)
	})

	t.Run("last write wins", func(t *testing.T) {
		path := writeFile(t, "100:1\n100:0\n")

		codes, err := LoadExitCodes(path)
		require.NoError(t, err)
		assert.Equal(t, 0, codes["100"])
	})

	t.Run("oversized line is skipped", func(t *testing.T) {
		path := writeFile(t, "1:0\n"+strings.Repeat("x", 2<<20)+"\n2:1\n")

		codes, err := LoadExitCodes(path)
		require.NoError(t, err)
		assert.Equal(t, ExitCodes{"1": 0, "2": 1}, codes)
	})

	t.Run("splits on first colon only", func(t *testing.T) {
		path := writeFile(t, "100:1:2\n  200: 3 \n")

		codes, err := LoadExitCodes(path)
		require.NoError(t, err)
		assert.NotContains(t, codes, "100")
		assert.Equal(t, 3, codes["200"])
	})
}

func TestDetectPath(t *testing.T) {
	t.Setenv("HISTFILE", "/tmp/custom_history")

	path, err := DetectPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom_history", path)
}

func TestDetectPath_Fallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HISTFILE", "")
	t.Setenv("HOME", home)

	path, err := DetectPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".zsh_history"), path)

	alt := filepath.Join(home, ".zhistory")
	require.NoError(t, os.WriteFile(alt, []byte(": 1:0;ls\n"), 0600))

	path, err = DetectPath()
	require.NoError(t, err)
	assert.Equal(t, alt, path)
}

func TestDefaultExitPath(t *testing.T) {
	assert.Equal(t, "/home/u/.zsh_history_exits", DefaultExitPath("/home/u/.zsh_history"))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exits")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func intPtr(i int) *int { return &i }
