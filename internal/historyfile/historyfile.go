// Package historyfile reads and rewrites history files without decoding them.
package historyfile

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	hperrors "github.com/chazuruo/histprune/internal/errors"
)

// DefaultBackupSuffix is appended to the history path to name the backup.
const DefaultBackupSuffix = ".backup"

// Marked reports whether a line index is to be dropped.
type Marked interface {
	Has(line int) bool
}

// Read returns the lines of path as raw strings, split on '\n'. A trailing
// newline does not produce an empty final line.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &hperrors.HistoryError{Op: "read", Path: path, Err: hperrors.Join(hperrors.ErrNotFound, err)}
		}
		return nil, &hperrors.HistoryError{Op: "read", Path: path, Err: hperrors.Join(hperrors.ErrIO, err)}
	}
	return SplitLines(data), nil
}

// SplitLines splits data on '\n', dropping the empty element a trailing
// newline would leave behind.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))

	parts := bytes.Split(data, []byte("\n"))
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = string(p)
	}
	return lines
}

// BackupPath returns where Backup writes for path and suffix.
func BackupPath(path, suffix string) string {
	if suffix == "" {
		suffix = DefaultBackupSuffix
	}
	return path + suffix
}

// Backup copies path byte for byte to BackupPath(path, suffix), keeping the
// original file mode. An existing backup is replaced.
func Backup(path, suffix string) (string, error) {
	dest := BackupPath(path, suffix)

	src, err := os.Open(path)
	if err != nil {
		return "", backupError(path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", backupError(path, err)
	}

	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", backupError(dest, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", backupError(dest, err)
	}
	if err := dst.Close(); err != nil {
		return "", backupError(dest, err)
	}

	// OpenFile leaves the mode of an existing file alone.
	if err := os.Chmod(dest, info.Mode().Perm()); err != nil {
		return "", backupError(dest, err)
	}

	return dest, nil
}

// Rewrite replaces path with the lines not in removed, in their original
// order, each followed by '\n'. The new content goes to a temporary file in
// the same directory which is then renamed over path, so readers never see a
// partial file. It returns the number of lines written.
func Rewrite(path string, lines []string, removed Marked) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, rewriteError(path, err)
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.New().String()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return 0, rewriteError(path, err)
	}

	kept, err := writeKept(f, lines, removed)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, info.Mode().Perm())
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, rewriteError(path, err)
	}

	return kept, nil
}

func writeKept(w io.Writer, lines []string, removed Marked) (int, error) {
	bw := bufio.NewWriter(w)
	kept := 0
	for i, line := range lines {
		if removed != nil && removed.Has(i) {
			continue
		}
		if _, err := bw.WriteString(line); err != nil {
			return kept, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return kept, err
		}
		kept++
	}
	return kept, bw.Flush()
}

func backupError(path string, err error) error {
	if os.IsNotExist(err) {
		return &hperrors.HistoryError{Op: "backup", Path: path, Err: hperrors.Join(hperrors.ErrNotFound, err)}
	}
	return &hperrors.HistoryError{Op: "backup", Path: path, Err: hperrors.Join(hperrors.ErrIO, err)}
}

func rewriteError(path string, err error) error {
	return &hperrors.HistoryError{Op: "rewrite", Path: path, Err: hperrors.Join(hperrors.ErrIO, err)}
}
