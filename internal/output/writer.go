// Package output persists rendered pages under the output directory.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inful/mdfp"
)

// Result describes what Write did.
type Result int

const (
	// ResultWritten means the file was created or replaced.
	ResultWritten Result = iota
	// ResultUnchanged means the destination already held identical content.
	ResultUnchanged
)

func (r Result) String() string {
	switch r {
	case ResultWritten:
		return "written"
	case ResultUnchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// Writer writes files atomically. It is safe for concurrent use as long as
// no two callers target the same destination.
type Writer struct {
	dirMode  os.FileMode
	fileMode os.FileMode
}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{dirMode: 0o755, fileMode: 0o644}
}

// Fingerprint returns the content fingerprint used to detect unchanged output.
func Fingerprint(content string) string {
	return mdfp.CalculateFingerprintFromParts("", content)
}

// Write stores content at dest, creating parent directories as needed.
//
// The content goes to a temporary file in the destination directory which
// is then renamed into place, so dest is either the old or the new file and
// never a partial one. If dest already has the same fingerprint nothing is
// written.
func (w *Writer) Write(dest, content string) (Result, error) {
	if dest == "" {
		return ResultWritten, fmt.Errorf("output path is required")
	}

	// #nosec G304 -- dest is computed from the output directory.
	if existing, err := os.ReadFile(dest); err == nil && Fingerprint(string(existing)) == Fingerprint(content) {
		return ResultUnchanged, nil
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, w.dirMode); err != nil {
		return ResultWritten, fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return ResultWritten, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return ResultWritten, fmt.Errorf("write output file: %w", err)
	}
	if err := tmp.Chmod(w.fileMode); err != nil {
		_ = tmp.Close()
		cleanup()
		return ResultWritten, fmt.Errorf("chmod output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return ResultWritten, fmt.Errorf("close output file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return ResultWritten, fmt.Errorf("rename output file: %w", err)
	}
	return ResultWritten, nil
}
