package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWrite_CreatesParents(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "my-button", "index.html")

	res, err := NewWriter().Write(dest, "<html></html>")
	require.NoError(t, err)
	require.Equal(t, ResultWritten, res)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(data))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestWrite_UnchangedIsSkipped(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "index.html")
	w := NewWriter()

	_, err := w.Write(dest, "same")
	require.NoError(t, err)
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(dest, old, old))

	res, err := w.Write(dest, "same")
	require.NoError(t, err)
	require.Equal(t, ResultUnchanged, res)
	info, err := os.Stat(dest)
	require.NoError(t, err)
	require.WithinDuration(t, old, info.ModTime(), time.Second)

	res, err = w.Write(dest, "different")
	require.NoError(t, err)
	require.Equal(t, ResultWritten, res)
	data, _ := os.ReadFile(dest)
	require.Equal(t, "different", string(data))
}

func TestWrite_Errors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewWriter().Write(filepath.Join(blocker, "index.html"), "content")
	require.Error(t, err)

	_, err = NewWriter().Write("", "content")
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	require.Equal(t, filepath.Join("_site", "my-button", "index.html"), CatalogPath("_site", "my-button"))

	p, err := PagePath("_site", "pages", filepath.Join("pages", "guides", "intro.md"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("_site", "guides", "intro.html"), p)

	p, err = PagePath("_site", "pages", filepath.Join("pages", "index.html"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("_site", "index.html"), p)

	_, err = PagePath("_site", "pages", filepath.Join("other", "x.md"))
	require.Error(t, err)

	require.Equal(t, "unchanged", ResultUnchanged.String())
}
