package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PageExtension is the extension of every rendered content file.
const PageExtension = ".html"

// CatalogPath returns <outDir>/<slug>/index.html.
func CatalogPath(outDir, slug string) string {
	return filepath.Join(outDir, slug, "index.html")
}

// PagePath mirrors src's position under pagesDir into outDir, replacing the
// extension with PageExtension. src must be inside pagesDir.
func PagePath(outDir, pagesDir, src string) (string, error) {
	rel, err := filepath.Rel(pagesDir, src)
	if err != nil {
		return "", fmt.Errorf("page %s: %w", src, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("page %s is outside %s", src, pagesDir)
	}
	name := strings.TrimSuffix(rel, filepath.Ext(rel)) + PageExtension
	return filepath.Join(outDir, name), nil
}
