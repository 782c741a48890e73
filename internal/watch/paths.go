package watch

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// Sources lists what a site build reads: directories (watched recursively)
// and single files (watched through their parent directory).
type Sources struct {
	Dirs  []string
	Files []string
	// Ignore holds directories whose events never trigger a rebuild.
	Ignore []string
}

// SourcesFor returns the sources of cfg. Missing directories are skipped.
func SourcesFor(cfg *config.Config) Sources {
	var s Sources
	seen := map[string]bool{}
	addDir := func(p string) {
		p = filepath.Clean(cfg.Resolve(p))
		if seen[p] {
			return
		}
		if st, err := os.Stat(p); err != nil || !st.IsDir() {
			return
		}
		seen[p] = true
		s.Dirs = append(s.Dirs, p)
	}

	addDir(cfg.IncludesDir)
	addDir(cfg.LayoutsDir)
	addDir(cfg.PagesDir)
	addDir(filepath.Dir(cfg.CatalogTemplate))
	for _, el := range cfg.Elements {
		if strings.HasPrefix(el.Location, "./") || strings.HasPrefix(el.Location, "../") {
			addDir(el.Location)
		}
	}

	if cfg.Path != "" {
		s.Files = append(s.Files, filepath.Clean(cfg.Path))
	}
	for _, name := range []string{".env", ".env.local"} {
		s.Files = append(s.Files, filepath.Join(cfg.Root, name))
	}
	s.Ignore = []string{filepath.Clean(cfg.Resolve(cfg.OutDir))}
	return s
}

func (s Sources) ignored(p string) bool {
	p = filepath.Clean(p)
	for _, dir := range s.Ignore {
		if p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relevant reports whether an event on p concerns a source.
func (s Sources) relevant(p string) bool {
	p = filepath.Clean(p)
	if s.ignored(p) || shouldIgnoreEvent(p) && !s.isFile(p) {
		return false
	}
	if s.isFile(p) {
		return true
	}
	for _, dir := range s.Dirs {
		if p == dir || strings.HasPrefix(p, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (s Sources) isFile(p string) bool {
	for _, f := range s.Files {
		if p == f {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	// Editor temp/swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
