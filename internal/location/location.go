// Package location parses element location strings.
//
// A location is either a local filesystem path or a repository coordinate:
//
//	./elements/x-button        local path (also ../x, /x, ~/x, file:x)
//	acme/x-button              github.com coordinate
//	github:acme/x-button#v2    github.com coordinate pinned to ref v2
//	https://host/acme/x-button.git
//	git@host:acme/x-button.git
package location

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DefaultHost is assumed for shorthand coordinates.
const DefaultHost = "github.com"

// Location is a parsed location string.
type Location struct {
	Raw       string
	LocalPath string
	Host      string
	Owner     string
	Repo      string
	Ref       string
}

// IsLocal reports whether the location names a local path.
func (l Location) IsLocal() bool { return l.LocalPath != "" }

// IsRepository reports whether the location names a repository coordinate.
func (l Location) IsRepository() bool { return l.Owner != "" && l.Repo != "" }

// CloneURL returns the HTTPS clone URL for a repository coordinate.
func (l Location) CloneURL() string {
	if !l.IsRepository() {
		return ""
	}
	return fmt.Sprintf("https://%s/%s/%s.git", l.Host, l.Owner, l.Repo)
}

// String returns the canonical form of the location.
func (l Location) String() string {
	switch {
	case l.IsLocal():
		return l.LocalPath
	case l.IsRepository():
		s := l.Host + "/" + l.Owner + "/" + l.Repo
		if l.Ref != "" {
			s += "#" + l.Ref
		}
		return s
	default:
		return ""
	}
}

// Parse parses a location string. An empty string yields the zero Location.
func Parse(raw string) (Location, error) {
	s := strings.TrimSpace(raw)
	loc := Location{Raw: raw}
	if s == "" {
		return loc, nil
	}

	switch {
	case strings.HasPrefix(s, "file:"):
		loc.LocalPath = strings.TrimPrefix(strings.TrimPrefix(s, "file:"), "//")
		return loc, nonEmptyPath(loc)
	case strings.HasPrefix(s, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return loc, fmt.Errorf("location %q: resolve home directory: %w", raw, err)
		}
		loc.LocalPath = filepath.Join(home, s[2:])
		return loc, nil
	case strings.HasPrefix(s, "./"), strings.HasPrefix(s, "../"), strings.HasPrefix(s, "/"), s == ".", s == "..":
		loc.LocalPath = s
		return loc, nil
	}

	s, loc.Ref = cutRef(s)

	switch {
	case strings.HasPrefix(s, "github:"):
		return coordinate(loc, DefaultHost, strings.TrimPrefix(s, "github:"))
	case strings.HasPrefix(s, "git@"):
		hostAndPath := strings.TrimPrefix(s, "git@")
		host, p, ok := strings.Cut(hostAndPath, ":")
		if !ok || host == "" {
			return loc, fmt.Errorf("location %q: expected git@host:owner/repo", raw)
		}
		return coordinate(loc, host, p)
	case strings.Contains(s, "://"):
		u, err := url.Parse(s)
		if err != nil {
			return loc, fmt.Errorf("location %q: %w", raw, err)
		}
		if u.Host == "" {
			return loc, fmt.Errorf("location %q: missing host", raw)
		}
		if u.Fragment != "" && loc.Ref == "" {
			loc.Ref = u.Fragment
		}
		return coordinate(loc, u.Host, strings.TrimPrefix(u.Path, "/"))
	case strings.Count(s, "/") == 1:
		return coordinate(loc, DefaultHost, s)
	default:
		return loc, fmt.Errorf("location %q: not a local path or owner/repo coordinate", raw)
	}
}

func cutRef(s string) (string, string) {
	if before, after, ok := strings.Cut(s, "#"); ok {
		return before, after
	}
	return s, ""
}

func coordinate(loc Location, host, p string) (Location, error) {
	p = strings.TrimSuffix(strings.Trim(p, "/"), ".git")
	owner, repo, ok := strings.Cut(p, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return loc, fmt.Errorf("location %q: expected owner/repo, got %q", loc.Raw, p)
	}
	loc.Host = host
	loc.Owner = owner
	loc.Repo = repo
	return loc, nil
}

func nonEmptyPath(loc Location) error {
	if loc.LocalPath == "" {
		return fmt.Errorf("location %q: empty path", loc.Raw)
	}
	return nil
}
