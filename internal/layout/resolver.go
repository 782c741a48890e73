package layout

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

// DefaultMaxDepth bounds chain length independently of cycle detection.
const DefaultMaxDepth = 64

// Options configures a Resolver.
type Options struct {
	// Root is the directory relative paths resolve against.
	Root string
	// LayoutsDir holds layout files, relative to Root. Defaults to "layouts".
	LayoutsDir string
	// Extension is appended to layout names. Defaults to ".html".
	Extension string
	// MaxDepth bounds the number of records. Defaults to DefaultMaxDepth.
	MaxDepth int
}

// Resolver builds layout chains. It holds no per-chain state and is safe for concurrent use.
type Resolver struct {
	root       string
	layoutsDir string
	ext        string
	maxDepth   int
}

// NewResolver creates a Resolver.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		root:       opts.Root,
		layoutsDir: opts.LayoutsDir,
		ext:        opts.Extension,
		maxDepth:   opts.MaxDepth,
	}
	if r.layoutsDir == "" {
		r.layoutsDir = "layouts"
	}
	if r.ext == "" {
		r.ext = ".html"
	}
	if r.maxDepth <= 0 {
		r.maxDepth = DefaultMaxDepth
	}
	return r
}

// LayoutPath returns the path of the named layout.
func (r *Resolver) LayoutPath(name string) string {
	return path.Join(filepath.ToSlash(r.layoutsDir), name+r.ext)
}

// Resolve reads filePath and every layout it transitively declares.
func (r *Resolver) Resolve(ctx context.Context, filePath string) (Chain, error) {
	var chain Chain
	visited := map[string]bool{r.key(filePath): true}
	current, via := filePath, ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(chain) >= r.maxDepth {
			return nil, errors.CyclicLayoutError(fmt.Sprintf("layout chain exceeds %d files", r.maxDepth)).
				WithContext("path", filePath).
				WithContext("chain", chain.String()).
				Build()
		}

		rec, err := r.read(current, via)
		if err != nil {
			return nil, err
		}
		chain = append(chain, rec)

		name, ok, err := parentName(rec)
		if err != nil {
			return nil, err
		}
		if !ok {
			return chain, nil
		}

		next := r.LayoutPath(name)
		if visited[r.key(next)] {
			return nil, errors.CyclicLayoutError(fmt.Sprintf("layout %q is already part of the chain", name)).
				WithContext("path", filePath).
				WithContext("chain", chain.String()+" -> "+name).
				Build()
		}
		visited[r.key(next)] = true
		current, via = next, name
	}
}

func (r *Resolver) read(p, via string) (Record, error) {
	data, err := os.ReadFile(r.resolve(p))
	if err != nil {
		what := "content file not found"
		if via != "" {
			what = fmt.Sprintf("layout %q not found", via)
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return Record{}, errors.NotFoundError(what).WithContext("path", p).WithCause(err).Build()
		}
		return Record{}, errors.FileSystemError("failed to read template").WithContext("path", p).WithCause(err).Build()
	}

	doc, err := frontmatter.Parse(data)
	if err != nil {
		return Record{}, errors.MalformedFrontMatterError("malformed front matter").
			WithContext("path", p).WithCause(err).Build()
	}
	return Record{Path: p, Layout: via, Attributes: doc.Attributes, Body: doc.Body}, nil
}

// parentName returns the declared layout. Empty and null values end the chain.
func parentName(rec Record) (string, bool, error) {
	v, ok := rec.Attributes.Get(LayoutKey)
	if !ok || v == nil {
		return "", false, nil
	}
	switch name := v.(type) {
	case string:
		name = strings.TrimSpace(name)
		if name == "" {
			return "", false, nil
		}
		if path.IsAbs(name) || strings.Contains(name, "\\") || containsDotDot(name) {
			return "", false, errors.MalformedFrontMatterError(fmt.Sprintf("invalid layout name %q", name)).
				WithContext("path", rec.Path).Build()
		}
		return name, true, nil
	case bool:
		if !name {
			return "", false, nil
		}
	}
	return "", false, errors.MalformedFrontMatterError(fmt.Sprintf("layout must be a string, got %T", v)).
		WithContext("path", rec.Path).Build()
}

func containsDotDot(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func (r *Resolver) resolve(p string) string {
	if filepath.IsAbs(p) || r.root == "" {
		return filepath.FromSlash(p)
	}
	return filepath.Join(r.root, filepath.FromSlash(p))
}

func (r *Resolver) key(p string) string {
	return filepath.Clean(r.resolve(p))
}
