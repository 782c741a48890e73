// Package render turns layout chains into page output.
//
// A Renderer executes one template body against a data map. Pipeline folds a
// whole chain through a Renderer, innermost record first, threading the
// previous step's output into the next step as `.content`.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/slug"
)

// MaxIncludeDepth bounds nested include calls.
const MaxIncludeDepth = 16

// Renderer renders a single template body.
type Renderer interface {
	Render(ctx context.Context, name, body string, data map[string]any) (string, error)
}

// TemplateOptions configures a TemplateRenderer.
type TemplateOptions struct {
	// IncludesDir is the directory `include` reads from.
	IncludesDir string
	// BaseURL prefixes paths passed to relURL.
	BaseURL string
	// Markdown backs the markdownify helper. A default converter is used when nil.
	Markdown *markdown.Converter
}

// TemplateRenderer renders bodies with text/template. Unknown map keys are errors.
type TemplateRenderer struct {
	includesDir string
	baseURL     string
	md          *markdown.Converter
}

// NewTemplateRenderer creates a TemplateRenderer.
func NewTemplateRenderer(opts TemplateOptions) *TemplateRenderer {
	md := opts.Markdown
	if md == nil {
		md = markdown.New(markdown.Options{Unsafe: true})
	}
	return &TemplateRenderer{
		includesDir: opts.IncludesDir,
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		md:          md,
	}
}

// Render executes body against data.
func (r *TemplateRenderer) Render(ctx context.Context, name, body string, data map[string]any) (string, error) {
	return r.execute(ctx, name, body, data, 0)
}

func (r *TemplateRenderer) execute(ctx context.Context, name, body string, data map[string]any, depth int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tpl, err := template.New(name).Funcs(r.funcs(ctx, data, depth)).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *TemplateRenderer) funcs(ctx context.Context, data map[string]any, depth int) template.FuncMap {
	return template.FuncMap{
		"include": func(file string) (string, error) {
			return r.include(ctx, file, data, depth+1)
		},
		"markdownify": r.md.ConvertString,
		"slugify":     slug.Make,
		"relURL":      r.relURL,
		"jsonify": func(v any) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", fmt.Errorf("jsonify: %w", err)
			}
			return string(b), nil
		},
	}
}

func (r *TemplateRenderer) include(ctx context.Context, file string, data map[string]any, depth int) (string, error) {
	if depth > MaxIncludeDepth {
		return "", fmt.Errorf("include %q: nesting exceeds %d levels", file, MaxIncludeDepth)
	}
	clean := path.Clean("/" + filepath.ToSlash(file))[1:]
	if clean == "" {
		return "", fmt.Errorf("include: empty file name")
	}

	// #nosec G304 -- clean is rooted under includesDir.
	raw, err := os.ReadFile(filepath.Join(r.includesDir, filepath.FromSlash(clean)))
	if err != nil {
		return "", fmt.Errorf("include %q: %w", file, err)
	}
	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("include %q: %w", file, err)
	}
	return r.execute(ctx, "include/"+clean, doc.Body, data, depth)
}

func (r *TemplateRenderer) relURL(p string) string {
	if strings.Contains(p, "://") || strings.HasPrefix(p, "//") {
		return p
	}
	return r.baseURL + "/" + strings.TrimPrefix(p, "/")
}
