package build

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/attrs"
	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
)

// Job renders one page.
type Job struct {
	// Kind is metrics.KindCatalog or metrics.KindContent.
	Kind string
	// Source is the chain's originating file, relative to the site root.
	Source string
	// Dest is the output file path.
	Dest string
	// Page seeds the page mapping; nil starts empty.
	Page *attrs.Map
	// Element names the catalog element, if any.
	Element string
	// Markdown converts the originating body before rendering.
	Markdown bool
}

// Plan lists the jobs of a build: catalog pages first, in element order, then
// content files in walk order. Jobs that cannot run (an empty slug or two
// jobs writing the same file) are returned as failures instead.
func (b *Builder) Plan() ([]Job, []Failure, error) {
	outDir := b.cfg.Resolve(b.cfg.OutDir)
	var (
		jobs     []Job
		failures []Failure
	)
	owners := map[string]string{}

	add := func(job Job) {
		if prev, dup := owners[job.Dest]; dup {
			failures = append(failures, Failure{
				Kind: job.Kind, Source: job.Source, Dest: job.Dest,
				Err: errors.NewError(errors.CategoryValidation, "output path already produced by another page").
					WithContext("path", job.Source).
					WithContext("other", prev).
					Build(),
			})
			return
		}
		owners[job.Dest] = job.Source
		jobs = append(jobs, job)
	}

	for _, el := range b.site.Elements {
		if el.PageName == "" {
			failures = append(failures, Failure{
				Kind: metrics.KindCatalog, Source: b.cfg.CatalogTemplate,
				Err: errors.NewError(errors.CategoryValidation, "display name produces an empty page slug").
					WithContext("element", el.Name).
					Build(),
			})
			continue
		}
		add(Job{
			Kind:    metrics.KindCatalog,
			Source:  b.cfg.CatalogTemplate,
			Dest:    output.CatalogPath(outDir, el.PageName),
			Page:    el.Attributes(),
			Element: el.Name,
		})
	}

	pages, err := b.contentFiles()
	if err != nil {
		return nil, nil, err
	}
	pagesDir := b.cfg.Resolve(b.cfg.PagesDir)
	for _, src := range pages {
		dest, err := output.PagePath(outDir, pagesDir, src)
		if err != nil {
			return nil, nil, errors.BuildError("failed to map page to output").WithCause(err).Build()
		}
		add(Job{
			Kind:     metrics.KindContent,
			Source:   b.relToRoot(src),
			Dest:     dest,
			Markdown: b.cfg.IsMarkdown(filepath.Ext(src)),
		})
	}
	return jobs, failures, nil
}

// contentFiles walks the pages directory. A missing directory yields no pages.
func (b *Builder) contentFiles() ([]string, error) {
	root := b.cfg.Resolve(b.cfg.PagesDir)
	info, err := os.Stat(root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.BuildError("failed to read pages directory").WithContext("path", root).WithCause(err).Build()
	}
	if !info.IsDir() {
		return nil, errors.BuildError(fmt.Sprintf("pages path %s is not a directory", root)).Build()
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.BuildError("failed to walk pages directory").WithContext("path", root).WithCause(err).Build()
	}
	return files, nil
}

func (b *Builder) relToRoot(p string) string {
	if b.cfg.Root == "" {
		return filepath.ToSlash(p)
	}
	rel, err := filepath.Rel(b.cfg.Root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return filepath.ToSlash(rel)
}
