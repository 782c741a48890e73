package site

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/attrs"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/htmlfrag"
	"git.home.luguber.info/inful/sitebuilder/internal/location"
	"git.home.luguber.info/inful/sitebuilder/internal/slug"
)

const (
	designDocFile  = "design-doc.md"
	demoFile       = "demo/index.html"
	propertiesFile = "property.json"
)

// Element is one catalog entry with its derived URLs and auxiliary content.
// It is immutable after construction.
type Element struct {
	Name        string
	Category    string
	Icon        string
	DisplayName string
	Location    location.Location

	// BaseDir is where the element's sources live (local path or vendored checkout).
	BaseDir              string
	DocumentationFileURL string
	DemoFileURL          string
	PropertiesFileURL    string

	// LinkToCI and BuildStatusURL are set only for repository locations.
	LinkToCI       string
	BuildStatusURL string

	DesignDoc string
	InnerHTML string
	PageName  string
	PageURL   string

	attrs *attrs.Map
}

// Attributes returns the element as an ordered mapping using the metadata
// file's key spelling. The result is a copy.
func (e *Element) Attributes() *attrs.Map {
	return e.attrs.Clone()
}

func newElement(cfg *config.Config, desc config.ElementDescriptor) (*Element, error) {
	loc, err := location.Parse(desc.Location)
	if err != nil {
		return nil, errors.FatalConfigError("invalid element location").
			WithContext("element", desc.Name).
			WithContext("location", desc.Location).
			WithCause(err).
			Build()
	}

	el := &Element{
		Name:        desc.Name,
		Category:    desc.Category,
		Icon:        desc.Icon,
		DisplayName: desc.DisplayName,
		Location:    loc,
	}

	el.BaseDir = loc.LocalPath
	if el.BaseDir == "" {
		el.BaseDir = path.Join(filepath.ToSlash(cfg.OutDir), desc.DisplayName, cfg.VendorDir, desc.Name)
	}
	el.DocumentationFileURL = el.BaseDir + "/"
	el.DemoFileURL = el.BaseDir + "/" + demoFile
	el.PropertiesFileURL = el.BaseDir + "/" + propertiesFile

	if loc.IsRepository() {
		u := strings.TrimSuffix(cfg.TravisBaseURL, "/") + "/" + loc.Owner + "/" + loc.Repo
		el.LinkToCI = u + "/"
		el.BuildStatusURL = u + ".svg?branch=" + cfg.CIBranch
	}

	el.DesignDoc = tryReadFile(cfg.Resolve(el.BaseDir + "/" + designDocFile))
	el.PageName = slug.Make(desc.DisplayName)
	el.PageURL = cfg.BaseURL + "/" + el.PageName + "/"
	el.InnerHTML = htmlfrag.InnerHTML([]byte(tryReadFile(cfg.Resolve(el.DemoFileURL))), desc.Name)

	el.attrs = el.buildAttributes(desc.Extra)
	return el, nil
}

func (e *Element) buildAttributes(extra map[string]any) *attrs.Map {
	m := attrs.New()
	m.Set("name", e.Name)
	m.Set("category", e.Category)
	m.Set("icon", e.Icon)
	m.Set("displayName", e.DisplayName)
	m.Set("location", locationAttributes(e.Location))
	m.Set("documentationFileUrl", e.DocumentationFileURL)
	m.Set("demoFileUrl", e.DemoFileURL)
	m.Set("propertiesFileUrl", e.PropertiesFileURL)
	if e.LinkToCI != "" {
		m.Set("linkToTravis", e.LinkToCI)
		m.Set("buildStatusUrl", e.BuildStatusURL)
	}
	m.Set("designDoc", e.DesignDoc)
	m.Set("pageName", e.PageName)
	m.Set("pageUrl", e.PageURL)
	m.Set("innerHtml", e.InnerHTML)

	// Descriptor extras never shadow derived fields.
	for _, k := range sortedKeys(extra) {
		if !m.Has(k) {
			m.Set(k, extra[k])
		}
	}
	return m
}

func locationAttributes(loc location.Location) *attrs.Map {
	m := attrs.New()
	m.Set("raw", loc.Raw)
	if loc.IsLocal() {
		m.Set("localPath", loc.LocalPath)
	}
	if loc.IsRepository() {
		m.Set("host", loc.Host)
		m.Set("githubUser", loc.Owner)
		m.Set("githubRepo", loc.Repo)
		m.Set("ref", loc.Ref)
	}
	return m
}

// tryReadFile returns "" when the file cannot be read.
func tryReadFile(p string) string {
	// #nosec G304 -- paths come from the site's own metadata file.
	data, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	return string(data)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
