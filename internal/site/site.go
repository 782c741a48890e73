// Package site builds the global, read-only site context: catalog elements,
// their categories, and the settings exposed to templates as `.site`.
package site

import (
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/attrs"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Category groups the elements that declare its name.
type Category struct {
	Name     string
	Elements []*Element

	attrs *attrs.Map
}

// Attributes returns the category descriptor's attributes. The result is a copy.
func (c *Category) Attributes() *attrs.Map {
	return c.attrs.Clone()
}

// Site is constructed once per build and never mutated afterwards, so it can
// be shared across concurrently rendered chains without locking.
type Site struct {
	Config     *config.Config
	Elements   []*Element
	Categories []*Category

	data map[string]any
}

// Build constructs elements in declaration order and groups them by category.
// An unparsable element location is a fatal config error; unreadable design
// docs or demo files degrade to empty strings.
func Build(cfg *config.Config) (*Site, error) {
	s := &Site{Config: cfg}

	for _, desc := range cfg.Elements {
		el, err := newElement(cfg, desc)
		if err != nil {
			return nil, err
		}
		if el.DesignDoc == "" {
			slog.Debug("No design doc for element", logfields.Element(el.Name), logfields.Path(el.BaseDir))
		}
		s.Elements = append(s.Elements, el)
	}

	for _, desc := range cfg.Categories {
		cat := &Category{Name: desc.Name, attrs: attrs.New()}
		cat.attrs.Set("name", desc.Name)
		for _, k := range sortedKeys(desc.Extra) {
			cat.attrs.Set(k, desc.Extra[k])
		}
		for _, el := range s.Elements {
			if el.Category == desc.Name {
				cat.Elements = append(cat.Elements, el)
			}
		}
		s.Categories = append(s.Categories, cat)
	}

	s.data = s.buildData()
	return s, nil
}

// Element returns the element with the given name.
func (s *Site) Element(name string) (*Element, bool) {
	for _, el := range s.Elements {
		if el.Name == name {
			return el, true
		}
	}
	return nil, false
}

// Category returns the category with the given name.
func (s *Site) Category(name string) (*Category, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Data returns the template view of the site. Callers must not modify it.
func (s *Site) Data() map[string]any {
	return s.data
}

func (s *Site) buildData() map[string]any {
	data := s.Config.Settings()

	elements := make([]any, 0, len(s.Elements))
	for _, el := range s.Elements {
		elements = append(elements, el.attrs.ToMap())
	}

	categories := make([]any, 0, len(s.Categories))
	for _, c := range s.Categories {
		m := c.attrs.ToMap()
		members := make([]any, 0, len(c.Elements))
		for _, el := range c.Elements {
			members = append(members, el.attrs.ToMap())
		}
		m["elements"] = members
		categories = append(categories, m)
	}

	data["elements"] = elements
	data["categories"] = categories
	return data
}
