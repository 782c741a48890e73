package layout

import (
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/attrs"
)

// LayoutKey is the front matter key naming the parent layout.
const LayoutKey = "layout"

// Record is one file in a chain.
type Record struct {
	// Path is the file path as referenced (relative to the site root unless absolute).
	Path string
	// Layout is the layout name that led to this record; empty for the originating file.
	Layout string
	// Attributes is the file's front matter.
	Attributes *attrs.Map
	// Body is the template text after the front matter.
	Body string
}

// Chain is an ordered sequence of records, originating file first.
type Chain []Record

// Names returns the layout names in chain order, skipping the originating file.
func (c Chain) Names() []string {
	names := make([]string, 0, len(c))
	for _, r := range c {
		if r.Layout != "" {
			names = append(names, r.Layout)
		}
	}
	return names
}

// String renders the chain as "path -> layout -> layout".
func (c Chain) String() string {
	parts := make([]string, 0, len(c))
	for i, r := range c {
		if i == 0 {
			parts = append(parts, r.Path)
			continue
		}
		parts = append(parts, r.Layout)
	}
	return strings.Join(parts, " -> ")
}
