package render

import (
	"git.home.luguber.info/inful/sitebuilder/internal/attrs"
)

// SiteData is the read-only global context shared by every chain.
type SiteData interface {
	Data() map[string]any
}

// Context is the per-chain render state. It is owned by a single goroutine.
type Context struct {
	Site    map[string]any
	Page    *attrs.Map
	Content string
}

// NewContext creates a per-request context. page is cloned so the caller's
// mapping is never mutated; a nil page starts empty.
func NewContext(site SiteData, page *attrs.Map) *Context {
	var data map[string]any
	if site != nil {
		data = site.Data()
	}
	if data == nil {
		data = map[string]any{}
	}
	p := attrs.New()
	if page != nil {
		p = page.Clone()
	}
	return &Context{Site: data, Page: p}
}

// Data returns the template data for the current step. The page entry is a
// snapshot, so later merges are not visible to an already rendered step.
func (c *Context) Data() map[string]any {
	return map[string]any{
		"site":    c.Site,
		"page":    c.Page.ToMap(),
		"content": c.Content,
	}
}
