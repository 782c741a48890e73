package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// Validate checks the loaded metadata. Problems are fatal config errors.
func (c *Config) Validate() error {
	if c.OutDir == "" {
		return invalid(c, "outDir must not be empty")
	}
	if c.LayoutsDir == "" {
		return invalid(c, "layoutsDir must not be empty")
	}
	if c.CatalogTemplate == "" && len(c.Elements) > 0 {
		return invalid(c, "catalogTemplate must not be empty when elements are declared")
	}
	if c.Concurrency < 0 {
		return invalid(c, fmt.Sprintf("concurrency must be >= 0, got %d", c.Concurrency))
	}

	seen := make(map[string]int, len(c.Elements))
	for i, el := range c.Elements {
		if el.Name == "" {
			return invalid(c, fmt.Sprintf("elements[%d]: name is required", i))
		}
		if el.DisplayName == "" {
			return invalid(c, fmt.Sprintf("elements[%d] (%s): displayName is required", i, el.Name))
		}
		if !pathSafe(el.Name) {
			return invalid(c, fmt.Sprintf("elements[%d]: name %q must not contain path separators or be . or ..", i, el.Name))
		}
		if !pathSafe(el.DisplayName) {
			return invalid(c, fmt.Sprintf("elements[%d] (%s): displayName %q must not contain path separators or be . or ..", i, el.Name, el.DisplayName))
		}
		if prev, dup := seen[el.Name]; dup {
			return invalid(c, fmt.Sprintf("elements[%d]: name %q already declared at elements[%d]", i, el.Name, prev))
		}
		seen[el.Name] = i
	}
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return invalid(c, fmt.Sprintf("categories[%d]: name is required", i))
		}
	}
	return nil
}

// pathSafe reports whether s can be used as a single path segment. Element
// names and display names become directories of the vendored checkout.
func pathSafe(s string) bool {
	return s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func invalid(c *Config, msg string) error {
	return errors.FatalConfigError("invalid metadata: "+msg).WithContext("path", c.Path).Build()
}
