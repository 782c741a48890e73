package config

import "strings"

// ProdBaseURL is the default baseurl for production builds.
const ProdBaseURL = "/elements"

// Defaults returns the configuration used before the metadata file is applied.
func Defaults() *Config {
	return &Config{
		IncludesDir:        "includes",
		LayoutsDir:         "layouts",
		LayoutExtension:    ".html",
		PagesDir:           "pages",
		CatalogTemplate:    "templates/github.html",
		OutDir:             "_site",
		BaseURL:            "",
		ShowDemoTester:     true,
		TravisBaseURL:      "https://travis-ci.org",
		CIBranch:           "master",
		VendorDir:          "bower_components",
		MarkdownExtensions: []string{".md"},
		Fetch:              DefaultFetch(),
	}
}

// normalize repairs values the file may have set to unusable shapes.
func (c *Config) normalize() {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	c.TravisBaseURL = strings.TrimSuffix(c.TravisBaseURL, "/")
	if c.LayoutExtension != "" && !strings.HasPrefix(c.LayoutExtension, ".") {
		c.LayoutExtension = "." + c.LayoutExtension
	}
	for i, ext := range c.MarkdownExtensions {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			c.MarkdownExtensions[i] = "." + ext
		}
	}
	c.Fetch.normalize()
}
