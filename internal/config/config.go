package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// DefaultPath is the metadata file read when no --config flag is given.
const DefaultPath = "metadata.json"

// Config is the site metadata: catalog descriptors plus build settings.
//
// Keys keep the camelCase spelling of the metadata file so templates can
// address them the same way (`.site.outDir`, `.site.baseurl`).
type Config struct {
	IncludesDir        string   `yaml:"includesDir" json:"includesDir"`
	LayoutsDir         string   `yaml:"layoutsDir" json:"layoutsDir"`
	LayoutExtension    string   `yaml:"layoutExtension" json:"layoutExtension"`
	PagesDir           string   `yaml:"pagesDir" json:"pagesDir"`
	CatalogTemplate    string   `yaml:"catalogTemplate" json:"catalogTemplate"`
	OutDir             string   `yaml:"outDir" json:"outDir"`
	BaseURL            string   `yaml:"baseurl" json:"baseurl"`
	ShowDemoTester     bool     `yaml:"showDemoTester" json:"showDemoTester"`
	TravisBaseURL      string   `yaml:"travisBaseUrl" json:"travisBaseUrl"`
	CIBranch           string   `yaml:"ciBranch" json:"ciBranch"`
	VendorDir          string   `yaml:"vendorDir" json:"vendorDir"`
	MarkdownExtensions []string `yaml:"markdownExtensions" json:"markdownExtensions"`
	Concurrency        int      `yaml:"concurrency" json:"concurrency"`
	FailOnChainError   bool     `yaml:"failOnChainError" json:"failOnChainError"`
	Fetch              Fetch    `yaml:"fetch" json:"fetch"`

	Elements   []ElementDescriptor  `yaml:"elements" json:"elements"`
	Categories []CategoryDescriptor `yaml:"categories" json:"categories"`

	// Extra holds unrecognized top-level keys; they are passed through to templates.
	Extra map[string]any `yaml:",inline" json:"-"`

	// Root is the directory relative paths resolve against (the metadata file's directory by default).
	Root string `yaml:"-" json:"-"`
	// Path is the metadata file this config was loaded from.
	Path string `yaml:"-" json:"-"`
}

// ElementDescriptor is one raw catalog entry from the metadata file.
type ElementDescriptor struct {
	Name        string         `yaml:"name" json:"name"`
	Category    string         `yaml:"category" json:"category"`
	Icon        string         `yaml:"icon" json:"icon"`
	DisplayName string         `yaml:"displayName" json:"displayName"`
	Location    string         `yaml:"location" json:"location"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// CategoryDescriptor is one raw category entry: a name plus display attributes.
type CategoryDescriptor struct {
	Name  string         `yaml:"name" json:"name"`
	Extra map[string]any `yaml:",inline" json:"-"`
}

// LoadOptions adjusts how defaults are chosen before the file is applied.
type LoadOptions struct {
	// Prod switches the default baseurl to ProdBaseURL. An explicit baseurl in the file still wins.
	Prod bool
	// Root overrides the directory relative paths resolve against.
	Root string
	// OutDir overrides the output directory from the file.
	OutDir string
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the metadata file. Every failure is a fatal config error.
func Load(configPath string, opts LoadOptions) (*Config, error) {
	root := opts.Root
	if root == "" {
		root = filepath.Dir(configPath)
	}
	loadEnvFile(root)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FatalConfigError("metadata file not found").
				WithContext("path", configPath).WithCause(err).Build()
		}
		return nil, errors.FatalConfigError("failed to read metadata file").
			WithContext("path", configPath).WithCause(err).Build()
	}

	cfg := Defaults()
	if opts.Prod {
		cfg.BaseURL = ProdBaseURL
	}
	if err := decode(configPath, data, cfg); err != nil {
		return nil, errors.FatalConfigError("failed to parse metadata file").
			WithContext("path", configPath).WithCause(err).Build()
	}
	if opts.OutDir != "" {
		cfg.OutDir = opts.OutDir
	}
	cfg.Root = root
	cfg.Path = configPath
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode applies the metadata file onto cfg. JSON files are read with
// encoding/json so that every JSON escape is accepted; other files are YAML.
// ${VAR} references are expanded inside decoded values, never in the raw text.
func decode(configPath string, data []byte, cfg *Config) error {
	var root yaml.Node
	if strings.EqualFold(filepath.Ext(configPath), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if dec.More() {
			return fmt.Errorf("unexpected data after top-level value")
		}
		if err := root.Encode(expandJSON(v)); err != nil {
			return err
		}
	} else {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return err
		}
		expandNode(&root)
	}
	if root.Kind == 0 {
		return nil
	}
	return root.Decode(cfg)
}

func expandEnv(s string) string {
	// Only ${VAR}; a bare `$` is common in display text.
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}

func expandJSON(v any) any {
	switch vv := v.(type) {
	case string:
		return expandEnv(vv)
	case json.Number:
		if i, err := vv.Int64(); err == nil {
			return int(i)
		}
		f, _ := vv.Float64()
		return f
	case []any:
		for i := range vv {
			vv[i] = expandJSON(vv[i])
		}
		return vv
	case map[string]any:
		for k := range vv {
			vv[k] = expandJSON(vv[k])
		}
		return vv
	default:
		return v
	}
}

// expandNode expands references in scalar values (mapping keys are left
// alone). A plain scalar is re-resolved afterwards, so `concurrency: ${N}`
// still decodes into an int.
func expandNode(n *yaml.Node) {
	switch n.Kind {
	case yaml.ScalarNode:
		if !envRef.MatchString(n.Value) {
			return
		}
		n.Value = expandEnv(n.Value)
		if n.Style == 0 {
			n.Tag = ""
		}
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			expandNode(n.Content[i])
		}
	default:
		for _, c := range n.Content {
			expandNode(c)
		}
	}
}

// Resolve maps a path from the metadata file to a filesystem path.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}

// IsMarkdown reports whether ext (with leading dot) is a configured markdown extension.
func (c *Config) IsMarkdown(ext string) bool {
	for _, e := range c.MarkdownExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Settings returns the configuration keys exposed to templates under `site`.
// Extra keys come first so that built-in settings cannot be shadowed.
func (c *Config) Settings() map[string]any {
	out := make(map[string]any, len(c.Extra)+12)
	for k, v := range c.Extra {
		out[k] = v
	}
	exts := make([]any, len(c.MarkdownExtensions))
	for i, e := range c.MarkdownExtensions {
		exts[i] = e
	}
	out["includesDir"] = c.IncludesDir
	out["layoutsDir"] = c.LayoutsDir
	out["pagesDir"] = c.PagesDir
	out["catalogTemplate"] = c.CatalogTemplate
	out["outDir"] = c.OutDir
	out["baseurl"] = c.BaseURL
	out["showDemoTester"] = c.ShowDemoTester
	out["travisBaseUrl"] = c.TravisBaseURL
	out["vendorDir"] = c.VendorDir
	out["markdownExtensions"] = exts
	return out
}

// Init writes an example metadata file. JSON is written for a .json path, YAML otherwise.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("metadata file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Defaults()
	example.Elements = []ElementDescriptor{
		{Name: "x-button", Category: "buttons", Icon: "touch_app", DisplayName: "Button", Location: "example/x-button"},
		{Name: "x-icon", Category: "icons", Icon: "star", DisplayName: "Icon", Location: "./elements/x-icon"},
	}
	example.Categories = []CategoryDescriptor{
		{Name: "buttons", Extra: map[string]any{"displayName": "Buttons"}},
		{Name: "icons", Extra: map[string]any{"displayName": "Icons"}},
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(configPath), ".json") {
		data, err = json.MarshalIndent(exampleJSON(example), "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(example)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// exampleJSON flattens descriptor extras, which encoding/json cannot inline.
func exampleJSON(c *Config) map[string]any {
	out := map[string]any{
		"outDir":             c.OutDir,
		"baseurl":            c.BaseURL,
		"markdownExtensions": c.MarkdownExtensions,
	}
	elements := make([]map[string]any, 0, len(c.Elements))
	for _, el := range c.Elements {
		elements = append(elements, map[string]any{
			"name":        el.Name,
			"category":    el.Category,
			"icon":        el.Icon,
			"displayName": el.DisplayName,
			"location":    el.Location,
		})
	}
	categories := make([]map[string]any, 0, len(c.Categories))
	for _, cat := range c.Categories {
		m := map[string]any{"name": cat.Name}
		for k, v := range cat.Extra {
			m[k] = v
		}
		categories = append(categories, m)
	}
	out["elements"] = elements
	out["categories"] = categories
	return out
}
