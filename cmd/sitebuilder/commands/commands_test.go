package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/git"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func siteFixture(t *testing.T, metadata string) (string, *CLI) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "metadata.json", metadata)
	writeFile(t, dir, "templates/github.html", "<h1>{{ .page.displayName }}</h1><a href=\"{{ .site.baseurl }}/\">home</a>")
	writeFile(t, dir, "pages/index.html", "<p>home</p>")
	return dir, &CLI{Config: filepath.Join(dir, "metadata.json")}
}

const localElement = `{"elements": [{"name": "x-a", "displayName": "A", "location": "./elements/x-a"}]}`

func TestBuild_WritesSiteAndMetrics(t *testing.T) {
	dir, root := siteFixture(t, localElement)
	metricsFile := filepath.Join(dir, "metrics.prom")

	cmd := &BuildCmd{Prod: true, MetricsFile: metricsFile, Output: filepath.Join(dir, "public")}
	require.NoError(t, cmd.run(context.Background(), root))

	page, err := os.ReadFile(filepath.Join(dir, "public", "a", "index.html"))
	require.NoError(t, err)
	require.Equal(t, `<h1>A</h1><a href="/elements/">home</a>`, string(page))
	require.FileExists(t, filepath.Join(dir, "public", "index.html"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `sitebuilder_pages_total{kind="catalog",result="written"} 1`)
}

func TestBuild_StrictFailsOnBrokenPage(t *testing.T) {
	dir, root := siteFixture(t, localElement)
	writeFile(t, dir, "pages/broken.html", "{{ .nope.deeper }}")

	require.NoError(t, (&BuildCmd{}).run(context.Background(), root))

	err := (&BuildCmd{Strict: true}).run(context.Background(), root)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryBuild))
	require.Equal(t, 11, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestBuild_FailOnChainErrorFromMetadata(t *testing.T) {
	dir, root := siteFixture(t, `{"failOnChainError": true, "elements": []}`)
	writeFile(t, dir, "pages/broken.html", "{{ .nope.deeper }}")

	err := (&BuildCmd{}).run(context.Background(), root)
	require.True(t, errors.HasCategory(err, errors.CategoryBuild))
}

func TestBuild_MissingMetadataIsConfigError(t *testing.T) {
	root := &CLI{Config: filepath.Join(t.TempDir(), "metadata.json")}
	err := (&BuildCmd{}).run(context.Background(), root)
	require.Error(t, err)
	require.Equal(t, 7, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInit(t *testing.T) {
	root := &CLI{Config: filepath.Join(t.TempDir(), "metadata.json")}
	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))

	err := (&InitCmd{}).Run(&Global{}, root)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))

	_, err = config.Load(root.Config, config.LoadOptions{})
	require.NoError(t, err)
}

func TestFetch_NoRepositories(t *testing.T) {
	_, root := siteFixture(t, localElement)
	require.NoError(t, (&FetchCmd{}).run(context.Background(), root))
}

func TestFilterTargets(t *testing.T) {
	targets := []git.Target{{Element: "x-a"}, {Element: "x-b"}, {Element: "x-c"}}
	require.Equal(t, targets, filterTargets(targets, nil))
	require.Equal(t, []git.Target{{Element: "x-a"}, {Element: "x-c"}}, filterTargets(targets, []string{"x-c", "x-a"}))
	require.Empty(t, filterTargets(targets, []string{"x-z"}))
}
