package layout

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func newResolver(root string) *Resolver {
	return NewResolver(Options{Root: root})
}

func TestResolve_NoLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pages/about.html", "<p>About</p>")

	chain, err := newResolver(dir).Resolve(context.Background(), "pages/about.html")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	require.Equal(t, "pages/about.html", chain[0].Path)
	require.Equal(t, "", chain[0].Layout)
	require.Equal(t, "<p>About</p>", chain[0].Body)
	require.Equal(t, 0, chain[0].Attributes.Len())
}

func TestResolve_Chain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pages/index.md", "---\ntitle: Home\nlayout: page\n---\n# Hi\n")
	writeFile(t, dir, "layouts/page.html", "---\nlayout: base\nsection: docs\n---\n<main>{{ .content }}</main>\n")
	writeFile(t, dir, "layouts/base.html", "---\ntitle: Default\n---\n<html>{{ .content }}</html>\n")

	chain, err := newResolver(dir).Resolve(context.Background(), "pages/index.md")
	require.NoError(t, err)
	require.Len(t, chain, 3)
	require.Equal(t, []string{"page", "base"}, chain.Names())
	require.Equal(t, "layouts/page.html", chain[1].Path)
	require.Equal(t, "layouts/base.html", chain[2].Path)
	require.Equal(t, "# Hi\n", chain[0].Body)
	require.Equal(t, "pages/index.md -> page -> base", chain.String())

	title, _ := chain[2].Attributes.GetString("title")
	require.Equal(t, "Default", title)
}

func TestResolve_CustomDirAndExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "---\nlayout: partials/wrap\n---\nx")
	writeFile(t, dir, "tpl/partials/wrap.tmpl", "[{{ .content }}]")

	r := NewResolver(Options{Root: dir, LayoutsDir: "tpl", Extension: ".tmpl"})
	chain, err := r.Resolve(context.Background(), "a.html")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	require.Equal(t, "tpl/partials/wrap.tmpl", chain[1].Path)
}

func TestResolve_EmptyLayoutEndsChain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "---\nlayout: \"\"\n---\nx")
	writeFile(t, dir, "b.html", "---\nlayout: null\n---\nx")
	writeFile(t, dir, "c.html", "---\nlayout: false\n---\nx")

	r := newResolver(dir)
	for _, name := range []string{"a.html", "b.html", "c.html"} {
		chain, err := r.Resolve(context.Background(), name)
		require.NoError(t, err, name)
		require.Len(t, chain, 1, name)
	}
}

func TestResolve_Cycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page.html", "---\nlayout: a\n---\nx")
	writeFile(t, dir, "layouts/a.html", "---\nlayout: b\n---\na")
	writeFile(t, dir, "layouts/b.html", "---\nlayout: a\n---\nb")

	_, err := newResolver(dir).Resolve(context.Background(), "page.html")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryCyclicLayout))
	require.Contains(t, err.Error(), `layout "a"`)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	chain, _ := ce.Context().GetString("chain")
	require.Equal(t, "page.html -> a -> b -> a", chain)
}

func TestResolve_SelfReference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "layouts/self.html", "---\nlayout: self\n---\nx")

	_, err := newResolver(dir).Resolve(context.Background(), "layouts/self.html")
	require.True(t, errors.HasCategory(err, errors.CategoryCyclicLayout))
}

func TestResolve_MaxDepth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page.html", "---\nlayout: l1\n---\nx")
	writeFile(t, dir, "layouts/l1.html", "---\nlayout: l2\n---\nx")
	writeFile(t, dir, "layouts/l2.html", "---\nlayout: l3\n---\nx")
	writeFile(t, dir, "layouts/l3.html", "x")

	_, err := NewResolver(Options{Root: dir, MaxDepth: 3}).Resolve(context.Background(), "page.html")
	require.True(t, errors.HasCategory(err, errors.CategoryCyclicLayout))
	require.Contains(t, err.Error(), "exceeds 3")

	chain, err := NewResolver(Options{Root: dir, MaxDepth: 4}).Resolve(context.Background(), "page.html")
	require.NoError(t, err)
	require.Len(t, chain, 4)
}

func TestResolve_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page.html", "---\nlayout: gone\n---\nx")

	r := newResolver(dir)
	_, err := r.Resolve(context.Background(), "nope.html")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	_, err = r.Resolve(context.Background(), "page.html")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	require.Contains(t, err.Error(), `layout "gone" not found`)
	ce, _ := errors.AsClassified(err)
	p, _ := ce.Context().GetString("path")
	require.Equal(t, "layouts/gone.html", p)
}

func TestResolve_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "unterminated.html", "---\ntitle: x\n")
	writeFile(t, dir, "list.html", "---\n- a\n- b\n---\nx")
	writeFile(t, dir, "number.html", "---\nlayout: 2\n---\nx")
	writeFile(t, dir, "escape.html", "---\nlayout: ../secret\n---\nx")

	r := newResolver(dir)
	for _, name := range []string{"unterminated.html", "list.html", "number.html", "escape.html"} {
		_, err := r.Resolve(context.Background(), name)
		require.True(t, errors.HasCategory(err, errors.CategoryFrontMatter), name)
	}
}

func TestResolve_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page.html", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newResolver(dir).Resolve(ctx, "page.html")
	require.ErrorIs(t, err, context.Canceled)
}
