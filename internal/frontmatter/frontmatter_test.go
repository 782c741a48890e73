package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/attrs"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("<h1>Title</h1>\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\nlayout: base\n---\n<h1>Title</h1>\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("layout: base\n"), fm)
	require.Equal(t, []byte("<h1>Title</h1>\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\nlayout: base\n<h1>Title</h1>\n")

	_, _, had, _, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\nlayout: base\r\n---\r\nbody\r\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("layout: base\r\n"), fm)
	require.Equal(t, []byte("body\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("body\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestSplit_IgnoresBOM(t *testing.T) {
	fm, body, had, _, err := Split([]byte("\xEF\xBB\xBF---\ntitle: x\n---\nbody"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Equal(t, []byte("body"), body)
}

func TestParseAttributes_PreservesOrder(t *testing.T) {
	fields, err := ParseAttributes([]byte("title: Home\nlayout: base\nweight: 3\ndraft: false\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"title", "layout", "weight", "draft"}, fields.Keys())

	w, _ := fields.Get("weight")
	require.Equal(t, 3, w)
	d, _ := fields.Get("draft")
	require.Equal(t, false, d)
}

func TestParseAttributes_NestedMappingAndList(t *testing.T) {
	fields, err := ParseAttributes([]byte("meta:\n  z: 1\n  a: 2\ntags:\n  - one\n  - two\n"))
	require.NoError(t, err)

	meta, ok := fields.Get("meta")
	require.True(t, ok)
	require.IsType(t, &attrs.Map{}, meta)
	require.Equal(t, []string{"z", "a"}, meta.(*attrs.Map).Keys())

	tags, _ := fields.Get("tags")
	require.Equal(t, []any{"one", "two"}, tags)
}

func TestParseAttributes_Empty(t *testing.T) {
	fields, err := ParseAttributes(nil)
	require.NoError(t, err)
	require.Equal(t, 0, fields.Len())

	fields, err = ParseAttributes([]byte("# just a comment\n"))
	require.NoError(t, err)
	require.Equal(t, 0, fields.Len())
}

func TestParseAttributes_InvalidYAML(t *testing.T) {
	_, err := ParseAttributes([]byte("title: [unclosed\n"))
	require.Error(t, err)
}

func TestParseAttributes_NotAMapping(t *testing.T) {
	_, err := ParseAttributes([]byte("- a\n- b\n"))
	require.ErrorIs(t, err, ErrNotMapping)
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte("---\nlayout: post\n---\n{{ .content }}"))
	require.NoError(t, err)
	require.True(t, doc.HadFrontMatter)
	require.Equal(t, "{{ .content }}", doc.Body)
	layout, ok := doc.Attributes.GetString("layout")
	require.True(t, ok)
	require.Equal(t, "post", layout)

	doc, err = Parse([]byte("plain"))
	require.NoError(t, err)
	require.False(t, doc.HadFrontMatter)
	require.Equal(t, "plain", doc.Body)
	require.Equal(t, 0, doc.Attributes.Len())
}
