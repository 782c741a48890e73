package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvert_GFM(t *testing.T) {
	c := New(Options{})

	out, err := c.ConvertString("# Usage\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	require.Contains(t, out, `<h1 id="usage">Usage</h1>`)
	require.Contains(t, out, "<table>")
}

func TestConvert_RawHTML(t *testing.T) {
	src := "<x-button>hi</x-button>\n"

	safe, err := New(Options{}).ConvertString(src)
	require.NoError(t, err)
	require.NotContains(t, safe, "<x-button>")

	unsafe, err := New(Options{Unsafe: true}).ConvertString(src)
	require.NoError(t, err)
	require.Contains(t, unsafe, "<x-button>hi</x-button>")
}

func TestConvert_Empty(t *testing.T) {
	out, err := New(Options{}).ConvertString("")
	require.NoError(t, err)
	require.Equal(t, "", out)
}
