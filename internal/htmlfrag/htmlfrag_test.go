package htmlfrag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const demo = `<!doctype html>
<html>
<head><title>x-button demo</title></head>
<body>
  <h1>Demo</h1>
  <x-button raised>
    <span class="label">Click</span>

    <x-icon icon="star"></x-icon>
  </x-button>
  <x-button>Second</x-button>
</body>
</html>`

func TestInnerHTML_FirstMatchCompacted(t *testing.T) {
	got := InnerHTML([]byte(demo), "x-button")
	require.Equal(t, `<span class="label">Click</span><x-icon icon="star"></x-icon>`, got)
}

func TestInnerHTML_CRLF(t *testing.T) {
	doc := "<body><x-card>\r\n  <p>a</p>\r\n\r\n  <p>b</p>\r\n</x-card></body>"
	require.Equal(t, "<p>a</p><p>b</p>", InnerHTML([]byte(doc), "X-Card"))
}

func TestInnerHTML_Missing(t *testing.T) {
	require.Equal(t, "", InnerHTML([]byte(demo), "x-slider"))
	require.Equal(t, "", InnerHTML(nil, "x-button"))
	require.Equal(t, "", InnerHTML([]byte(demo), ""))
}
