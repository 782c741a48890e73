package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"My Button":          "my-button",
		"my-button":          "my-button",
		"  Paper   Toggle  ": "paper-toggle",
		"Crème Brûlée":       "creme-brulee",
		"Rock & Roll":        "rock-and-roll",
		"Straße":             "strasse",
		"X_Card v2.0":        "x-card-v2-0",
		"日本語 Tabs":           "日本語-tabs",
		"":                   "",
		"!!!":                "",
	}
	for in, want := range cases {
		require.Equal(t, want, Make(in), "input %q", in)
	}
}
