package location

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in    string
		local string
		host  string
		owner string
		repo  string
		ref   string
	}{
		{in: "./elements/x-button", local: "./elements/x-button"},
		{in: "../shared/x-icon", local: "../shared/x-icon"},
		{in: "/srv/x-icon", local: "/srv/x-icon"},
		{in: "file:vendor/x-card", local: "vendor/x-card"},
		{in: "acme/x-button", host: "github.com", owner: "acme", repo: "x-button"},
		{in: "acme/x-button#v2.0.0", host: "github.com", owner: "acme", repo: "x-button", ref: "v2.0.0"},
		{in: "github:acme/x-button", host: "github.com", owner: "acme", repo: "x-button"},
		{in: "https://gitlab.example.com/acme/x-button.git", host: "gitlab.example.com", owner: "acme", repo: "x-button"},
		{in: "https://github.com/acme/x-button/#main", host: "github.com", owner: "acme", repo: "x-button", ref: "main"},
		{in: "git@github.com:acme/x-button.git", host: "github.com", owner: "acme", repo: "x-button"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			loc, err := Parse(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.local, loc.LocalPath)
			require.Equal(t, tc.host, loc.Host)
			require.Equal(t, tc.owner, loc.Owner)
			require.Equal(t, tc.repo, loc.Repo)
			require.Equal(t, tc.ref, loc.Ref)
			require.Equal(t, tc.local != "", loc.IsLocal())
			require.Equal(t, tc.owner != "", loc.IsRepository())
		})
	}
}

func TestParse_Empty(t *testing.T) {
	loc, err := Parse("  ")
	require.NoError(t, err)
	require.False(t, loc.IsLocal())
	require.False(t, loc.IsRepository())
	require.Equal(t, "", loc.String())
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"x-button", "a/b/c", "github:acme", "git@github.com", "https:///acme/x", "file:"} {
		_, err := Parse(in)
		require.Error(t, err, in)
	}
}

func TestCloneURLAndString(t *testing.T) {
	loc, err := Parse("git@example.org:acme/x-card.git#dev")
	require.NoError(t, err)
	require.Equal(t, "https://example.org/acme/x-card.git", loc.CloneURL())
	require.Equal(t, "example.org/acme/x-card#dev", loc.String())

	local, err := Parse("./x")
	require.NoError(t, err)
	require.Equal(t, "", local.CloneURL())
	require.Equal(t, "./x", local.String())
}
