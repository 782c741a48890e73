// Package commands implements the sitebuilder subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// Global is shared state handed to every subcommand.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command with its global flags.
type CLI struct {
	Config  string           `short:"c" help:"Metadata file path" default:"metadata.json" type:"path"`
	Root    string           `help:"Directory relative paths resolve against (defaults to the metadata file's directory)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Render the catalog and content pages"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild whenever a source changes"`
	Fetch FetchCmd `cmd:"" help:"Clone or update element repositories"`
	Init  InitCmd  `cmd:"" help:"Write an example metadata file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func (c *CLI) loadOptions(prod bool, outDir string) config.LoadOptions {
	return config.LoadOptions{Prod: prod, Root: c.Root, OutDir: outDir}
}
