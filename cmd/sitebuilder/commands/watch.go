package commands

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Interval time.Duration `help:"Also rebuild periodically (0 disables)" default:"0s"`
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"300ms"`
	Prod     bool          `help:"Use the production baseurl unless the metadata file sets one"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lo := root.loadOptions(w.Prod, "")
	cfg, err := config.Load(root.Config, lo)
	if err != nil {
		return err
	}

	var current atomic.Pointer[config.Config]
	current.Store(cfg)

	// Each rebuild reloads the metadata file so that the site is rebuilt from scratch.
	rebuild := func(ctx context.Context) error {
		builder, err := build.Prepare(root.Config, lo)
		if err != nil {
			return err
		}
		current.Store(builder.Config())
		report, err := builder.Run(ctx)
		if err != nil {
			return err
		}
		return report.Err()
	}

	watcher := watch.New(rebuild, watch.SourcesFor(cfg), watch.Options{
		Debounce:   w.Debounce,
		Interval:   w.Interval,
		SourcesFor: func() watch.Sources { return watch.SourcesFor(current.Load()) },
	})
	return watcher.Run(ctx)
}
