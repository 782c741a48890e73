package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/git"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// FetchCmd implements the 'fetch' command.
type FetchCmd struct {
	Only []string `name:"only" help:"Fetch only these elements"`
}

func (f *FetchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return f.run(ctx, root)
}

func (f *FetchCmd) run(ctx context.Context, root *CLI, opts ...git.Option) error {
	cfg, err := config.Load(root.Config, root.loadOptions(false, ""))
	if err != nil {
		return err
	}
	s, err := site.Build(cfg)
	if err != nil {
		return err
	}

	fetcher := git.NewFetcher(cfg.Fetch, opts...)
	targets := filterTargets(fetcher.Targets(s), f.Only)
	if len(targets) == 0 {
		fmt.Println("No repository elements to fetch")
		return nil
	}

	sum := fetcher.FetchAll(ctx, targets)
	fmt.Printf("Fetched %d elements (%d cloned, %d updated, %d up to date, %d failed)\n",
		len(targets), sum.Cloned, sum.Updated, sum.UpToDate, len(sum.Failures))
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(sum.Failures) > 0 {
		return errors.GitError(fmt.Sprintf("%d of %d elements failed to fetch", len(sum.Failures), len(targets))).Build()
	}
	return nil
}

func filterTargets(targets []git.Target, only []string) []git.Target {
	if len(only) == 0 {
		return targets
	}
	keep := make(map[string]bool, len(only))
	for _, name := range only {
		keep[name] = true
	}
	out := targets[:0:0]
	for _, t := range targets {
		if keep[t.Element] {
			out = append(out, t)
		}
	}
	return out
}
