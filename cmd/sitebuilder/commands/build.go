package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Prod        bool   `help:"Use the production baseurl unless the metadata file sets one"`
	Strict      bool   `help:"Exit non-zero when any page fails to render"`
	MetricsFile string `name:"metrics-file" help:"Write build metrics in Prometheus text format to this file" type:"path"`
	Output      string `short:"o" help:"Output directory (overrides outDir)" type:"path"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return b.run(ctx, root)
}

func (b *BuildCmd) run(ctx context.Context, root *CLI) error {
	reg := prom.NewRegistry()
	builder, err := build.Prepare(root.Config, root.loadOptions(b.Prod, b.Output),
		build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	if err != nil {
		return err
	}

	report, runErr := builder.Run(ctx)
	if b.MetricsFile != "" {
		if err := metrics.WriteTextfile(b.MetricsFile, reg); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("Built %d pages (%d rendered, %d unchanged, %d failed) into %s\n",
		report.Pages, report.Rendered, report.Unchanged, report.Failed(),
		builder.Config().Resolve(builder.Config().OutDir))

	if report.Failed() > 0 && (b.Strict || builder.Config().FailOnChainError) {
		return report.Err()
	}
	return nil
}
