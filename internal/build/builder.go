package build

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/layout"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/workers"
)

// Builder renders every page of one site. The site it is constructed with is
// never mutated, so one Builder serves exactly one build generation.
type Builder struct {
	cfg         *config.Config
	site        *site.Site
	resolver    *layout.Resolver
	renderer    render.Renderer
	md          *markdown.Converter
	writer      *output.Writer
	recorder    metrics.Recorder
	concurrency int
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithRenderer replaces the template renderer.
func WithRenderer(r render.Renderer) Option {
	return func(b *Builder) {
		if r != nil {
			b.renderer = r
		}
	}
}

// WithConcurrency overrides the number of pages rendered at once.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// New creates a Builder for an already constructed site.
func New(cfg *config.Config, s *site.Site, opts ...Option) *Builder {
	md := markdown.New(markdown.Options{Unsafe: true})
	b := &Builder{
		cfg:  cfg,
		site: s,
		resolver: layout.NewResolver(layout.Options{
			Root:       cfg.Root,
			LayoutsDir: cfg.LayoutsDir,
			Extension:  cfg.LayoutExtension,
		}),
		renderer: render.NewTemplateRenderer(render.TemplateOptions{
			IncludesDir: cfg.Resolve(cfg.IncludesDir),
			BaseURL:     cfg.BaseURL,
			Markdown:    md,
		}),
		md:          md,
		writer:      output.NewWriter(),
		recorder:    metrics.NoopRecorder{},
		concurrency: cfg.Concurrency,
	}
	if b.concurrency <= 0 {
		b.concurrency = runtime.NumCPU()
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Prepare loads the metadata file and constructs the site from scratch.
func Prepare(configPath string, lo config.LoadOptions, opts ...Option) (*Builder, error) {
	cfg, err := config.Load(configPath, lo)
	if err != nil {
		return nil, err
	}
	s, err := site.Build(cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, s, opts...), nil
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() *config.Config { return b.cfg }

// Site returns the site the builder renders.
func (b *Builder) Site() *site.Site { return b.site }

// Run executes the build. The returned error is reserved for build-level
// failures; per-page failures are recorded in the report (see Report.Err).
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	report := &Report{BuildID: uuid.NewString(), Start: time.Now()}
	log := slog.With(logfields.BuildID(report.BuildID))

	outDir := b.cfg.Resolve(b.cfg.OutDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		report.finish(false)
		b.recorder.IncBuildOutcome(string(StatusFailed))
		return report, errors.BuildError("failed to create output directory").
			WithContext("path", outDir).WithCause(err).Build()
	}

	jobs, planned, err := b.Plan()
	if err != nil {
		report.finish(false)
		b.recorder.IncBuildOutcome(string(StatusFailed))
		return report, err
	}
	if len(jobs) == 0 && len(planned) == 0 {
		log.Info("No pages to build", logfields.Path(b.cfg.Resolve(b.cfg.PagesDir)))
	}
	report.Pages = len(jobs) + len(planned)
	for _, f := range planned {
		b.logFailure(log, f)
		b.recorder.IncPageResult(f.Kind, metrics.ResultFailed)
	}
	report.Failures = append(report.Failures, planned...)

	log.Info("Build started", slog.Int("pages", report.Pages), slog.Int("concurrency", b.concurrency))
	results := workers.RunOrdered(ctx, jobs, b.concurrency, b.runJob)

	for i, res := range results {
		job := jobs[i]
		if res.Err != nil {
			if ctx.Err() != nil && res.Err == ctx.Err() {
				continue
			}
			f := Failure{Kind: job.Kind, Source: job.Source, Dest: job.Dest, Err: res.Err}
			b.logFailure(log, f)
			b.recorder.IncPageResult(job.Kind, metrics.ResultFailed)
			report.Failures = append(report.Failures, f)
			continue
		}
		switch res.Value {
		case output.ResultUnchanged:
			report.Unchanged++
			b.recorder.IncPageResult(job.Kind, metrics.ResultUnchanged)
		default:
			report.Rendered++
			b.recorder.IncPageResult(job.Kind, metrics.ResultWritten)
		}
	}

	report.finish(ctx.Err() != nil)
	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.IncBuildOutcome(string(report.Status))
	log.Info("Build finished",
		slog.String("status", string(report.Status)),
		slog.Int("rendered", report.Rendered),
		slog.Int("unchanged", report.Unchanged),
		slog.Int("failed", report.Failed()),
		logfields.DurationMS(float64(report.Duration().Microseconds())/1000))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// runJob resolves, renders and writes one page. Nothing is written unless
// every step of the chain rendered.
func (b *Builder) runJob(ctx context.Context, job Job) (output.Result, error) {
	chain, err := b.resolver.Resolve(ctx, job.Source)
	if err != nil {
		return output.ResultWritten, err
	}
	b.recorder.ObserveChainLength(job.Kind, len(chain))

	if job.Markdown {
		html, err := b.md.ConvertString(chain[0].Body)
		if err != nil {
			return output.ResultWritten, errors.TemplateRenderError("failed to convert markdown").
				WithContext("path", job.Source).WithCause(err).Build()
		}
		chain[0].Body = html
	}

	pipeline := render.NewPipeline(b.renderer, render.WithStepObserver(
		func(_ int, _ layout.Record, elapsed time.Duration, _ error) {
			b.recorder.ObserveRenderStep(job.Kind, elapsed)
		}))
	rc := render.NewContext(b.site, job.Page)
	content, err := pipeline.Render(ctx, chain, rc)
	if err != nil {
		return output.ResultWritten, err
	}

	res, err := b.writer.Write(job.Dest, content)
	if err != nil {
		return res, errors.FileSystemError("failed to write page").
			WithContext("path", job.Source).
			WithContext("output", job.Dest).
			WithCause(err).
			Build()
	}
	slog.Debug("Page built",
		logfields.Kind(job.Kind),
		logfields.Path(job.Source),
		logfields.Output(job.Dest),
		logfields.ChainLength(len(chain)),
		slog.String("result", res.String()))
	return res, nil
}

func (b *Builder) logFailure(log *slog.Logger, f Failure) {
	log.Error("Page build failed",
		logfields.Kind(f.Kind),
		logfields.Path(f.Source),
		logfields.Output(f.Dest),
		logfields.Category(string(errors.GetCategory(f.Err))),
		logfields.Error(f.Err))
}
