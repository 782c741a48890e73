package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/location"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/retry"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/workers"
)

// Outcome is what a fetch did to the checkout.
type Outcome string

const (
	OutcomeCloned   Outcome = "cloned"
	OutcomeUpdated  Outcome = "updated"
	OutcomeUpToDate Outcome = "up_to_date"
)

// Target is one repository to fetch.
type Target struct {
	Element string
	URL     string
	Ref     string
	Dir     string
	// Base is the directory Dir must stay strictly inside; empty skips the check.
	Base string
}

// Summary aggregates the outcomes of FetchAll.
type Summary struct {
	Cloned   int
	Updated  int
	UpToDate int
	Failures map[string]error
}

// Fetcher clones and updates element repositories.
type Fetcher struct {
	depth       int
	concurrency int
	policy      retry.Policy
	recorder    metrics.Recorder
	urlFor      func(location.Location) string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(f *Fetcher) {
		if r != nil {
			f.recorder = r
		}
	}
}

// WithURLResolver overrides how a location maps to a clone URL.
func WithURLResolver(fn func(location.Location) string) Option {
	return func(f *Fetcher) {
		if fn != nil {
			f.urlFor = fn
		}
	}
}

// NewFetcher creates a Fetcher from the fetch settings.
func NewFetcher(cfg config.Fetch, opts ...Option) *Fetcher {
	f := &Fetcher{
		depth:       cfg.Depth,
		concurrency: cfg.Concurrency,
		policy:      retry.FromFetch(cfg),
		recorder:    metrics.NoopRecorder{},
		urlFor:      location.Location.CloneURL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Targets lists the repository elements of s with their checkout directories.
func (f *Fetcher) Targets(s *site.Site) []Target {
	var out []Target
	for _, el := range s.Elements {
		if !el.Location.IsRepository() {
			continue
		}
		out = append(out, Target{
			Element: el.Name,
			URL:     f.urlFor(el.Location),
			Ref:     el.Location.Ref,
			Dir:     s.Config.Resolve(el.BaseDir),
			Base:    s.Config.Resolve(s.Config.OutDir),
		})
	}
	return out
}

// FetchAll fetches every target. A failing target never stops its siblings.
func (f *Fetcher) FetchAll(ctx context.Context, targets []Target) Summary {
	sum := Summary{Failures: map[string]error{}}
	results := workers.RunOrdered(ctx, targets, f.concurrency, f.Fetch)
	for i, res := range results {
		t := targets[i]
		if res.Err != nil {
			slog.Error("Fetch failed", logfields.Element(t.Element), logfields.URL(t.URL), logfields.Error(res.Err))
			sum.Failures[t.Element] = res.Err
			continue
		}
		switch res.Value {
		case OutcomeCloned:
			sum.Cloned++
		case OutcomeUpdated:
			sum.Updated++
		default:
			sum.UpToDate++
		}
	}
	return sum
}

// Fetch clones t into its directory, or updates an existing checkout.
func (f *Fetcher) Fetch(ctx context.Context, t Target) (Outcome, error) {
	var outcome Outcome
	start := time.Now()
	err := f.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		outcome, err = f.fetchOnce(ctx, t)
		return err
	}, errors.IsRetryable, func(attempt int, delay time.Duration, err error) {
		f.recorder.IncFetchRetry(t.Element)
		slog.Warn("Retrying fetch",
			logfields.Element(t.Element),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			logfields.Error(err))
	})
	f.recorder.ObserveFetchDuration(t.Element, time.Since(start), err == nil)
	if err != nil {
		return "", err
	}
	slog.Info("Fetched element", logfields.Element(t.Element), logfields.Path(t.Dir), slog.String("outcome", string(outcome)))
	return outcome, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, t Target) (Outcome, error) {
	if err := t.checkDir(); err != nil {
		return "", err
	}
	if _, err := os.Stat(filepath.Join(t.Dir, ".git")); err == nil {
		return f.update(ctx, t)
	}
	return f.clone(ctx, t)
}

func (f *Fetcher) clone(ctx context.Context, t Target) (Outcome, error) {
	if t.URL == "" {
		return "", errors.NewError(errors.CategoryGit, "no clone URL").WithContext("element", t.Element).Build()
	}
	if err := os.RemoveAll(t.Dir); err != nil {
		return "", errors.FileSystemError("failed to clear checkout directory").WithContext("path", t.Dir).WithCause(err).Build()
	}
	if err := os.MkdirAll(filepath.Dir(t.Dir), 0o755); err != nil {
		return "", errors.FileSystemError("failed to create vendor directory").WithContext("path", t.Dir).WithCause(err).Build()
	}

	slog.Debug("Cloning repository", logfields.Element(t.Element), logfields.URL(t.URL), slog.String("ref", t.Ref), logfields.Path(t.Dir))

	opts := &git.CloneOptions{URL: t.URL, Depth: f.depth, SingleBranch: t.Ref != ""}
	if t.Ref == "" {
		_, err := git.PlainCloneContext(ctx, t.Dir, false, opts)
		return OutcomeCloned, classify(err, "clone", t.URL)
	}

	// A ref names a branch or a tag.
	opts.ReferenceName = plumbing.NewBranchReferenceName(t.Ref)
	_, err := git.PlainCloneContext(ctx, t.Dir, false, opts)
	if err != nil && stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		_ = os.RemoveAll(t.Dir)
		opts.ReferenceName = plumbing.NewTagReferenceName(t.Ref)
		_, err = git.PlainCloneContext(ctx, t.Dir, false, opts)
	}
	if err != nil {
		_ = os.RemoveAll(t.Dir)
	}
	return OutcomeCloned, classify(err, "clone", t.URL)
}

func (f *Fetcher) update(ctx context.Context, t Target) (Outcome, error) {
	repo, err := git.PlainOpen(t.Dir)
	if err != nil {
		return "", classify(fmt.Errorf("open checkout: %w", err), "open", t.URL)
	}
	if t.Ref != "" {
		if _, err := repo.Tag(t.Ref); err == nil {
			return OutcomeUpToDate, nil
		}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", classify(fmt.Errorf("worktree: %w", err), "open", t.URL)
	}

	opts := &git.PullOptions{RemoteName: "origin", Depth: f.depth}
	if t.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(t.Ref)
		opts.SingleBranch = true
	}
	err = wt.PullContext(ctx, opts)
	if stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return OutcomeUpToDate, nil
	}
	if err != nil {
		return "", classify(err, "pull", t.URL)
	}
	return OutcomeUpdated, nil
}

// checkDir refuses checkout directories that escape Base, since clone clears
// the directory before writing into it.
func (t Target) checkDir() error {
	if t.Base == "" {
		return nil
	}
	rel, err := filepath.Rel(filepath.Clean(t.Base), filepath.Clean(t.Dir))
	if err == nil && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return errors.ValidationError("checkout directory is outside the output directory").
		WithContext("element", t.Element).
		WithContext("path", t.Dir).
		WithContext("base", t.Base).
		Build()
}
