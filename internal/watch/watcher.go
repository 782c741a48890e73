package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// DefaultDebounce is the quiet period between the last event and a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc performs one complete build.
type BuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// Interval schedules periodic rebuilds; zero disables them.
	Interval time.Duration
	// SourcesFor recomputes the watched sources after each build, so that
	// directories added to the metadata file are picked up. Optional.
	SourcesFor func() Sources
}

// Watcher rebuilds on change.
type Watcher struct {
	build      BuildFunc
	sources    Sources
	opts       Options
	rebuildReq chan struct{}
	trigger    func()
	mu         sync.RWMutex
}

// New creates a Watcher for the given sources.
func New(build BuildFunc, sources Sources, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	w := &Watcher{
		build:      build,
		sources:    sources,
		opts:       opts,
		rebuildReq: make(chan struct{}, 1),
	}
	w.trigger = setupRebuildDebouncer(opts.Debounce, w.request)
	return w
}

// Run builds once, then watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	w.runBuild(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	w.addSources(watcher)

	var sched *Scheduler
	if w.opts.Interval > 0 {
		sched, err = NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.ScheduleRebuild(w.opts.Interval, w.request); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}()
	}

	done := w.startRebuildWorker(ctx, watcher)
	defer func() { <-done }()

	sources := w.currentSources()
	slog.Info("Watching for changes", slog.Int("dirs", len(sources.Dirs)), slog.Int("files", len(sources.Files)))
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(watcher, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// request asks for a rebuild. Requests made while one is pending coalesce.
func (w *Watcher) request() {
	select {
	case w.rebuildReq <- struct{}{}:
	default:
	}
}

// setupRebuildDebouncer returns a trigger that calls fire once events have
// been quiet for delay.
func setupRebuildDebouncer(delay time.Duration, fire func()) func() {
	var mu sync.Mutex
	var timer *time.Timer
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, fire)
	}
}

// startRebuildWorker processes rebuild requests one at a time. The request
// channel holds at most one entry, so any number of requests made during a
// build yield exactly one follow-up build.
func (w *Watcher) startRebuildWorker(ctx context.Context, watcher *fsnotify.Watcher) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.rebuildReq:
				slog.Info("Change detected; rebuilding site")
				w.runBuild(ctx)
				if w.opts.SourcesFor != nil && watcher != nil {
					w.setSources(w.opts.SourcesFor())
					w.addSources(watcher)
				}
			}
		}
	}()
	return done
}

func (w *Watcher) runBuild(ctx context.Context) {
	start := time.Now()
	if err := w.build(ctx); err != nil {
		slog.Warn("Build failed", logfields.Error(err))
		return
	}
	slog.Debug("Build completed", logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
}

func (w *Watcher) currentSources() Sources {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.sources
}

func (w *Watcher) setSources(s Sources) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sources = s
}

func (w *Watcher) addSources(watcher *fsnotify.Watcher) {
	sources := w.currentSources()
	for _, dir := range sources.Dirs {
		_ = addDirsRecursive(watcher, dir, sources)
	}
	for _, f := range sources.Files {
		if err := watcher.Add(filepath.Dir(f)); err != nil {
			slog.Warn("Watch add failed", logfields.Path(f), logfields.Error(err))
		}
	}
}

// handleFileEvent processes a filesystem event and triggers rebuild if needed.
func (w *Watcher) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	sources := w.currentSources()
	if !sources.relevant(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name, sources)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string, s Sources) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if s.ignored(path) || path != root && shouldIgnoreEvent(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}
