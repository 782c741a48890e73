package render

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/layout"
)

// StepObserver is notified after each chain step.
type StepObserver func(step int, rec layout.Record, elapsed time.Duration, err error)

// Pipeline renders a layout chain as a sequential fold.
type Pipeline struct {
	renderer Renderer
	observer StepObserver
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithStepObserver sets the step observer.
func WithStepObserver(o StepObserver) PipelineOption {
	return func(p *Pipeline) { p.observer = o }
}

// NewPipeline creates a Pipeline over r.
func NewPipeline(r Renderer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{renderer: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render folds chain through the renderer, originating file first.
//
// Each record's attributes are merged into rc.Page before that record renders,
// and rc.Content holds the previous step's output ("" for the first step).
// The first failure stops the fold; later records are never rendered.
func (p *Pipeline) Render(ctx context.Context, chain layout.Chain, rc *Context) (string, error) {
	if len(chain) == 0 {
		return "", errors.InternalError("cannot render an empty layout chain").Build()
	}

	running := ""
	for i, rec := range chain {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		rc.Page.Merge(rec.Attributes)
		rc.Content = running

		start := time.Now()
		out, err := p.renderer.Render(ctx, rec.Path, rec.Body, rc.Data())
		if p.observer != nil {
			p.observer(i, rec, time.Since(start), err)
		}
		if err != nil {
			return "", errors.TemplateRenderError("failed to render template").
				WithContext("path", rec.Path).
				WithContext("step", i).
				WithContext("chain", chain.String()).
				WithCause(err).
				Build()
		}
		running = out
	}
	rc.Content = running
	return running, nil
}
