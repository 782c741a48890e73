package build

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// Status is the overall outcome of a build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusPartial  Status = "partial"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Failure is one job that did not produce output.
type Failure struct {
	Kind   string
	Source string
	Dest   string
	Err    error
}

// Report summarizes a build. Failures follow job planning order.
type Report struct {
	BuildID   string
	Start     time.Time
	End       time.Time
	Pages     int
	Rendered  int
	Unchanged int
	Failures  []Failure
	Status    Status
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Failed is the number of jobs that failed.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// Err returns a build error when any job failed, nil otherwise.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return errors.BuildError(fmt.Sprintf("%d of %d pages failed", len(r.Failures), r.Pages)).
		WithContext("build_id", r.BuildID).
		WithCause(r.Failures[0].Err).
		Build()
}

func (r *Report) finish(canceled bool) {
	r.End = time.Now()
	switch {
	case canceled:
		r.Status = StatusCanceled
	case len(r.Failures) == 0:
		r.Status = StatusSuccess
	case len(r.Failures) < r.Pages:
		r.Status = StatusPartial
	default:
		r.Status = StatusFailed
	}
}
