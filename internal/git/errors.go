package git

import (
	stderrors "errors"
	"net"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// classify wraps a go-git error in a git-category ClassifiedError. Transient
// errors are marked retryable; authentication, missing repositories and
// missing references are not.
func classify(err error, op, url string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	b := errors.NewError(errors.CategoryGit, "git "+op+" failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("url", url)
	if !isPermanent(err) {
		b.Retryable()
	}
	return b.Build()
}

func isPermanent(err error) bool {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "auth") || strings.Contains(msg, "permission") || strings.Contains(msg, "denied") {
		return true
	}
	if strings.Contains(msg, "not found") || strings.Contains(msg, "no such remote") || strings.Contains(msg, "invalid reference") {
		return true
	}
	if strings.Contains(msg, "unsupported protocol") {
		return true
	}
	var nerr net.Error
	if stderrors.As(err, &nerr) {
		return !nerr.Timeout()
	}
	return false
}
