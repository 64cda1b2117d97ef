package git

import (
	stderrors "errors"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// ErrNoRepository indicates the path is not inside a git repository.
var ErrNoRepository = stderrors.New("not a git repository")

// classifyGitError wraps go-git failures into git-category ClassifiedErrors.
func classifyGitError(err error, op, path string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}
	return errors.GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("path", path).
		Build()
}
