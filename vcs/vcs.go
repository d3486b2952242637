// Package vcs abstracts version control systems. Currently just git.
package vcs

import (
	"context"
	"fmt"

	"github.com/jeffrom/cardhook/model"
)

type NotFoundError struct {
	Ref string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("vcs: ref %q not found", e.Ref)
}

type Interface interface {
	// CurrentCommit returns the revision HEAD points to.
	CurrentCommit(ctx context.Context) (string, error)
	// CommitExists reports whether rev resolves to a commit in history.
	CommitExists(ctx context.Context, rev string) (bool, error)
	// ReadCommits returns the commits in (since, until]. If since is empty,
	// only the most recent commit is returned.
	ReadCommits(ctx context.Context, since, until string) ([]*model.Commit, error)
}
