package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffrom/cardhook/model"
)

// Scan returns the commits added since the last scan of env and records the
// current HEAD as scanned before returning them. Commits are returned newest
// first. In dryrun mode nothing is recorded.
//
// The first scan of an environment, or one whose previous revision has
// since been rewritten out of history, returns only the latest commit.
func (r *Runner) Scan(ctx context.Context, env string) ([]*model.Commit, error) {
	if r.vcs == nil || r.checkpoints == nil {
		return nil, errors.New("runner: scanning requires vcs and a checkpoint store")
	}

	head, err := r.vcs.CurrentCommit(ctx)
	if err != nil {
		return nil, fmt.Errorf("runner: resolve HEAD: %w", err)
	}

	since := r.lastCommit(ctx, env)

	if r.cfg.Dryrun {
		r.cfg.Printf(" * would record %s as last commit for %s (dryrun)", head, env)
	} else if err := r.checkpoints.Write(env, head); err != nil {
		r.cfg.Errorf(" * failed to write checkpoint for %s: %v", env, err)
	}

	if since == head {
		r.cfg.Debugf(" * no new commits since %s", head)
		return nil, nil
	}

	commits, err := r.vcs.ReadCommits(ctx, since, head)
	if err != nil {
		r.cfg.Errorf(" * failed to read commits: %v", err)
		return nil, nil
	}
	r.cfg.Debugf(" * scanned %d commit(s) up to %s", len(commits), head)
	return commits, nil
}

// lastCommit returns the previously scanned revision for env, or an empty
// string if there is none or it no longer exists.
func (r *Runner) lastCommit(ctx context.Context, env string) string {
	prev, ok, err := r.checkpoints.Read(env)
	if err != nil {
		r.cfg.Errorf(" * failed to read checkpoint for %s: %v", env, err)
		return ""
	}
	if !ok || prev == "" {
		return ""
	}

	exists, err := r.vcs.CommitExists(ctx, prev)
	if err != nil {
		r.cfg.Debugf(" * failed to verify last commit %s: %v", prev, err)
		return ""
	}
	if !exists {
		r.cfg.Printf(" * last processed commit %s is gone, processing latest commit only", prev)
		return ""
	}
	return prev
}
