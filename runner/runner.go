// Package runner drives a single hook invocation: scanning new commits,
// resolving them to cards and notifying the board.
package runner

import (
	"context"
	"errors"
	"text/template"

	"github.com/jeffrom/cardhook/board"
	"github.com/jeffrom/cardhook/card"
	"github.com/jeffrom/cardhook/config"
	"github.com/jeffrom/cardhook/store"
	"github.com/jeffrom/cardhook/vcs"
)

// RunContext describes the deploy that triggered the run. It is built once
// at startup.
type RunContext struct {
	Environment   string
	PublicURL     string
	DeployMessage string
}

func NewRunContext(cfg config.Config, deployMessage string) RunContext {
	return RunContext{
		Environment:   cfg.Environment,
		PublicURL:     cfg.PublicURL,
		DeployMessage: deployMessage,
	}
}

type Runner struct {
	cfg         config.Config
	vcs         vcs.Interface
	board       board.Interface
	checkpoints store.Interface
	resolver    *card.Resolver
	comment     *template.Template
}

// New returns a Runner. vcs, checkpoints and resolver are only used by
// Comment and may be nil for a Runner that only moves cards.
func New(cfg config.Config, vcs vcs.Interface, b board.Interface, checkpoints store.Interface, resolver *card.Resolver) (*Runner, error) {
	if b == nil {
		return nil, errors.New("runner: board is required")
	}
	tmpl, err := newCommentTemplate(cfg.CommentTemplate)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:         cfg,
		vcs:         vcs,
		board:       b,
		checkpoints: checkpoints,
		resolver:    resolver,
		comment:     tmpl,
	}, nil
}

// lock guards env against concurrent runs if the checkpoint store supports
// it. ok is false if another run holds the lock.
func (r *Runner) lock(env string) (unlock func(), ok bool, err error) {
	locker, isLocker := r.checkpoints.(store.Locker)
	if !isLocker {
		return func() {}, true, nil
	}
	unlock, err = locker.Lock(env)
	if err != nil {
		if errors.Is(err, store.ErrLocked) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return unlock, true, nil
}

// Move moves every card tagged in the deploy message to listID.
func (r *Runner) Move(ctx context.Context, rc RunContext, listID string) *Summary {
	summary := NewSummary()
	ids := card.ParseIDs(rc.DeployMessage)
	if len(ids) == 0 {
		r.cfg.Debugf(" * no cards in deploy message")
		return summary
	}

	for _, id := range ids {
		r.cfg.Printf(" * moving %s to list %s", id, listID)
		if err := r.board.MoveCard(ctx, id, listID); err != nil {
			r.cfg.Errorf(" * failed to move %s: %v", id, err)
			summary.Add(BucketFailed, id, 1)
			continue
		}
		summary.Add(BucketMoved, id, 1)
	}
	return summary
}
