package runner

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/jeffrom/cardhook/config"
	"github.com/jeffrom/cardhook/model"
)

type commentData struct {
	Author      string
	Message     string
	Environment string
	URL         string
	Commit      *model.Commit
}

func newCommentTemplate(s string) (*template.Template, error) {
	if s == "" {
		s = config.DefaultCommentTemplate
	}
	t, err := template.New("comment").Parse(s)
	if err != nil {
		return nil, fmt.Errorf("runner: invalid comment template: %w", err)
	}
	return t, nil
}

func (r *Runner) renderComment(rc RunContext, c *model.Commit) (string, error) {
	b := &bytes.Buffer{}
	err := r.comment.Execute(b, commentData{
		Author:      c.Author,
		Message:     c.Message,
		Environment: rc.Environment,
		URL:         rc.PublicURL,
		Commit:      c,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Comment posts a comment to each card for every new commit that references
// it. Board failures are logged and counted in the summary; only failing to
// resolve HEAD is returned as an error.
func (r *Runner) Comment(ctx context.Context, rc RunContext) (*Summary, error) {
	summary := NewSummary()
	if r.resolver == nil {
		return nil, fmt.Errorf("runner: commenting requires a card resolver")
	}

	unlock, ok, err := r.lock(rc.Environment)
	if err != nil {
		return nil, err
	}
	if !ok {
		r.cfg.Printf(" * another run for %s is in progress, skipping", rc.Environment)
		return summary, nil
	}
	defer unlock()

	commits, err := r.Scan(ctx, rc.Environment)
	if err != nil {
		return nil, err
	}
	summary.Commits = int64(len(commits))

	// oldest first, so comments read in commit order.
	ordered := make([]*model.Commit, len(commits))
	for i, c := range commits {
		ordered[len(commits)-1-i] = c
	}

	group, err := r.resolver.Resolve(ctx, rc.Environment, ordered)
	if err != nil {
		r.cfg.Errorf(" * failed to resolve cards: %v", err)
		return summary, nil
	}

	for _, cardID := range group.CardIDs() {
		for _, commitID := range group.CommitIDs(cardID) {
			text, err := r.renderComment(rc, group.Commit(commitID))
			if err != nil {
				r.cfg.Errorf(" * failed to render comment for %s: %v", commitID, err)
				summary.Add(BucketFailed, cardID, 1)
				continue
			}

			r.cfg.Printf(" * commenting on %s", cardID)
			if err := r.board.PostComment(ctx, cardID, text); err != nil {
				r.cfg.Errorf(" * failed to comment on %s: %v", cardID, err)
				summary.Add(BucketFailed, cardID, 1)
				continue
			}
			summary.Add(BucketCommented, cardID, 1)
		}
	}
	return summary, nil
}
