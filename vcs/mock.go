package vcs

import (
	"context"
	"errors"
	"strings"

	"github.com/jeffrom/cardhook/model"
)

// Mock is a linear, in-memory history. Commits are ordered newest first, the
// way git log prints them.
type Mock struct {
	commits []*model.Commit
	headErr error
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SetCommits(commits ...*model.Commit) *Mock {
	finalCommits := make([]*model.Commit, len(commits))
	for i, commit := range commits {
		c := *commit
		finalCommits[i] = &c
	}
	m.commits = finalCommits
	return m
}

// AddCommits puts commits on top of the existing history.
func (m *Mock) AddCommits(commits ...*model.Commit) *Mock {
	return m.SetCommits(append(commits, m.commits...)...)
}

// SetHeadError makes CurrentCommit fail with err.
func (m *Mock) SetHeadError(err error) *Mock {
	m.headErr = err
	return m
}

func (m *Mock) CurrentCommit(ctx context.Context) (string, error) {
	if m.headErr != nil {
		return "", m.headErr
	}
	if len(m.commits) == 0 {
		return "", NotFoundError{Ref: "HEAD"}
	}
	return m.commits[0].ID, nil
}

func (m *Mock) CommitExists(ctx context.Context, rev string) (bool, error) {
	return m.indexOf(rev) >= 0, nil
}

func (m *Mock) ReadCommits(ctx context.Context, since, until string) ([]*model.Commit, error) {
	if len(m.commits) == 0 {
		return nil, errors.New("vcs mock: no commits")
	}
	start := 0
	if until != "" {
		start = m.indexOf(until)
		if start < 0 {
			return nil, NotFoundError{Ref: until}
		}
	}
	if since == "" {
		return m.copyRange(start, start+1), nil
	}
	end := m.indexOf(since)
	if end < 0 {
		return nil, NotFoundError{Ref: since}
	}
	if end < start {
		return nil, nil
	}
	return m.copyRange(start, end), nil
}

func (m *Mock) indexOf(rev string) int {
	if rev == "" {
		return -1
	}
	for i, c := range m.commits {
		if c.ID == rev || strings.HasPrefix(c.ID, rev) || strings.HasPrefix(rev, c.ID) {
			return i
		}
	}
	return -1
}

func (m *Mock) copyRange(start, end int) []*model.Commit {
	var res []*model.Commit
	for _, c := range m.commits[start:end] {
		cc := *c
		res = append(res, &cc)
	}
	return res
}
