// Package gitcli implements vcs.Interface using the git commandline tool.
package gitcli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jeffrom/cardhook/config"
	"github.com/jeffrom/cardhook/model"
	"github.com/jeffrom/cardhook/vcs"
)

// Git implements vcs.Interface using the git commandline tool.
type Git struct {
	cfg config.Config
	wd  string
}

func New(cfg config.Config, wd string) *Git {
	return &Git{
		cfg: cfg,
		wd:  wd,
	}
}

// LogFormat is the git log format ReadCommits parses. The subject may itself
// contain the separator.
const LogFormat = "%h|%s|%cn"

const expectedLogParts = 3

func (g *Git) CurrentCommit(ctx context.Context) (string, error) {
	b, err := g.call(ctx, []string{"rev-parse", "HEAD"})
	if err != nil {
		return "", err
	}
	rev := strings.TrimSpace(string(b))
	if rev == "" {
		return "", vcs.NotFoundError{Ref: "HEAD"}
	}
	return rev, nil
}

func (g *Git) CommitExists(ctx context.Context, rev string) (bool, error) {
	if rev == "" || strings.HasPrefix(rev, "-") {
		return false, nil
	}
	_, err := g.call(ctx, []string{"rev-parse", "--verify", "--quiet", rev + "^{commit}"})
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (g *Git) ReadCommits(ctx context.Context, since, until string) ([]*model.Commit, error) {
	args := []string{"log", "--pretty=tformat:" + LogFormat}
	if since == "" {
		args = append(args, "-n", "1")
		if until != "" {
			args = append(args, until)
		}
	} else {
		if until == "" {
			until = "HEAD"
		}
		args = append(args, since+".."+until)
	}
	args = append(args, "--")

	b, err := g.call(ctx, args)
	if err != nil {
		return nil, err
	}
	return ParseLog(b)
}

// ParseLog parses git log output in LogFormat, one commit per line.
func ParseLog(b []byte) ([]*model.Commit, error) {
	var commits []*model.Commit
	scanner := bufio.NewScanner(bytes.NewBuffer(b))
	for scanner.Scan() {
		s := scanner.Text()
		if strings.TrimSpace(s) == "" {
			continue
		}
		commit, err := ParseLogLine(s)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return commits, nil
}

// ParseLogLine parses a single "id|message|author" line. The id ends at the
// first separator and the author starts after the last one; everything in
// between is the message, separators included.
func ParseLogLine(s string) (*model.Commit, error) {
	first := strings.Index(s, "|")
	last := strings.LastIndex(s, "|")
	if first < 0 || first == last {
		n := strings.Count(s, "|") + 1
		return nil, fmt.Errorf("gitcli: expected %d parts from git log, got %d: %q", expectedLogParts, n, s)
	}
	return &model.Commit{
		ID:      s[:first],
		Message: s[first+1 : last],
		Author:  s[last+1:],
	}, nil
}
