package gitcli

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/jeffrom/cardhook/config"
)

func TestParseLogLine(t *testing.T) {
	tcs := []struct {
		name    string
		line    string
		id      string
		message string
		author  string
		wantErr bool
	}{
		{
			name:    "basic",
			line:    "abc1234|Fix bug [AbCd1234]|Jeff",
			id:      "abc1234",
			message: "Fix bug [AbCd1234]",
			author:  "Jeff",
		},
		{
			name:    "separator-in-message",
			line:    "abc1234|a | b | c|Jeff Rom",
			id:      "abc1234",
			message: "a | b | c",
			author:  "Jeff Rom",
		},
		{
			name:    "empty-message",
			line:    "abc1234||Jeff",
			id:      "abc1234",
			message: "",
			author:  "Jeff",
		},
		{
			// only the last separator ends the message, so a separator in
			// the author name ends up in the message.
			name:    "separator-in-author",
			line:    "abc1234|Fix bug|Jeff|Rom",
			id:      "abc1234",
			message: "Fix bug|Jeff",
			author:  "Rom",
		},
		{name: "one-separator", line: "abc1234|Jeff", wantErr: true},
		{name: "no-separator", line: "abc1234", wantErr: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseLogLine(tc.line)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", c)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if c.ID != tc.id || c.Message != tc.message || c.Author != tc.author {
				t.Fatalf("expected %q/%q/%q, got %q/%q/%q", tc.id, tc.message, tc.author, c.ID, c.Message, c.Author)
			}
		})
	}
}

func TestParseLog(t *testing.T) {
	out := []byte("aaa1111|second|Jeff\n\nbbb2222|first | with pipe|Jeff\n")
	commits, err := ParseLog(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	if commits[1].Message != "first | with pipe" {
		t.Fatalf("unexpected message: %q", commits[1].Message)
	}
}

func TestArgsString(t *testing.T) {
	s := ArgsString([]string{"commit", "-m", "a message"})
	if expect := `commit -m "a message"`; s != expect {
		t.Fatalf("expected %q, got %q", expect, s)
	}
}

func TestGit(t *testing.T) {
	if testing.Short() {
		t.Skip("-short")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	dir := t.TempDir()

	gitCmd(t, dir, "init")
	gitCmd(t, dir, "commit", "--allow-empty", "-m", "initial commit")
	gitCmd(t, dir, "commit", "--allow-empty", "-m", "Fix bug [AbCd1234] | really")

	git := New(config.New(nil), dir)
	first, err := git.CurrentCommit(ctx)
	if err != nil {
		t.Fatal(err)
	}

	commits, err := git.ReadCommits(ctx, "", first)
	if err != nil {
		t.Fatal(err)
	}
	if len(commits) != 1 {
		t.Fatalf("expected bootstrap to return 1 commit, got %d", len(commits))
	}
	if commits[0].Message != "Fix bug [AbCd1234] | really" {
		t.Fatalf("unexpected message: %q", commits[0].Message)
	}
	if commits[0].Author != "cardhook-test" {
		t.Fatalf("unexpected author: %q", commits[0].Author)
	}
	if !strings.HasPrefix(first, commits[0].ID) {
		t.Fatalf("expected %q to be a prefix of HEAD %q", commits[0].ID, first)
	}

	gitCmd(t, dir, "commit", "--allow-empty", "-m", "second [EfGh5678]")
	gitCmd(t, dir, "commit", "--allow-empty", "-m", "third")
	head, err := git.CurrentCommit(ctx)
	if err != nil {
		t.Fatal(err)
	}
	commits, err = git.ReadCommits(ctx, first, head)
	if err != nil {
		t.Fatal(err)
	}
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits in range, got %d", len(commits))
	}
	if commits[0].Message != "third" || commits[1].Message != "second [EfGh5678]" {
		t.Fatalf("unexpected commits: %v, %v", commits[0], commits[1])
	}

	ok, err := git.CommitExists(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected %s to exist", first)
	}
	ok, err = git.CommitExists(ctx, "0123456789abcdef0123456789abcdef01234567")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected unknown revision to not exist")
	}
}

func TestGitNoRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("-short")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	git := New(config.New(nil), t.TempDir())
	if _, err := git.CurrentCommit(context.Background()); err == nil {
		t.Fatal("expected error outside of a repository")
	}
}

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	t.Logf("+ git %s", ArgsString(args))
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=cardhook-test",
		"GIT_AUTHOR_EMAIL=cardhook-test@example.com",
		"GIT_COMMITTER_NAME=cardhook-test",
		"GIT_COMMITTER_EMAIL=cardhook-test@example.com",
		"GIT_CONFIG_NOSYSTEM=1",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %q: %v\n%s", args, err, out)
	}
}
