package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sosedoff/gitkit"
)

type gitServer struct {
	cfg  gitkit.Config
	dir  string
	svc  *gitkit.Server
	http *httptest.Server
}

func newGitServer(t *testing.T) *gitServer {
	t.Helper()
	dir := t.TempDir()
	cfg := gitkit.Config{
		Dir:        dir,
		AutoCreate: true,
	}
	return &gitServer{
		dir: dir,
		cfg: cfg,
		svc: gitkit.New(cfg),
	}
}

func (g *gitServer) start(t *testing.T) net.Addr {
	t.Helper()
	t.Log("Setting up git server...")
	if err := g.svc.Setup(); err != nil {
		t.Fatal(err)
	}
	g.http = httptest.NewUnstartedServer(g.svc)
	g.http.Start()
	addr := g.http.Listener.Addr()
	t.Logf("Test git server listening: %s", addr)
	return addr
}

func (g *gitServer) stop(t *testing.T) {
	t.Logf("Stopping git server")
	g.http.Close()
}

// Deploys are fresh clones, so once a branch is force-pushed the previously
// deployed revision no longer exists and only the latest commit is handled.
func TestCommentAfterForcePush(t *testing.T) {
	requireGit(t)
	if runtime.GOOS == "windows" {
		t.Skip("windows not supported (gitkit uses syscall.Kill)")
	}
	setSecrets(t)
	ctx := context.Background()
	fake := &fakeBoard{}
	boardURL := startBoard(t, fake)
	stateDir := t.TempDir()
	cfgFile := emptyConfig(t)

	srv := newGitServer(t)
	addr := srv.start(t)
	defer srv.stop(t)
	cloneURL := fmt.Sprintf("http://%s/site.git", addr)

	work := t.TempDir()
	call(ctx, t, work, "init")
	call(ctx, t, work, "symbolic-ref", "HEAD", "refs/heads/master")
	call(ctx, t, work, "remote", "add", "origin", cloneURL)
	call(ctx, t, work, "commit", "--allow-empty", "-m", "initial commit")
	call(ctx, t, work, "commit", "--allow-empty", "-m", "first [AbCd1234]")
	call(ctx, t, work, "push", "origin", "master")

	deploy := func(name string) {
		t.Helper()
		dir := filepath.Join(t.TempDir(), name)
		call(ctx, t, "", "clone", "-b", "master", cloneURL, dir)
		callCardhook(t, "-c", cfgFile, "-C", dir, "--env", "dev", "--url", "dev-site.example.com", "--board-url", boardURL, "--state-dir", stateDir, "comment")
	}

	deploy("deploy1")
	if n := len(fake.Calls(http.MethodPost)); n != 1 {
		t.Fatalf("expected 1 comment after the first deploy, got %d", n)
	}

	// rewrite the deployed commit out of history.
	call(ctx, t, work, "reset", "--hard", "HEAD~1")
	call(ctx, t, work, "commit", "--allow-empty", "-m", "rewritten [EfGh5678]")
	call(ctx, t, work, "commit", "--allow-empty", "-m", "latest [mNbVcXz1]")
	call(ctx, t, work, "push", "--force", "origin", "master")

	deploy("deploy2")
	comments := fake.Calls(http.MethodPost)
	if len(comments) != 2 {
		t.Fatalf("expected exactly one more comment, got %+v", comments)
	}
	if comments[1].Path != "/1/cards/mNbVcXz1/actions/comments" {
		t.Fatalf("expected only the latest commit to be handled, got %+v", comments[1])
	}

	if _, err := os.Stat(filepath.Join(stateDir, "dev_trello_last_commit.txt")); err != nil {
		t.Fatal(err)
	}
}
