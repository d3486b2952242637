package store

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir, CheckpointSuffix)

	v, ok, err := f.Read("dev")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != "" {
		t.Fatalf("expected no value, got %q (ok=%v)", v, ok)
	}

	if err := f.Write("dev", "abc1234\n"); err != nil {
		t.Fatal(err)
	}
	v, ok, err = f.Read("dev")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != "abc1234" {
		t.Fatalf("expected trimmed value, got %q (ok=%v)", v, ok)
	}

	if err := f.Write("dev", "def5678"); err != nil {
		t.Fatal(err)
	}
	v, _, _ = f.Read("dev")
	if v != "def5678" {
		t.Fatalf("expected overwritten value, got %q", v)
	}

	b, err := os.ReadFile(filepath.Join(dir, "dev_trello_last_commit.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "def5678" {
		t.Fatalf("unexpected file contents: %q", b)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the value file in %s, got %d entries", dir, len(entries))
	}
}

func TestFileEmptyValue(t *testing.T) {
	f := NewFile(t.TempDir(), ShortlinkSuffix)
	if err := f.Write("feature1", ""); err != nil {
		t.Fatal(err)
	}
	v, ok, err := f.Read("feature1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != "" {
		t.Fatalf("expected stored empty value, got %q (ok=%v)", v, ok)
	}
}

func TestFileEnvironmentsAreSeparate(t *testing.T) {
	dir := t.TempDir()
	checkpoints := NewFile(dir, CheckpointSuffix)
	shortlinks := NewFile(dir, ShortlinkSuffix)

	if err := checkpoints.Write("dev", "aaa"); err != nil {
		t.Fatal(err)
	}
	if err := checkpoints.Write("test", "bbb"); err != nil {
		t.Fatal(err)
	}
	if err := shortlinks.Write("dev", "x1y2z3a4"); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		s      *File
		env    string
		expect string
	}{
		{checkpoints, "dev", "aaa"},
		{checkpoints, "test", "bbb"},
		{shortlinks, "dev", "x1y2z3a4"},
	} {
		v, ok, err := tc.s.Read(tc.env)
		if err != nil {
			t.Fatal(err)
		}
		if !ok || v != tc.expect {
			t.Fatalf("%s: expected %q, got %q", tc.env, tc.expect, v)
		}
	}
	if _, ok, _ := shortlinks.Read("test"); ok {
		t.Fatal("expected no shortlink for test")
	}
}

func TestFileInvalidEnvironment(t *testing.T) {
	f := NewFile(t.TempDir(), CheckpointSuffix)
	for _, env := range []string{"", ".", "..", "../dev", "a/b", `a\b`} {
		if err := f.Write(env, "x"); err == nil {
			t.Errorf("expected write for %q to fail", env)
		}
		if _, _, err := f.Read(env); err == nil {
			t.Errorf("expected read for %q to fail", env)
		}
	}
}

func TestFileLock(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows not supported (no flock)")
	}
	f := NewFile(t.TempDir(), CheckpointSuffix)

	unlock, err := f.Lock("dev")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.Lock("dev"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	other, err := f.Lock("test")
	if err != nil {
		t.Fatalf("expected other environment to be lockable: %v", err)
	}
	other()

	unlock()
	again, err := f.Lock("dev")
	if err != nil {
		t.Fatalf("expected lock to be released: %v", err)
	}
	again()
}

func TestMemory(t *testing.T) {
	m := NewMemory().Set("dev", "abc")
	v, ok, _ := m.Read("dev")
	if !ok || v != "abc" {
		t.Fatalf("expected abc, got %q", v)
	}
	if err := m.Write("dev", "def"); err != nil {
		t.Fatal(err)
	}
	if m.Writes() != 1 || m.Reads() != 1 {
		t.Fatalf("unexpected counters: reads=%d writes=%d", m.Reads(), m.Writes())
	}

	unlock, err := m.Lock("dev")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Lock("dev"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	unlock()
}
