// Package store persists small per-environment values, such as the last
// processed revision and the cached board shortlink.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Suffixes of the files holding each kind of value.
const (
	CheckpointSuffix = "_trello_last_commit.txt"
	ShortlinkSuffix  = "_trello_shortlink.txt"
)

var ErrLocked = errors.New("store: locked by another process")

type Interface interface {
	// Read returns the value stored for env. ok is false if nothing has been
	// stored yet. An empty value that was stored is returned with ok true.
	Read(env string) (value string, ok bool, err error)
	Write(env, value string) error
}

// Locker is implemented by stores that can guard an environment against
// concurrent runs.
type Locker interface {
	Lock(env string) (unlock func(), err error)
}

// File stores one value per environment in a plain text file named
// <env><suffix> in a directory.
type File struct {
	dir    string
	suffix string
}

func NewFile(dir, suffix string) *File {
	return &File{dir: dir, suffix: suffix}
}

func (f *File) Path(env string) (string, error) {
	if env == "" || env == "." || env == ".." || strings.ContainsAny(env, `/\`) {
		return "", fmt.Errorf("store: invalid environment name %q", env)
	}
	return filepath.Join(f.dir, env+f.suffix), nil
}

func (f *File) Read(env string) (string, bool, error) {
	p, err := f.Path(env)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(b)), true, nil
}

// Write replaces the value for env. The file is written to a temporary name
// and renamed into place so readers never see a partial value.
func (f *File) Write(env, value string) error {
	p, err := f.Path(env)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, filepath.Base(p)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Lock takes an advisory lock on env's file. It fails with ErrLocked instead
// of waiting if another process holds it.
func (f *File) Lock(env string) (func(), error) {
	p, err := f.Path(env)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return nil, err
	}
	return acquireLock(p + ".lock")
}
