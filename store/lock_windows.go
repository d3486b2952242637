//go:build windows
// +build windows

package store

import "os"

// Windows has no flock; the lock file is created but not held.
func acquireLock(lockFile string) (func(), error) {
	f, err := os.OpenFile(lockFile, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	return func() { _ = f.Close() }, nil
}
