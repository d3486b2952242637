package config

import (
	"fmt"
	"io"
	"os"
)

// TerminalIO is where a hook run reads the deploy message from and writes
// progress and errors to.
type TerminalIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var DefaultTermIO = TerminalIO{
	Stdin:  os.Stdin,
	Stdout: os.Stdout,
	Stderr: os.Stderr,
}

func (t *TerminalIO) Printf(msg string, args ...interface{}) {
	if t.Stdout == nil {
		return
	}
	fmt.Fprintf(t.Stdout, msg, args...)
}

// Errorf writes to Stderr, falling back to Stdout when no Stderr is set.
func (t *TerminalIO) Errorf(msg string, args ...interface{}) {
	w := t.Stderr
	if w == nil {
		w = t.Stdout
	}
	if w == nil {
		return
	}
	fmt.Fprintf(w, msg, args...)
}
