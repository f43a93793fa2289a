package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(reportError(err))
	}
}

// reportError prints err unless the command already explained itself, and
// returns the process exit code.
func reportError(err error) int {
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	return 1
}

// exitError ends the process with code after the command has printed its
// own remediation text.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func exitWith(code int) error { return &exitError{code: code} }
