// Package mailbox writes the one-shot override files the daemon consumes at
// the next recording start, plus the cancel trigger. Each kind has a fixed
// file in the runtime directory and is replaced atomically.
package mailbox

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"voxtype/internal/fileutil"
)

// Kind identifies a mailbox file.
type Kind string

const (
	OutputMode Kind = "output_mode_override"
	Model      Kind = "model_override"
	Profile    Kind = "profile_override"
	Cancel     Kind = "cancel"
)

// CancelContent is the payload written to the cancel mailbox.
const CancelContent = "cancel"

// Path returns the file backing kind inside runtimeDir.
func Path(runtimeDir string, kind Kind) string {
	return filepath.Join(runtimeDir, string(kind))
}

// Write atomically replaces the mailbox file for kind.
func Write(runtimeDir string, kind Kind, content string) error {
	if err := fileutil.WriteFileAtomic(Path(runtimeDir, kind), []byte(content), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	return nil
}

// OutputModes lists the accepted output mode override values.
var OutputModes = []string{"type", "clipboard", "paste", "file"}

// ErrInvalidOutputMode reports an output mode outside OutputModes.
var ErrInvalidOutputMode = errors.New("invalid output mode")

// ParseOutputMode validates an output mode and returns its mailbox payload.
// "file:PATH" is accepted; an empty path collapses to "file".
func ParseOutputMode(value string) (string, error) {
	mode := strings.TrimSpace(value)
	if rest, ok := strings.CutPrefix(mode, "file:"); ok {
		if strings.TrimSpace(rest) == "" {
			return "file", nil
		}
		return "file:" + rest, nil
	}
	for _, candidate := range OutputModes {
		if mode == candidate {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w %q (expected one of %s, or file:PATH)", ErrInvalidOutputMode, value, strings.Join(OutputModes, ", "))
}

// FileOutputMode builds the output mode payload for a --file request.
func FileOutputMode(path string) string {
	if strings.TrimSpace(path) == "" {
		return "file"
	}
	return "file:" + path
}
