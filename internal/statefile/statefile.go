// Package statefile reads the plain-text files the daemon keeps in its
// runtime directory: the state file and its audio level sibling.
package statefile

import (
	"math"
	"path/filepath"
	"strconv"

	"voxtype/internal/fileutil"
	"voxtype/internal/status"
)

// LevelFileName is the level file written next to the state file while recording.
const LevelFileName = "audio_level"

// ReadState returns the trimmed state text. The boolean is false when the
// file is missing or unreadable.
func ReadState(path string) (status.State, bool) {
	raw, ok := fileutil.ReadTrimmed(path)
	if !ok {
		return "", false
	}
	return status.State(raw), true
}

// LevelPath returns the level file path for a state file.
func LevelPath(statePath string) string {
	return filepath.Join(filepath.Dir(statePath), LevelFileName)
}

// ReadLevel returns the current audio level, or nil when the level file is
// missing, unparseable or outside [0,1]. Out-of-range values are never clamped.
func ReadLevel(statePath string) *float64 {
	raw, ok := fileutil.ReadTrimmed(LevelPath(statePath))
	if !ok {
		return nil
	}
	level, ok := ParseLevel(raw)
	if !ok {
		return nil
	}
	return &level
}

// ParseLevel parses a level value, accepting only finite numbers in [0,1].
func ParseLevel(raw string) (float64, bool) {
	level, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(level) || level < 0 || level > 1 {
		return 0, false
	}
	return level, true
}

// SameLevel reports whether two optional levels are equal.
func SameLevel(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
