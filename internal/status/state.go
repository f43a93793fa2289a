package status

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// State is the daemon state text as persisted in the state file.
type State string

const (
	Idle         State = "idle"
	Recording    State = "recording"
	Transcribing State = "transcribing"
	// Stopped is never written by the daemon; readers synthesize it when
	// the daemon is not alive.
	Stopped State = "stopped"
)

// ParseState trims raw state-file content. Unknown values are kept verbatim.
func ParseState(raw string) State {
	return State(strings.TrimSpace(raw))
}

// Known reports whether s is one of the four defined states.
func (s State) Known() bool {
	switch s {
	case Idle, Recording, Transcribing, Stopped:
		return true
	default:
		return false
	}
}

func (s State) String() string { return string(s) }

// Label returns a human-readable form of the state, e.g. "Recording".
func (s State) Label() string {
	if s == "" {
		return "Unknown"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

// ExtendedInfo carries static daemon configuration shown in extended output.
type ExtendedInfo struct {
	Model   string
	Device  string
	Backend string
}

// Snapshot is one observation of the daemon. Level is nil when no valid
// level was read; Extended is nil unless extended output was requested.
type Snapshot struct {
	State    State
	Level    *float64
	Extended *ExtendedInfo
}

// Icons maps each state to the glyph shown in the record's text field.
type Icons struct {
	Idle         string
	Recording    string
	Transcribing string
	Stopped      string
}

// For returns the icon for s, using the idle icon for unknown states.
func (i Icons) For(s State) string {
	switch s {
	case Recording:
		return i.Recording
	case Transcribing:
		return i.Transcribing
	case Stopped:
		return i.Stopped
	default:
		return i.Idle
	}
}
