package tray

import "voxtype/internal/status"

// State is the tray's view of the daemon.
type State int

const (
	Idle State = iota
	Recording
	Transcribing
	Stopped
)

// StateFromClass maps a status record class to a tray state. Anything that
// is not a known live state, including unknown classes, reads as stopped.
func StateFromClass(class string) State {
	switch status.State(class) {
	case status.Recording:
		return Recording
	case status.Transcribing:
		return Transcribing
	case status.Idle:
		return Idle
	default:
		return Stopped
	}
}

func (s State) String() string {
	switch s {
	case Recording:
		return "recording"
	case Transcribing:
		return "transcribing"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// IconName returns the freedesktop icon name for s.
func (s State) IconName() string {
	switch s {
	case Recording:
		return "media-record-symbolic"
	case Transcribing:
		return "view-refresh-symbolic"
	case Stopped:
		return "microphone-sensitivity-muted-symbolic"
	default:
		return "audio-input-microphone-symbolic"
	}
}

// Label is the short human label for s.
func (s State) Label() string {
	switch s {
	case Recording:
		return "Recording..."
	case Transcribing:
		return "Transcribing..."
	case Stopped:
		return "Daemon not running"
	default:
		return "Ready"
	}
}

// TooltipBody is the longer description shown under the tooltip title.
func (s State) TooltipBody() string {
	switch s {
	case Recording:
		return "Recording in progress"
	case Transcribing:
		return "Transcription in progress"
	case Stopped:
		return "The voxtype daemon is not running"
	default:
		return "Hold the hotkey to dictate"
	}
}
