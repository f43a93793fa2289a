package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath    = "~/.config/voxtype/config.toml"
	defaultStateFileName = "state"
	defaultWhisperModel  = "base.en"
	defaultBackend       = "native"
	defaultAudioDevice   = "default"
	defaultIconTheme     = "emoji"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	stateFileAuto = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		StateFile: stateFileAuto,
		Whisper: Whisper{
			Model:   defaultWhisperModel,
			Backend: defaultBackend,
		},
		Audio: Audio{
			Device: defaultAudioDevice,
		},
		Status: Status{
			IconTheme: defaultIconTheme,
		},
		Profiles: map[string]Profile{},
		UI: UI{
			Overlay:       true,
			Tray:          true,
			Notifications: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultRuntimeDir returns $XDG_RUNTIME_DIR/voxtype, falling back to a
// per-user directory under the system temp dir.
func DefaultRuntimeDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); base != "" {
		return filepath.Join(base, "voxtype")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("voxtype-%d", os.Getuid()))
}
