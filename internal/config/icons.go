package config

import (
	"sort"
	"strings"

	"voxtype/internal/status"
)

var iconThemes = map[string]status.Icons{
	"emoji": {
		Idle:         "🎙️",
		Recording:    "🎤",
		Transcribing: "⏳",
		Stopped:      "",
	},
	"nerd-font": {
		Idle:         "\uf130",
		Recording:    "\uf111",
		Transcribing: "\uf110",
		Stopped:      "\uf131",
	},
	"minimal": {
		Idle:         "○",
		Recording:    "●",
		Transcribing: "◐",
		Stopped:      "×",
	},
	"dots": {
		Idle:         "◯",
		Recording:    "⏺",
		Transcribing: "⋯",
		Stopped:      "·",
	},
	"text": {
		Idle:         "[MIC]",
		Recording:    "[REC]",
		Transcribing: "[...]",
		Stopped:      "[OFF]",
	},
}

// IconThemeNames lists the built-in icon themes.
func IconThemeNames() []string {
	names := make([]string, 0, len(iconThemes))
	for name := range iconThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Icons resolves the configured theme and applies per-state overrides.
func (c *Config) Icons() status.Icons {
	icons, _ := c.IconsForTheme(c.Status.IconTheme)
	return icons
}

// IconsForTheme resolves a named theme with the configured overrides
// applied. Unknown themes fall back to emoji; the boolean reports whether
// the name was recognized.
func (c *Config) IconsForTheme(theme string) (status.Icons, bool) {
	icons, ok := iconThemes[strings.ToLower(strings.TrimSpace(theme))]
	if !ok {
		icons = iconThemes[defaultIconTheme]
	}
	overrides := c.Status.Icons
	if overrides.Idle != nil {
		icons.Idle = *overrides.Idle
	}
	if overrides.Recording != nil {
		icons.Recording = *overrides.Recording
	}
	if overrides.Transcribing != nil {
		icons.Transcribing = *overrides.Transcribing
	}
	if overrides.Stopped != nil {
		icons.Stopped = *overrides.Stopped
	}
	return icons, ok
}

// ExtendedInfo returns the model, device and backend reported by extended status.
func (c *Config) ExtendedInfo() status.ExtendedInfo {
	return status.ExtendedInfo{
		Model:   c.Whisper.Model,
		Device:  c.Audio.Device,
		Backend: BackendLabel(c.Whisper.Backend),
	}
}

// BackendLabel maps a backend key to its display name.
func BackendLabel(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "cpu":
		return "CPU (legacy)"
	case "native":
		return "CPU (native)"
	case "avx2":
		return "CPU (AVX2)"
	case "avx512":
		return "CPU (AVX-512)"
	case "vulkan":
		return "GPU (Vulkan)"
	default:
		return "unknown"
	}
}
