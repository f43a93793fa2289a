package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrStateFileUnset is returned when state_file is not configured.
var ErrStateFileUnset = errors.New("state_file is not configured")

// Whisper contains transcription settings surfaced in extended status.
type Whisper struct {
	Model   string `toml:"model"`
	Backend string `toml:"backend"`
}

// Audio contains capture settings surfaced in extended status.
type Audio struct {
	Device string `toml:"device"`
}

// StatusIcons overrides individual icons of the selected theme. A nil field
// keeps the theme's icon; an empty string blanks it.
type StatusIcons struct {
	Idle         *string `toml:"idle"`
	Recording    *string `toml:"recording"`
	Transcribing *string `toml:"transcribing"`
	Stopped      *string `toml:"stopped"`
}

// Status contains status-bar presentation settings.
type Status struct {
	IconTheme string      `toml:"icon_theme"`
	Icons     StatusIcons `toml:"icons"`
}

// Profile is a named post-processing preset selectable per recording.
type Profile struct {
	PostProcessCommand string `toml:"post_process_command"`
	OutputMode         string `toml:"output_mode"`
}

// UI contains settings for the overlay and tray client.
type UI struct {
	Overlay       bool   `toml:"overlay"`
	Tray          bool   `toml:"tray"`
	Notifications bool   `toml:"notifications"`
	MetricsAddr   string `toml:"metrics_addr"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates the settings the control plane reads from the shared
// voxtype configuration file.
//
// Configuration sections:
//   - StateFile/RuntimeDir: where the daemon publishes state, pid and mailboxes
//   - Whisper/Audio: values reported by extended status
//   - Status: icon theme and per-state icon overrides
//   - Profiles: named presets accepted by `record --profile`
//   - UI: overlay, tray, notifications and metrics endpoint
//   - Logging: log format and level
type Config struct {
	StateFile  string             `toml:"state_file"`
	RuntimeDir string             `toml:"runtime_dir"`
	Whisper    Whisper            `toml:"whisper"`
	Audio      Audio              `toml:"audio"`
	Status     Status             `toml:"status"`
	Profiles   map[string]Profile `toml:"profiles"`
	UI         UI                 `toml:"ui"`
	Logging    Logging            `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := configHomePath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func configHomePath() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return expandPath(filepath.Join(base, "voxtype", "config.toml"))
	}
	return expandPath(defaultConfigPath)
}

// ResolveStateFile returns the absolute state file path. The boolean is
// false when state_file is unset or disabled.
func (c *Config) ResolveStateFile() (string, bool) {
	switch strings.ToLower(strings.TrimSpace(c.StateFile)) {
	case "", "disabled", "none", "false":
		return "", false
	case stateFileAuto:
		return filepath.Join(c.RuntimeDir, defaultStateFileName), true
	}
	path, err := expandPath(c.StateFile)
	if err != nil {
		return "", false
	}
	return path, true
}

// ProfileNames returns the configured profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile looks up a profile by name.
func (c *Config) Profile(name string) (Profile, bool) {
	p, ok := c.Profiles[name]
	return p, ok
}

// EnsureRuntimeDir creates the runtime directory with user-only permissions.
func (c *Config) EnsureRuntimeDir() error {
	if err := os.MkdirAll(c.RuntimeDir, 0o700); err != nil {
		return fmt.Errorf("create runtime directory %q: %w", c.RuntimeDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
