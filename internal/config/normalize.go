package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtended()
	c.normalizeStatus()
	c.normalizeProfiles()
	c.normalizeUI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	c.StateFile = strings.TrimSpace(c.StateFile)
	c.RuntimeDir = strings.TrimSpace(c.RuntimeDir)
	if c.RuntimeDir == "" {
		c.RuntimeDir = DefaultRuntimeDir()
	}
	var err error
	if c.RuntimeDir, err = expandPath(c.RuntimeDir); err != nil {
		return fmt.Errorf("runtime_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtended() {
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	c.Whisper.Backend = strings.ToLower(strings.TrimSpace(c.Whisper.Backend))
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = defaultBackend
	}
	c.Audio.Device = strings.TrimSpace(c.Audio.Device)
	if c.Audio.Device == "" {
		c.Audio.Device = defaultAudioDevice
	}
}

func (c *Config) normalizeStatus() {
	c.Status.IconTheme = strings.ToLower(strings.TrimSpace(c.Status.IconTheme))
	if c.Status.IconTheme == "" {
		c.Status.IconTheme = defaultIconTheme
	}
}

func (c *Config) normalizeProfiles() {
	if c.Profiles == nil {
		c.Profiles = map[string]Profile{}
	}
	for name, profile := range c.Profiles {
		profile.PostProcessCommand = strings.TrimSpace(profile.PostProcessCommand)
		profile.OutputMode = strings.ToLower(strings.TrimSpace(profile.OutputMode))
		c.Profiles[name] = profile
	}
}

func (c *Config) normalizeUI() {
	c.UI.MetricsAddr = strings.TrimSpace(c.UI.MetricsAddr)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
