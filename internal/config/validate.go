package config

import (
	"fmt"
	"net"
	"strings"

	"voxtype/internal/mailbox"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStatus(); err != nil {
		return err
	}
	if err := c.validateProfiles(); err != nil {
		return err
	}
	if err := c.validateUI(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStatus() error {
	if _, ok := iconThemes[c.Status.IconTheme]; !ok {
		return fmt.Errorf("status.icon_theme: unsupported theme %q (available: %s)", c.Status.IconTheme, strings.Join(IconThemeNames(), ", "))
	}
	return nil
}

func (c *Config) validateProfiles() error {
	for _, name := range c.ProfileNames() {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("profiles: profile name must not be empty")
		}
		mode := c.Profiles[name].OutputMode
		if mode == "" {
			continue
		}
		if _, err := mailbox.ParseOutputMode(mode); err != nil {
			return fmt.Errorf("profiles.%s.output_mode: %w", name, err)
		}
	}
	return nil
}

func (c *Config) validateUI() error {
	if c.UI.MetricsAddr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.UI.MetricsAddr); err != nil {
		return fmt.Errorf("ui.metrics_addr: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
