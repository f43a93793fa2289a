package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"voxtype/internal/config"
	"voxtype/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *int
	quiet      *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, verbose *int, quiet *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		quiet:      quiet,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// forwardedConfigPath is the --config value to hand to child voxtype
// processes; empty when the user relied on the default location.
func (c *commandContext) forwardedConfigPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) levelOverride() string {
	switch {
	case c.quiet != nil && *c.quiet:
		return "error"
	case c.verbose != nil && *c.verbose > 0:
		return "debug"
	default:
		return ""
	}
}

// log returns the CLI logger. Logs go to stderr so stdout stays reserved for
// status output; a broken logging section degrades to a no-op logger.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg, c.levelOverride())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
