package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"voxtype/internal/config"
	"voxtype/internal/pidlock"
	"voxtype/internal/statefile"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable("Configuration", []string{"Setting", "Value"}, configRows(cfg, ctx.configPath), nil))
			fmt.Fprintln(out, renderTable("Profiles", []string{"Name", "Output mode", "Post-process command"}, profileRows(cfg), nil))
			return nil
		},
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func configRows(cfg *config.Config, path string) [][]string {
	statePath, ok := cfg.ResolveStateFile()
	if !ok {
		statePath = "(not configured)"
	}
	metrics := cfg.UI.MetricsAddr
	if metrics == "" {
		metrics = "(disabled)"
	}
	extended := cfg.ExtendedInfo()
	return [][]string{
		{"Config file", path},
		{"State file", statePath},
		{"Runtime dir", cfg.RuntimeDir},
		{"PID file", pidlock.Path(cfg.RuntimeDir)},
		{"Icon theme", cfg.Status.IconTheme},
		{"Model", extended.Model},
		{"Device", extended.Device},
		{"Backend", extended.Backend},
		{"Overlay", yesNo(cfg.UI.Overlay)},
		{"Tray", yesNo(cfg.UI.Tray)},
		{"Notifications", yesNo(cfg.UI.Notifications)},
		{"Metrics", metrics},
		{"Log level", cfg.Logging.Level},
		{"Log format", cfg.Logging.Format},
	}
}

func profileRows(cfg *config.Config) [][]string {
	names := cfg.ProfileNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		p, _ := cfg.Profile(name)
		mode := p.OutputMode
		if mode == "" {
			mode = "(default)"
		}
		rows = append(rows, []string{name, mode, p.PostProcessCommand})
	}
	return rows
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Keep state_file = \"auto\" so status bars and `voxtype record toggle` work.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate the configuration file and runtime paths",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}

			cfg, path, exists, err := config.Load(ctx.forwardedConfigPath())
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Config", statusError, err.Error(), colorize))
				return exitWith(1)
			}
			if exists {
				fmt.Fprintln(out, renderStatusLine("Config", statusOK, path, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Config", statusWarn, "not found, defaults used", colorize))
			}

			for _, line := range validationLines(cfg, colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func validationLines(cfg *config.Config, colorize bool) []string {
	var lines []string

	if statePath, ok := cfg.ResolveStateFile(); ok {
		lines = append(lines, renderStatusLine("State file", statusOK, statePath, colorize))
	} else {
		lines = append(lines, renderStatusLine("State file", statusWarn, `not configured (set state_file = "auto")`, colorize))
	}

	if err := cfg.EnsureRuntimeDir(); err != nil {
		lines = append(lines, renderStatusLine("Runtime dir", statusError, err.Error(), colorize))
	} else {
		lines = append(lines, renderStatusLine("Runtime dir", statusOK, cfg.RuntimeDir, colorize))
	}

	lockPath := pidlock.Path(cfg.RuntimeDir)
	if lock, err := pidlock.Read(lockPath); err == nil && pidlock.ProcessAlive(lock.PID) {
		msg := fmt.Sprintf("running (pid %d)", lock.PID)
		if statePath, ok := cfg.ResolveStateFile(); ok {
			if state, ok := statefile.ReadState(statePath); ok {
				msg += ", " + state.Label()
			}
		}
		lines = append(lines, renderStatusLine("Daemon", statusOK, msg, colorize))
	} else {
		lines = append(lines, renderStatusLine("Daemon", statusInfo, "not running", colorize))
	}

	lines = append(lines, renderStatusLine("Icon theme", statusOK, cfg.Status.IconTheme, colorize))
	lines = append(lines, renderStatusLine("Profiles", statusInfo, profileSummary(cfg), colorize))
	return lines
}

func profileSummary(cfg *config.Config) string {
	names := cfg.ProfileNames()
	if len(names) == 0 {
		return "none"
	}
	return joinNames(names)
}
