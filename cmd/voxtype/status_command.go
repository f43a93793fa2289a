package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voxtype/internal/config"
	"voxtype/internal/follow"
	"voxtype/internal/logging"
	"voxtype/internal/pidlock"
	"voxtype/internal/status"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var followFlag bool
	var formatFlag string
	var extended bool
	var iconTheme string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status (use --follow for status bars)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			format, err := follow.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			statePath, ok := cfg.ResolveStateFile()
			if !ok {
				printStateFileUnset(cmd.ErrOrStderr())
				return exitWith(1)
			}

			icons := cfg.Icons()
			if cmd.Flags().Changed("icon-theme") {
				themed, known := cfg.IconsForTheme(iconTheme)
				if !known {
					ctx.log().Warn("unknown icon theme, using emoji", logging.String("theme", iconTheme))
				}
				icons = themed
			}

			opts := follow.Options{
				StatePath: statePath,
				PIDPath:   pidlock.Path(cfg.RuntimeDir),
				Format:    format,
				Formatter: status.NewFormatter(icons),
				Logger:    ctx.log(),
			}
			if extended {
				info := cfg.ExtendedInfo()
				opts.Extended = &info
			}
			reader := follow.New(opts)
			out := cmd.OutOrStdout()

			if !followFlag {
				return printOnce(out, reader, format)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := reader.Follow(runCtx, out); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&followFlag, "follow", false, "Keep running and print a line on every change")
	cmd.Flags().StringVar(&formatFlag, "format", string(follow.FormatText), "Output format: text or json")
	cmd.Flags().BoolVar(&extended, "extended", false, "Include model, device and backend in JSON output")
	cmd.Flags().StringVar(&iconTheme, "icon-theme", "", fmt.Sprintf("Icon theme override (%s)", joinNames(config.IconThemeNames())))
	return cmd
}

// printOnce writes one record. Text output on a terminal is colored by state.
func printOnce(out io.Writer, reader *follow.Reader, format follow.Format) error {
	if format != follow.FormatText || !shouldColorize(out) {
		return reader.Once(out)
	}
	snap := reader.Snapshot()
	_, err := fmt.Fprintln(out, colorizeState(snap.State, reader.Render(snap)))
	return err
}

func printStateFileUnset(w io.Writer) {
	fmt.Fprintln(w, "Error: state_file is not configured.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "To enable status monitoring, add to your config.toml:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `  state_file = "auto"`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This enables external integrations like Waybar to monitor voxtype state.")
}
