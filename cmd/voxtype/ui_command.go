package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voxtype/internal/logging"
	"voxtype/internal/ui"
)

func newUICommand(ctx *commandContext) *cobra.Command {
	var noOverlay bool
	var noTray bool

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Run the recording overlay and tray icon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			overlayOn := cfg.UI.Overlay && !noOverlay
			if overlayOn && !isTerminal(cmd.OutOrStdout()) {
				ctx.log().Info("stdout is not a terminal, overlay disabled")
				overlayOn = false
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = ui.Launch(runCtx, ui.Options{
				Config:     cfg,
				ConfigPath: ctx.forwardedConfigPath(),
				Overlay:    overlayOn,
				Tray:       cfg.UI.Tray && !noTray,
				Logger:     ctx.log(),
			})
			switch {
			case err == nil:
				return nil
			case errors.Is(err, ui.ErrAlreadyRunning):
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: voxtype ui is already running.")
				return exitWith(1)
			case errors.Is(err, ui.ErrNoConsumers):
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: both the overlay and the tray are disabled; nothing to run.")
				return exitWith(1)
			default:
				ctx.log().Error("ui stopped", logging.Error(err))
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&noOverlay, "no-overlay", false, "Do not show the recording overlay")
	cmd.Flags().BoolVar(&noTray, "no-tray", false, "Do not show the tray icon")
	return cmd
}
