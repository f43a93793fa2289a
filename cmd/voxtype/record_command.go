package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"voxtype/internal/config"
	"voxtype/internal/control"
	"voxtype/internal/logging"
	"voxtype/internal/mailbox"
)

type recordFlags struct {
	outputMode string
	file       string
	model      string
	profile    string
}

func newRecordCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Control recording on the running daemon",
	}

	cmd.AddCommand(newRecordActionCommand(ctx, control.ActionStart, "Start recording"))
	cmd.AddCommand(newRecordActionCommand(ctx, control.ActionStop, "Stop recording and transcribe"))
	cmd.AddCommand(newRecordActionCommand(ctx, control.ActionToggle, "Start or stop recording depending on state"))
	cmd.AddCommand(newRecordActionCommand(ctx, control.ActionCancel, "Abort recording or transcription without output"))
	return cmd
}

func newRecordActionCommand(ctx *commandContext, action control.Action, short string) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   string(action),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			overrides := flags.overrides(cmd)
			_, err = control.New(cfg, control.WithLogger(ctx.log())).Dispatch(action, overrides)
			if err != nil {
				return reportDispatchError(cmd.ErrOrStderr(), ctx, err)
			}
			return nil
		},
	}

	if action == control.ActionCancel {
		return cmd
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.outputMode, "output-mode", "", fmt.Sprintf("Output mode for this recording (%s, or file:PATH)", joinNames(mailbox.OutputModes)))
	fs.StringVar(&flags.file, "file", "", "Write the transcription to a file (optionally --file=PATH)")
	fs.Lookup("file").NoOptDefVal = " "
	fs.StringVar(&flags.model, "model", "", "Whisper model for this recording")
	fs.StringVar(&flags.profile, "profile", "", "Post-processing profile for this recording")
	cmd.MarkFlagsMutuallyExclusive("output-mode", "file")
	return cmd
}

func (f recordFlags) overrides(cmd *cobra.Command) control.Overrides {
	o := control.Overrides{
		OutputMode: strings.TrimSpace(f.outputMode),
		Model:      strings.TrimSpace(f.model),
		Profile:    strings.TrimSpace(f.profile),
	}
	if cmd.Flags().Changed("file") {
		o.OutputMode = mailbox.FileOutputMode(strings.TrimSpace(f.file))
	}
	return o
}

// reportDispatchError prints remediation for the failures users can fix and
// returns the error that decides the exit code.
func reportDispatchError(w io.Writer, ctx *commandContext, err error) error {
	var unknown *control.UnknownProfileError
	switch {
	case errors.Is(err, control.ErrStaleLock):
		fmt.Fprintln(w, "Error: Voxtype daemon is not running (stale PID file removed).")
		fmt.Fprintln(w, "Start it with: voxtype daemon")
	case errors.Is(err, control.ErrNotRunning):
		fmt.Fprintln(w, "Error: Voxtype daemon is not running.")
		fmt.Fprintln(w, "Start it with: voxtype daemon")
	case errors.Is(err, config.ErrStateFileUnset):
		printToggleWithoutStateFile(w)
	case errors.As(err, &unknown):
		printUnknownProfile(w, unknown)
	default:
		ctx.log().Debug("record failed", logging.Error(err))
		return err
	}
	return exitWith(1)
}

func printToggleWithoutStateFile(w io.Writer) {
	fmt.Fprintln(w, "Error: Cannot toggle recording without state_file configured.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add to your config.toml:")
	fmt.Fprintln(w, `  state_file = "auto"`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Or use explicit start/stop commands:")
	fmt.Fprintln(w, "  voxtype record start")
	fmt.Fprintln(w, "  voxtype record stop")
}

func printUnknownProfile(w io.Writer, err *control.UnknownProfileError) {
	fmt.Fprintf(w, "Error: Profile '%s' not found.\n", err.Name)
	fmt.Fprintln(w)
	if len(err.Available) == 0 {
		fmt.Fprintln(w, "No profiles are configured. Add profiles to your config.toml:")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  [profiles.%s]\n", err.Name)
		fmt.Fprintln(w, `  post_process_command = "your-command-here"`)
		return
	}
	fmt.Fprintf(w, "Available profiles: %s\n", joinNames(err.Available))
}
