package ui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// SelfCommand returns a function that runs the current voxtype binary with
// args, forwarding --config when configPath is set. Output is discarded.
func SelfCommand(executable, configPath string, args ...string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		exe := executable
		if exe == "" {
			resolved, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve voxtype executable: %w", err)
			}
			exe = resolved
		}
		full := make([]string, 0, len(args)+2)
		if strings.TrimSpace(configPath) != "" {
			full = append(full, "--config", configPath)
		}
		full = append(full, args...)
		cmd := exec.CommandContext(ctx, exe, full...) //nolint:gosec
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("voxtype %s: %w", strings.Join(args, " "), err)
		}
		return nil
	}
}
