package testsupport

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"voxtype/internal/config"
	"voxtype/internal/fileutil"
	"voxtype/internal/statefile"
)

// WriteState replaces the state file named by cfg.
func WriteState(t testing.TB, cfg *config.Config, state string) {
	t.Helper()
	path, ok := cfg.ResolveStateFile()
	if !ok {
		t.Fatal("state file is not configured")
	}
	if err := fileutil.WriteFileAtomic(path, []byte(state+"\n"), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}
}

// WriteLevel replaces the audio level file next to cfg's state file.
func WriteLevel(t testing.TB, cfg *config.Config, level string) {
	t.Helper()
	path, ok := cfg.ResolveStateFile()
	if !ok {
		t.Fatal("state file is not configured")
	}
	if err := fileutil.WriteFileAtomic(statefile.LevelPath(path), []byte(level), 0o644); err != nil {
		t.Fatalf("write level: %v", err)
	}
}

// ExitedPID returns the pid of a child process that has already been reaped.
func ExitedPID(t testing.TB) int {
	t.Helper()
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Skipf("cannot run true: %v", err)
	}
	return cmd.Process.Pid
}

// ListFiles returns the base names of regular files in dir, or nil when the
// directory does not exist.
func ListFiles(t testing.TB, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read dir %s: %v", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, filepath.Base(entry.Name()))
		}
	}
	return names
}
