package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"
)

type cliTestEnv struct {
	runtimeDir string
	statePath  string
	configPath string
}

type envOption func(*envConfig)

type envConfig struct {
	stateFile string
	profiles  []string
}

func withoutStateFile() envOption {
	return func(c *envConfig) { c.stateFile = "disabled" }
}

func withProfiles(names ...string) envOption {
	return func(c *envConfig) { c.profiles = names }
}

func setupCLITestEnv(t *testing.T, opts ...envOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		runtimeDir: filepath.Join(base, "run"),
		configPath: filepath.Join(base, "config.toml"),
	}
	env.statePath = filepath.Join(env.runtimeDir, "state")
	if err := os.MkdirAll(env.runtimeDir, 0o700); err != nil {
		t.Fatalf("mkdir runtime dir: %v", err)
	}

	ec := envConfig{stateFile: env.statePath}
	for _, opt := range opts {
		opt(&ec)
	}
	writeTestConfig(t, env.configPath, env.runtimeDir, ec)
	return env
}

func writeTestConfig(t *testing.T, path, runtimeDir string, ec envConfig) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "runtime_dir = %q\nstate_file = %q\n", runtimeDir, ec.stateFile)
	b.WriteString("\n[ui]\nnotifications = false\n")
	for _, name := range ec.profiles {
		fmt.Fprintf(&b, "\n[profiles.%s]\npost_process_command = \"cat\"\n", name)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, context.Background(), append([]string{"--config", e.configPath}, args...))
}

func runCLI(t *testing.T, ctx context.Context, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) writeState(t *testing.T, state string) {
	t.Helper()
	if err := os.WriteFile(e.statePath, []byte(state), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}
}

func (e *cliTestEnv) writePID(t *testing.T, pid int) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.runtimeDir, "pid"), []byte(strconv.Itoa(pid)), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
}

func (e *cliTestEnv) readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.runtimeDir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func (e *cliTestEnv) exists(name string) bool {
	_, err := os.Stat(filepath.Join(e.runtimeDir, name))
	return err == nil
}

// fakeDaemon is a sleeping child whose pid stands in for the daemon. Signals
// it receives end the process, which lets tests observe which one was sent.
type fakeDaemon struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func startFakeDaemon(t *testing.T, env *cliTestEnv) *fakeDaemon {
	t.Helper()
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start sleep: %v", err)
	}
	d := &fakeDaemon{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(d.done)
	}()
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		<-d.done
	})
	env.writePID(t, cmd.Process.Pid)
	return d
}

// signal waits for the child to die and reports the signal that killed it.
func (d *fakeDaemon) signal(t *testing.T) syscall.Signal {
	t.Helper()
	select {
	case <-d.done:
	case <-time.After(5 * time.Second):
		t.Fatal("fake daemon was not signalled")
	}
	ws, ok := d.cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		t.Fatalf("fake daemon exited without a signal: %v", d.cmd.ProcessState)
	}
	return ws.Signal()
}

func (d *fakeDaemon) alive() bool {
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exit *exitError
	if !errors.As(err, &exit) {
		t.Fatalf("expected exitError, got %v", err)
	}
	if exit.code != code {
		t.Fatalf("exit code = %d, want %d", exit.code, code)
	}
}
