package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"voxtype/internal/config"
	"voxtype/internal/pidlock"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// The runtime directory exists and the state file points inside it; no
// daemon is running until WithDaemonPID or WithLiveDaemon is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.RuntimeDir = filepath.Join(base, "run")
	cfgVal.StateFile = filepath.Join(cfgVal.RuntimeDir, "state")
	cfgVal.Profiles = map[string]config.Profile{}
	cfgVal.UI.Notifications = false
	if err := os.MkdirAll(cfgVal.RuntimeDir, 0o700); err != nil {
		t.Fatalf("mkdir runtime dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithoutStateFile leaves state_file unset.
func WithoutStateFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.StateFile = ""
	}
}

// WithProfiles configures empty profiles with the given names.
func WithProfiles(names ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, name := range names {
			b.cfg.Profiles[name] = config.Profile{PostProcessCommand: "cat"}
		}
	}
}

// WithDaemonPID writes a PID lock naming pid.
func WithDaemonPID(pid int) ConfigOption {
	return func(b *configBuilder) {
		if err := pidlock.Write(pidlock.Path(b.cfg.RuntimeDir), pid); err != nil {
			b.t.Fatalf("write pid lock: %v", err)
		}
	}
}

// WithLiveDaemon writes a PID lock naming the test process, which is always
// alive for the duration of the test.
func WithLiveDaemon() ConfigOption {
	return func(b *configBuilder) {
		WithDaemonPID(os.Getpid())(b)
	}
}

// WithState writes the daemon state file.
func WithState(state string) ConfigOption {
	return func(b *configBuilder) {
		WriteState(b.t, b.cfg, state)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.RuntimeDir)
}
