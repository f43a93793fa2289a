package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"voxtype/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CONFIG_HOME", "")
	runtimeBase := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", runtimeBase)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "voxtype", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.RuntimeDir != filepath.Join(runtimeBase, "voxtype") {
		t.Fatalf("unexpected runtime dir %q", cfg.RuntimeDir)
	}
	statePath, ok := cfg.ResolveStateFile()
	if !ok || statePath != filepath.Join(runtimeBase, "voxtype", "state") {
		t.Fatalf("ResolveStateFile = %q, %v", statePath, ok)
	}
	if cfg.Status.IconTheme != "emoji" {
		t.Fatalf("unexpected icon theme %q", cfg.Status.IconTheme)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
	if !cfg.UI.Overlay || !cfg.UI.Tray {
		t.Fatal("expected overlay and tray enabled by default")
	}
}

func TestLoadParsesFile(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	path := writeConfig(t, `
state_file = "/tmp/voxtype-test/state"

[whisper]
model = "large-v3"
backend = "Vulkan"

[audio]
device = "hw:1"

[status]
icon_theme = "text"

[status.icons]
stopped = "zzz"

[profiles.slack]
post_process_command = "cleanup"
output_mode = "paste"

[profiles.notes]
output_mode = "file:/tmp/notes.txt"

[logging]
format = "JSON"
level = "Debug"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	statePath, ok := cfg.ResolveStateFile()
	if !ok || statePath != "/tmp/voxtype-test/state" {
		t.Fatalf("ResolveStateFile = %q, %v", statePath, ok)
	}
	if got := cfg.ProfileNames(); strings.Join(got, ",") != "notes,slack" {
		t.Fatalf("ProfileNames = %v", got)
	}
	if p, ok := cfg.Profile("slack"); !ok || p.OutputMode != "paste" {
		t.Fatalf("Profile(slack) = %+v, %v", p, ok)
	}
	if _, ok := cfg.Profile("missing"); ok {
		t.Fatal("expected missing profile lookup to fail")
	}
	icons := cfg.Icons()
	if icons.Recording != "[REC]" || icons.Stopped != "zzz" {
		t.Fatalf("unexpected icons %+v", icons)
	}
	ext := cfg.ExtendedInfo()
	if ext.Model != "large-v3" || ext.Device != "hw:1" || ext.Backend != "GPU (Vulkan)" {
		t.Fatalf("unexpected extended info %+v", ext)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestResolveStateFileUnset(t *testing.T) {
	for _, value := range []string{"", "disabled", "none"} {
		cfg := config.Default()
		cfg.StateFile = value
		if path, ok := cfg.ResolveStateFile(); ok {
			t.Fatalf("state_file %q resolved to %q", value, path)
		}
	}
}

func TestRuntimeDirOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "runtime_dir = \""+dir+"\"\n")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RuntimeDir != dir {
		t.Fatalf("RuntimeDir = %q, want %q", cfg.RuntimeDir, dir)
	}
	statePath, _ := cfg.ResolveStateFile()
	if statePath != filepath.Join(dir, "state") {
		t.Fatalf("auto state file = %q", statePath)
	}
}

func TestDefaultRuntimeDirFallback(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")
	got := config.DefaultRuntimeDir()
	if !strings.HasPrefix(filepath.Base(got), "voxtype-") {
		t.Fatalf("unexpected fallback runtime dir %q", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	cases := map[string]string{
		"theme":        "[status]\nicon_theme = \"sparkles\"\n",
		"profile mode": "[profiles.x]\noutput_mode = \"fax\"\n",
		"log format":   "[logging]\nformat = \"xml\"\n",
		"metrics addr": "[ui]\nmetrics_addr = \"nope\"\n",
	}
	for name, content := range cases {
		if _, _, _, err := config.Load(writeConfig(t, content)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestIconsForThemeFallsBackToEmoji(t *testing.T) {
	cfg := config.Default()
	icons, ok := cfg.IconsForTheme("sparkles")
	if ok {
		t.Fatal("expected unknown theme to report false")
	}
	emoji, _ := cfg.IconsForTheme("emoji")
	if icons != emoji {
		t.Fatalf("fallback icons = %+v, want emoji %+v", icons, emoji)
	}
}

func TestEmptyIconOverrideBlanksIcon(t *testing.T) {
	cfg := config.Default()
	empty := ""
	cfg.Status.Icons.Recording = &empty
	if got := cfg.Icons().Recording; got != "" {
		t.Fatalf("Recording icon = %q, want blank", got)
	}
}

func TestBackendLabel(t *testing.T) {
	if config.BackendLabel("avx512") != "CPU (AVX-512)" {
		t.Fatal("unexpected avx512 label")
	}
	if config.BackendLabel("tpu") != "unknown" {
		t.Fatal("unknown backends should be labelled unknown")
	}
}

func TestSampleConfigParses(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	path := filepath.Join(t.TempDir(), "voxtype", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}
