package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voxtype/internal/config"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	stdout, _, err := runCLI(t, context.Background(), []string{"config", "init", "--path", target})
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, "Wrote sample configuration to "+target)

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config should exist")
	}
	if _, ok := cfg.ResolveStateFile(); !ok {
		t.Fatal("sample config should enable the state file")
	}

	_, _, err = runCLI(t, context.Background(), []string{"config", "init", "--path", target})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}

	if _, _, err := runCLI(t, context.Background(), []string{"config", "init", "--path", target, "--overwrite"}); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowListsSettingsAndProfiles(t *testing.T) {
	env := setupCLITestEnv(t, withProfiles("slack", "code"))

	stdout, _, err := env.run(t, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	requireContains(t, stdout, "State file")
	requireContains(t, stdout, env.statePath)
	requireContains(t, stdout, filepath.Join(env.runtimeDir, "pid"))
	requireContains(t, stdout, "emoji")
	if strings.Index(stdout, "code") > strings.Index(stdout, "slack") {
		t.Fatalf("profiles should be sorted:\n%s", stdout)
	}
}

func TestConfigShowUnsetStateFile(t *testing.T) {
	env := setupCLITestEnv(t, withoutStateFile())
	stdout, _, err := env.run(t, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	requireContains(t, stdout, "(not configured)")
}

func TestConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writePID(t, os.Getpid())
	env.writeState(t, "transcribing")

	stdout, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout, "[OK] "+env.configPath)
	requireContains(t, stdout, "[OK] "+env.statePath)
	requireContains(t, stdout, "running (pid ")
	requireContains(t, stdout, ", Transcribing")
	requireContains(t, stdout, "Configuration valid")
}

func TestConfigValidateReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	stdout, _, err := runCLI(t, context.Background(), []string{"--config", path, "config", "validate"})
	requireExitCode(t, err, 1)
	requireContains(t, stdout, "[ERROR]")
	requireContains(t, stdout, "logging.format")
}
