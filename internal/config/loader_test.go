package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return flags
}

func TestLoadDefaults(t *testing.T) {
	flags := newFlagSet(t)
	cfg, err := Load(flags, []string{"http://localhost:8080"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Duration != 60*time.Second {
		t.Errorf("duration default: got %v", cfg.Duration)
	}
	if cfg.WarmupDuration != 10*time.Second || cfg.WarmupRate != 10 {
		t.Errorf("warmup defaults: got %v at %d", cfg.WarmupDuration, cfg.WarmupRate)
	}
	if want := []int{10, 25, 50, 100, 200}; len(cfg.Rates) != len(want) {
		t.Errorf("rates default: got %v", cfg.Rates)
	}
	if cfg.Cooldown != 5*time.Second || cfg.Timeout != 10*time.Second {
		t.Errorf("cooldown/timeout defaults: got %v / %v", cfg.Cooldown, cfg.Timeout)
	}
	if cfg.OutputDir != "." {
		t.Errorf("output dir default: got %q", cfg.OutputDir)
	}
	if cfg.MaxErrorRate != 1.0 {
		t.Errorf("max error rate default: got %v", cfg.MaxErrorRate)
	}
	if cfg.MaxP95 != 0 {
		t.Errorf("max p95 default: got %v", cfg.MaxP95)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	flags := newFlagSet(t,
		"--duration", "5s",
		"--rates", "5,10",
		"--warmup-duration", "0s",
		"--timeout", "2s",
		"--output-dir", "/tmp/results",
	)
	cfg, err := Load(flags, []string{"http://localhost:8080"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Duration != 5*time.Second {
		t.Errorf("duration: got %v", cfg.Duration)
	}
	if len(cfg.Rates) != 2 || cfg.Rates[0] != 5 || cfg.Rates[1] != 10 {
		t.Errorf("rates: got %v", cfg.Rates)
	}
	if cfg.WarmupDuration != 0 {
		t.Errorf("warmup duration: got %v", cfg.WarmupDuration)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("timeout: got %v", cfg.Timeout)
	}
	if cfg.OutputDir != "/tmp/results" {
		t.Errorf("output dir: got %q", cfg.OutputDir)
	}
}

func TestLoadSecondaryTargetDefault(t *testing.T) {
	flags := newFlagSet(t)
	cfg, err := Load(flags, []string{"http://localhost:8080"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %v", cfg.Targets)
	}
	if cfg.Targets[0] != "http://localhost:8080" {
		t.Errorf("primary target: got %q", cfg.Targets[0])
	}
	if cfg.Targets[1] != DefaultSecondaryTarget {
		t.Errorf("secondary target: got %q, want default %q", cfg.Targets[1], DefaultSecondaryTarget)
	}
}

func TestLoadExplicitSecondaryTarget(t *testing.T) {
	flags := newFlagSet(t)
	cfg, err := Load(flags, []string{"http://a:1", "http://b:2"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Targets) != 2 || cfg.Targets[1] != "http://b:2" {
		t.Errorf("targets: got %v", cfg.Targets)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	body := "duration: 30s\nrates: [1, 2, 3]\ntimeout: 4s\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	flags := newFlagSet(t, "--config", path)
	cfg, err := Load(flags, []string{"http://localhost:8080"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Duration != 30*time.Second {
		t.Errorf("duration from file: got %v", cfg.Duration)
	}
	if len(cfg.Rates) != 3 || cfg.Rates[0] != 1 {
		t.Errorf("rates from file: got %v", cfg.Rates)
	}
	if cfg.Timeout != 4*time.Second {
		t.Errorf("timeout from file: got %v", cfg.Timeout)
	}
	if cfg.ConfigFile != path {
		t.Errorf("config file path: got %q", cfg.ConfigFile)
	}
}

func TestLoadConfigFileFlagWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	if err := os.WriteFile(path, []byte("duration: 30s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	flags := newFlagSet(t, "--config", path, "--duration", "7s")
	cfg, err := Load(flags, []string{"http://localhost:8080"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Duration != 7*time.Second {
		t.Errorf("explicit flag should win over file: got %v", cfg.Duration)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	flags := newFlagSet(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(flags, []string{"http://localhost:8080"}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
