package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// fakeBinder wraps a pflag.FlagSet to satisfy the flagBinder interface.
type fakeBinder struct {
	fs *pflag.FlagSet
}

func (f *fakeBinder) Flags() *pflag.FlagSet { return f.fs }

// newFlagBinder creates a FlagSet with all config flags registered at their defaults.
func newFlagBinder(defaults Config) *fakeBinder {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	return &fakeBinder{fs: fs}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "info")
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("Server.ListenAddr = %q; want %q", cfg.Server.ListenAddr, ":8080")
	}

	if cfg.Server.MaxBodyBytes != 4096 {
		t.Errorf("Server.MaxBodyBytes = %d; want 4096", cfg.Server.MaxBodyBytes)
	}

	if cfg.Server.ShutdownTimeout != 30 {
		t.Errorf("Server.ShutdownTimeout = %d; want 30", cfg.Server.ShutdownTimeout)
	}

	if cfg.Verify.Seed != 1 {
		t.Errorf("Verify.Seed = %d; want 1", cfg.Verify.Seed)
	}

	if cfg.Verify.Count != 1000 {
		t.Errorf("Verify.Count = %d; want 1000", cfg.Verify.Count)
	}

	if cfg.Verify.Profile != "normal" {
		t.Errorf("Verify.Profile = %q; want %q", cfg.Verify.Profile, "normal")
	}

	if cfg.Bench.Runs != 5 {
		t.Errorf("Bench.Runs = %d; want 5", cfg.Bench.Runs)
	}

	if cfg.Bench.Ops != 100000 {
		t.Errorf("Bench.Ops = %d; want 100000", cfg.Bench.Ops)
	}
}

func TestLoadDefaults(t *testing.T) {
	defaults := DefaultConfig()
	cfg, err := Load(LoadOptions{Defaults: defaults})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg != defaults {
		t.Errorf("Load with no overrides = %+v; want defaults %+v", cfg, defaults)
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	defaults := DefaultConfig()
	binder := newFlagBinder(defaults)

	if err := binder.fs.Set("log-level", "debug"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := binder.fs.Set("verify-count", "42"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := binder.fs.Set("server-listen-addr", ":9999"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg, err := Load(LoadOptions{Cmd: binder, Defaults: defaults})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "debug")
	}
	if cfg.Verify.Count != 42 {
		t.Errorf("Verify.Count = %d; want 42", cfg.Verify.Count)
	}
	if cfg.Server.ListenAddr != ":9999" {
		t.Errorf("Server.ListenAddr = %q; want %q", cfg.Server.ListenAddr, ":9999")
	}

	// Untouched keys keep their defaults.
	if cfg.Bench.Runs != defaults.Bench.Runs {
		t.Errorf("Bench.Runs = %d; want default %d", cfg.Bench.Runs, defaults.Bench.Runs)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pesim.yaml")
	content := []byte("log_level: warn\nverify:\n  seed: 77\n  profile: mixed\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "warn")
	}
	if cfg.Verify.Seed != 77 {
		t.Errorf("Verify.Seed = %d; want 77", cfg.Verify.Seed)
	}
	if cfg.Verify.Profile != "mixed" {
		t.Errorf("Verify.Profile = %q; want %q", cfg.Verify.Profile, "mixed")
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("Server.ListenAddr = %q; want default %q", cfg.Server.ListenAddr, ":8080")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml"), Defaults: DefaultConfig()})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PESIM_LOG_LEVEL", "error")
	t.Setenv("PESIM_VERIFY_COUNT", "7")

	cfg, err := Load(LoadOptions{Cmd: newFlagBinder(DefaultConfig()), Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "error")
	}
	if cfg.Verify.Count != 7 {
		t.Errorf("Verify.Count = %d; want 7", cfg.Verify.Count)
	}
}
