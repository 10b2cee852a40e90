package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "meshroi", "config.toml")
	SetPath(p)
	t.Cleanup(func() { SetPath("") })
	return p
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	useTempConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.HorizonMonths != 36 {
		t.Fatalf("HorizonMonths = %d, want 36", cfg.General.HorizonMonths)
	}
	if cfg.Defaults.InitialInvestment != 25 {
		t.Fatalf("Defaults.InitialInvestment = %v, want 25", cfg.Defaults.InitialInvestment)
	}
	if Exists() {
		t.Fatal("Exists() = true for missing file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfig(t)

	cfg := DefaultConfig()
	cfg.General.HorizonMonths = 48
	cfg.Defaults.MonthlySavings = 4.5
	cfg.Appearance.Theme = "blueprint"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.HorizonMonths != 48 || got.Defaults.MonthlySavings != 4.5 || got.Appearance.Theme != "blueprint" {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	p := useTempConfig(t)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("[defaults]\nmonthly_om = 2.0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.MonthlyOM != 2.0 {
		t.Fatalf("MonthlyOM = %v, want 2.0", cfg.Defaults.MonthlyOM)
	}
	if cfg.Defaults.UnitsPerMonth != 15000 {
		t.Fatalf("UnitsPerMonth = %v, want default 15000", cfg.Defaults.UnitsPerMonth)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	useTempConfig(t)
	t.Setenv("MESHROI_HORIZON", "60")
	t.Setenv("MESHROI_THEME", "terminal")
	t.Setenv("MESHROI_DAEMON_ADDR", "127.0.0.1:9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.HorizonMonths != 60 {
		t.Fatalf("HorizonMonths = %d, want 60", cfg.General.HorizonMonths)
	}
	if cfg.Appearance.Theme != "terminal" {
		t.Fatalf("Theme = %q, want terminal", cfg.Appearance.Theme)
	}
	if cfg.Daemon.Addr != "127.0.0.1:9999" {
		t.Fatalf("Daemon.Addr = %q", cfg.Daemon.Addr)
	}
}

func TestLoadEnvError(t *testing.T) {
	useTempConfig(t)
	t.Setenv("MESHROI_HORIZON", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadBadTOML(t *testing.T) {
	p := useTempConfig(t)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing config error", err)
	}
}
