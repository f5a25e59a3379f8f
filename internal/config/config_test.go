package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadClickerEmbeddedMatchesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadClicker("")
	if err != nil {
		t.Fatalf("LoadClicker() failed: %v", err)
	}
	if cfg != DefaultClickerConfig() {
		t.Errorf("embedded config = %+v, expected %+v", cfg, DefaultClickerConfig())
	}
}

func TestLoadClickerCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clicker.yaml")
	data := "pressure:\n  toast_interval: 2\nleaderboard:\n  backend: redis\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadClicker(path)
	if err != nil {
		t.Fatalf("LoadClicker() failed: %v", err)
	}
	if cfg.Pressure.ToastInterval != 2 {
		t.Errorf("ToastInterval = %v, expected 2", cfg.Pressure.ToastInterval)
	}
	if cfg.Leaderboard.Backend != "redis" {
		t.Errorf("Backend = %q, expected redis", cfg.Leaderboard.Backend)
	}
	// Unset keys keep their defaults.
	if cfg.Leaderboard.TopLimit != 10 {
		t.Errorf("TopLimit = %d, expected 10", cfg.Leaderboard.TopLimit)
	}
}

func TestLoadClickerUserDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, AppDir, "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "clicker.yaml"), []byte("pressure:\n  max_toasts: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadClicker("")
	if err != nil {
		t.Fatalf("LoadClicker() failed: %v", err)
	}
	if cfg.Pressure.MaxToasts != 7 {
		t.Errorf("MaxToasts = %d, expected 7", cfg.Pressure.MaxToasts)
	}
}

func TestLoadClickerErrors(t *testing.T) {
	if _, err := LoadClicker(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadClicker() with missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pressure: [nope"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClicker(path); err == nil {
		t.Error("LoadClicker() with invalid yaml should fail")
	}
}

func TestApplyClickerPreset(t *testing.T) {
	tests := []struct {
		preset    DifficultyPreset
		enabled   bool
		initial   float64
		countdown bool
	}{
		{DifficultyEasy, true, 0.0, false},
		{DifficultyNormal, true, 0.3, true},
		{DifficultyHard, true, 0.7, true},
		{DifficultyFixed, false, 0.0, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultClickerConfig()
			ApplyClickerPreset(&cfg, tc.preset)
			if cfg.Difficulty.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.enabled)
			}
			if cfg.Difficulty.InitialLevel != tc.initial {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Difficulty.InitialLevel, tc.initial)
			}
			if cfg.Pressure.CountdownEnabled != tc.countdown {
				t.Errorf("CountdownEnabled = %v, expected %v", cfg.Pressure.CountdownEnabled, tc.countdown)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, ok := ParsePreset(""); !ok || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v", p, ok)
	}
	if _, ok := ParsePreset("nightmare"); ok {
		t.Error("ParsePreset(nightmare) should fail")
	}
}

func TestDifficultyManager(t *testing.T) {
	d := NewDifficultyManager(DefaultClickerConfig().Difficulty)

	if got := d.Level(1); got != 0 {
		t.Errorf("Level(1) = %v, expected 0", got)
	}
	if got := d.Level(20); got != 1 {
		t.Errorf("Level(20) = %v, expected 1", got)
	}
	if got := d.Level(99); got != 1 {
		t.Errorf("Level(99) = %v, expected clamp to 1", got)
	}

	if got := d.ToastInterval(9*time.Second, 20); got != 3*time.Second {
		t.Errorf("ToastInterval at max = %v, expected 3s", got)
	}
	if got := d.ToastInterval(9*time.Second, 1); got != 9*time.Second {
		t.Errorf("ToastInterval at start = %v, expected 9s", got)
	}

	if got := d.Countdown(0, 20); got != 0 {
		t.Errorf("Countdown(0) = %v, expected 0", got)
	}
	if got := d.Countdown(60, 1); got != 60*time.Second {
		t.Errorf("Countdown(60, 1) = %v, expected 60s", got)
	}
	if got := d.Countdown(45, 20); got != 32*time.Second {
		t.Errorf("Countdown(45, 20) = %v, expected 32s", got)
	}
	if got := d.Countdown(15, 20); got != 11*time.Second {
		t.Errorf("Countdown(15, 20) = %v, expected 11s", got)
	}
	if got := d.Countdown(12, 20); got != 10*time.Second {
		t.Errorf("Countdown(12, 20) = %v, expected floor 10s", got)
	}
}

func TestDifficultyManagerFixed(t *testing.T) {
	cfg := DefaultClickerConfig()
	ApplyClickerPreset(&cfg, DifficultyFixed)
	d := NewDifficultyManager(cfg.Difficulty)

	if d.IsEnabled() {
		t.Error("fixed preset should disable progression")
	}
	if got := d.Level(20); got != 0 {
		t.Errorf("Level(20) = %v, expected 0", got)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CLICKER_ADMIN_SIGNING_KEY", "secret")
	t.Setenv("CLICKER_REDIS_DB", "3")

	e, loaded, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() failed: %v", err)
	}
	if loaded {
		t.Error("no .env file exists, loaded should be false")
	}
	if e.AdminSigningKey != "secret" || e.RedisDB != 3 {
		t.Errorf("unexpected env %+v", e)
	}
	if e.SSHAddr != ":23234" || e.LogLevel != "info" {
		t.Errorf("defaults not applied: %+v", e)
	}
}

func TestLoadEnvDotenvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CLICKER_METRICS_ADDR=:9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set; make sure it is unset.
	t.Setenv("CLICKER_METRICS_ADDR", "")
	os.Unsetenv("CLICKER_METRICS_ADDR")

	e, loaded, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() failed: %v", err)
	}
	if !loaded {
		t.Error(".env should have been loaded")
	}
	if e.MetricsAddr != ":9999" {
		t.Errorf("MetricsAddr = %q, expected :9999", e.MetricsAddr)
	}
	os.Unsetenv("CLICKER_METRICS_ADDR")
}

func TestEnvValidate(t *testing.T) {
	e := &Env{LogLevel: "loud"}
	if err := e.Validate(); err == nil {
		t.Error("Validate() should reject unknown log level")
	}
	e = &Env{LogLevel: "info", RedisDB: 42}
	if err := e.Validate(); err == nil {
		t.Error("Validate() should reject redis db 42")
	}
}
