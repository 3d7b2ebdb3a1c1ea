package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GhostPeony/browsy/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Viewport.Width != 1280 || cfg.Viewport.Height != 720 {
		t.Errorf("default viewport = %dx%d", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if cfg.Logging.Level != "normal" {
		t.Errorf("default level = %q", cfg.Logging.Level)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browsy.yaml")
	data := []byte("viewport:\n  width: 800\n  height: 600\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Viewport.Width != 800 || cfg.Viewport.Height != 600 {
		t.Errorf("viewport = %dx%d", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if cfg.Limits.MaxHTMLBytes == 0 {
		t.Error("defaults must survive partial overrides")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("viewport:\n  width: -1\n  height: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("negative viewport must fail validation")
	}

	if err := os.WriteFile(path, []byte("logging:\n  level: chatty\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("unknown log level must fail validation")
	}
}

func TestPrepareLoggerLevels(t *testing.T) {
	for _, level := range []string{"none", "normal", "debug"} {
		conf := config.LoggingConfig{Level: level}
		log, err := conf.Prepare()
		if err != nil || log == nil {
			t.Errorf("Prepare(%q) = %v, %v", level, log, err)
		}
	}
}

func TestDumpRoundTrips(t *testing.T) {
	cfg := config.Default()
	data, err := config.Dump(cfg)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dump.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	again, err := config.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *again != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", again, cfg)
	}
}
