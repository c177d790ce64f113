package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// No config file in the test working directory: Load falls back to
	// defaults instead of failing.
	t.Setenv("CONFIG_ENV", "test-nonexistent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "release" {
		t.Errorf("Mode = %q, want release", cfg.Mode)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.ReadLimit != 32768 {
		t.Errorf("ReadLimit = %d, want 32768", cfg.ReadLimit)
	}
	if cfg.WriteTimeout != 5*time.Second {
		t.Errorf("WriteTimeout = %v, want 5s", cfg.WriteTimeout)
	}
	if cfg.SendBuffer != 32 {
		t.Errorf("SendBuffer = %d, want 32", cfg.SendBuffer)
	}
}
