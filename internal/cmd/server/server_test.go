package server

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Addr != "" {
		t.Fatalf("expected empty addr, got %q", cfg.Addr)
	}
	if cfg.StorePath != "" {
		t.Fatalf("expected in-memory store default, got %q", cfg.StorePath)
	}
	if cfg.VerifySignature {
		t.Fatalf("expected signature verification off by default")
	}
	if cfg.LockTTL != 2*time.Second || cfg.LockBudget != 1500*time.Millisecond {
		t.Fatalf("lock defaults = %v / %v", cfg.LockTTL, cfg.LockBudget)
	}
	if cfg.SessionTTL != 2*time.Minute || cfg.FastBudget != 2*time.Second {
		t.Fatalf("ttl defaults = %v / %v", cfg.SessionTTL, cfg.FastBudget)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9001", "-addr", "127.0.0.1:9999", "-store", "/tmp/kv.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected addr override, got %q", cfg.Addr)
	}
	if cfg.StorePath != "/tmp/kv.db" {
		t.Fatalf("expected store override, got %q", cfg.StorePath)
	}
}
