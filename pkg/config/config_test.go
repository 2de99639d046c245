package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/careerpulse")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("SYNC_FETCH_TIMEOUT", "")
	t.Setenv("SYNC_MAX_CONCURRENT_FETCHES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Errorf("access expiry = %v, want 15m", cfg.JWTAccessExpiry)
	}
	if cfg.JWTRefreshExpiry != 168*time.Hour {
		t.Errorf("refresh expiry = %v, want 168h", cfg.JWTRefreshExpiry)
	}
	if cfg.SyncFetchTimeout != 30*time.Second {
		t.Errorf("fetch timeout = %v, want 30s", cfg.SyncFetchTimeout)
	}
	if cfg.SyncMaxConcurrentFetches != 5 {
		t.Errorf("max fetches = %d, want 5", cfg.SyncMaxConcurrentFetches)
	}
	if !strings.Contains(cfg.GoogleRedirectURI, "/api/auth/gmail/callback") {
		t.Errorf("redirect uri = %q", cfg.GoogleRedirectURI)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_ACCESS_EXPIRY", "5m")
	t.Setenv("SYNC_FETCH_TIMEOUT", "10s")
	t.Setenv("SYNC_MAX_CONCURRENT_FETCHES", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("port = %q, want 9000", cfg.Port)
	}
	if cfg.JWTAccessExpiry != 5*time.Minute {
		t.Errorf("access expiry = %v, want 5m", cfg.JWTAccessExpiry)
	}
	if cfg.SyncFetchTimeout != 10*time.Second {
		t.Errorf("fetch timeout = %v, want 10s", cfg.SyncFetchTimeout)
	}
	if cfg.SyncMaxConcurrentFetches != 12 {
		t.Errorf("max fetches = %d, want 12", cfg.SyncMaxConcurrentFetches)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}
