package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	configViper := NewViper()
	configViper.Set("auth.signing_secret", "unit-test-secret")

	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPAddress != "0.0.0.0:8080" {
		t.Fatalf("unexpected http address: %q", cfg.HTTPAddress)
	}
	if cfg.DatabasePath != "basque.db" {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath)
	}
	if cfg.SessionCookieName != "basque_session" {
		t.Fatalf("unexpected cookie name: %q", cfg.SessionCookieName)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %v", cfg.TokenTTL)
	}
}

func TestLoadRequiresSigningSecret(t *testing.T) {
	configViper := NewViper()
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected error without signing secret")
	}
}

func TestLoadRejectsBlankDatabasePath(t *testing.T) {
	configViper := NewViper()
	configViper.Set("auth.signing_secret", "unit-test-secret")
	configViper.Set("database.path", "   ")
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected error for blank database path")
	}
}

func TestLoadHonorsOverrides(t *testing.T) {
	configViper := NewViper()
	configViper.Set("auth.signing_secret", "unit-test-secret")
	configViper.Set("http.address", "127.0.0.1:9999")
	configViper.Set("auth.token_ttl_hours", 2)

	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPAddress != "127.0.0.1:9999" {
		t.Fatalf("unexpected http address: %q", cfg.HTTPAddress)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("unexpected token ttl: %v", cfg.TokenTTL)
	}
}
