package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PAYSTACK_SECRET_KEY", "")
	t.Setenv("TEMPORAL_HOST", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.AccessTokenTTL != 48*time.Hour {
		t.Fatalf("expected 48h ttl, got %s", cfg.AccessTokenTTL)
	}
	if cfg.WhatsAppNumber != "2348000000000" {
		t.Fatalf("unexpected whatsapp number %q", cfg.WhatsAppNumber)
	}
	if cfg.PaymentsEnabled() || cfg.ReconcileEnabled() {
		t.Fatalf("expected optional integrations disabled by default")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_x")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if !cfg.PaymentsEnabled() {
		t.Fatalf("expected payments enabled")
	}
}

func TestFromEnvRejectsBadTTL(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "-1h")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for negative ttl")
	}
}
