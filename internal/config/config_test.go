package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Errorf("expected default email provider sendgrid, got %s", cfg.EmailProvider)
	}
	if cfg.SMSSegmentRateCents != 1 {
		t.Errorf("expected default segment rate 1, got %d", cfg.SMSSegmentRateCents)
	}
	if cfg.TemplateCacheTTL != 5*time.Minute {
		t.Errorf("unexpected cache TTL %s", cfg.TemplateCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("EMAIL_PROVIDER", "SES")
	t.Setenv("SEND_RATE_PER_MIN", "120")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("expected port override, got %s", cfg.Port)
	}
	if cfg.EmailProvider != "ses" {
		t.Errorf("expected normalized email provider ses, got %s", cfg.EmailProvider)
	}
	if cfg.SendRatePerMin != 120 {
		t.Errorf("expected rate override, got %d", cfg.SendRatePerMin)
	}
	if !cfg.RedisTLS {
		t.Error("expected redis TLS enabled")
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
}

func TestGetEnvAsIntBadValue(t *testing.T) {
	t.Setenv("SEND_BURST", "not-a-number")
	cfg := Load()
	if cfg.SendBurst != 10 {
		t.Errorf("expected fallback burst 10, got %d", cfg.SendBurst)
	}
}
