package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WA_TOKEN", "wa-token")
	t.Setenv("WA_PHONE_NUMBER_ID", "pn-1")
	t.Setenv("WA_VERIFY_TOKEN", "verify")
	t.Setenv("WA_APP_SECRET", "secret")
	t.Setenv("ADMIN_TOKEN", "admin")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want 10s", cfg.HTTPTimeout)
	}
	if cfg.SessionIdleTTL != 24*time.Hour {
		t.Errorf("SessionIdleTTL = %v, want 24h", cfg.SessionIdleTTL)
	}
	if cfg.DedupRetention != 7*24*time.Hour {
		t.Errorf("DedupRetention = %v, want 168h", cfg.DedupRetention)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_IDLE_TTL", "12h")
	t.Setenv("SWEEP_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.SessionIdleTTL != 12*time.Hour {
		t.Errorf("SessionIdleTTL = %v, want 12h", cfg.SessionIdleTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("SweepInterval = %v, want 1m", cfg.SweepInterval)
	}
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	required := []string{"WA_TOKEN", "WA_PHONE_NUMBER_ID", "WA_VERIFY_TOKEN", "WA_APP_SECRET", "ADMIN_TOKEN"}

	for _, missing := range required {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")

			if _, err := Load(); err == nil {
				t.Errorf("Load succeeded without %s", missing)
			}
		})
	}
}

func TestBadDurationFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")
	t.Setenv("SESSION_IDLE_TTL", "-5h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want fallback 10s", cfg.HTTPTimeout)
	}
	if cfg.SessionIdleTTL != 24*time.Hour {
		t.Errorf("SessionIdleTTL = %v, want fallback 24h", cfg.SessionIdleTTL)
	}
}
