package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FASTSPRING_USERNAME", "user")
	t.Setenv("FASTSPRING_PASSWORD", "secret")
	t.Setenv("FASTSPRING_COMPANY", "acme")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.FastSpringUsername != "user" || cfg.FastSpringCompany != "acme" {
		t.Fatalf("credentials not read from env: %#v", cfg)
	}
	if cfg.FastSpringBaseURL != "https://api.fastspring.com" {
		t.Fatalf("base url default = %q", cfg.FastSpringBaseURL)
	}
	if cfg.PollInterval != 900*time.Second {
		t.Fatalf("poll interval = %s", cfg.PollInterval)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("http timeout = %s", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FASTSPRING_BASE_URL", "https://api.sandbox.example.com")
	t.Setenv("POLL_INTERVAL", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FastSpringBaseURL != "https://api.sandbox.example.com" {
		t.Fatalf("base url = %q", cfg.FastSpringBaseURL)
	}
	if cfg.PollInterval != time.Minute {
		t.Fatalf("poll interval = %s", cfg.PollInterval)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	cases := []struct {
		name string
		omit string
	}{
		{name: "username", omit: "FASTSPRING_USERNAME"},
		{name: "password", omit: "FASTSPRING_PASSWORD"},
		{name: "company", omit: "FASTSPRING_COMPANY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.omit, "")

			if _, err := Load(); err == nil {
				t.Fatalf("expected error with %s unset", tc.omit)
			}
		})
	}
}

func TestLoadRejectsBadIntervals(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero poll_interval")
	}
}
