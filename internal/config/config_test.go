package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_SchedulerRequiresTokensWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SCHEDULER_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SCHEDULER_ENABLED=true without SCHEDULER_TOKEN")
	}

	t.Setenv("SCHEDULER_TOKEN", "token-123")
	t.Setenv("SCHEDULER_TARGET_BASE_URL", "https://api.league-hub.dev")
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SCHEDULER_ENABLED=true without INTERNAL_JOB_TOKEN")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "job-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.SchedulerEnabled {
		t.Fatalf("expected SchedulerEnabled=true")
	}
	if cfg.SchedulerTargetBaseURL != "https://api.league-hub.dev" {
		t.Fatalf("unexpected SchedulerTargetBaseURL: %q", cfg.SchedulerTargetBaseURL)
	}
}

func TestLoad_InviteDurations(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("INVITE_TTL", "72h")
	t.Setenv("INVITE_SWEEP_INTERVAL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InviteTTL != 72*time.Hour {
		t.Fatalf("unexpected InviteTTL: %s", cfg.InviteTTL)
	}
	if cfg.InviteSweepInterval != 5*time.Minute {
		t.Fatalf("unexpected InviteSweepInterval: %s", cfg.InviteSweepInterval)
	}

	t.Setenv("INVITE_TTL", "0s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive INVITE_TTL")
	}
}

func TestLoad_DefaultInviteTTL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("INVITE_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InviteTTL != 168*time.Hour {
		t.Fatalf("expected default 168h invite TTL, got %s", cfg.InviteTTL)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"INFO":    "info",
		"warning": "warn",
		"error":   "error",
		"bogus":   "info",
	}
	for input, want := range cases {
		if got := parseLogLevel(input).String(); got != want {
			t.Fatalf("parseLogLevel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	dsn := parseUptraceDSNFromOTLPHeaders(`uptrace-dsn="https://token@uptrace.dev/1"`)
	if dsn != "https://token@uptrace.dev/1" {
		t.Fatalf("unexpected dsn: %q", dsn)
	}
	if parseUptraceDSNFromOTLPHeaders("foo=bar") != "" {
		t.Fatalf("expected empty dsn for unrelated headers")
	}
}
