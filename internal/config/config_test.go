package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			InstanceID:             "test",
			HTTPListen:             ":8080",
			LogLevel:               "info",
			ShutdownTimeoutSeconds: 30,
		},
		Collector: CollectorConfig{
			Mode:        "snmp",
			Concurrency: 16,
			Retries:     2,
		},
		SNMP: SNMPConfig{
			CommunityList:    []string{"public"},
			Port:             161,
			TimeoutSeconds:   3,
			Retries:          2,
			CollectorRetries: 2,
			MaxRepetitions:   10,
			WalkTimeoutSecs:  20,
		},
		Postgres: PostgresConfig{
			DSN:      "postgres://localhost/test",
			MaxConns: 10,
			MinConns: 2,
		},
		Retention: RetentionConfig{
			Days:     30,
			Timezone: "UTC",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
}

func TestValidate_NoDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Postgres.DSN = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestValidate_InvalidMode(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Mode = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid collector.mode")
	}
}

func TestValidate_ConcurrencyZero(t *testing.T) {
	cfg := validConfig()
	cfg.Collector.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for concurrency = 0")
	}
}

func TestValidate_NoCommunityList(t *testing.T) {
	cfg := validConfig()
	cfg.SNMP.CommunityList = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty snmp.community_list")
	}
}

func TestValidate_WalkTimeoutZero(t *testing.T) {
	cfg := validConfig()
	cfg.SNMP.WalkTimeoutSecs = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for walk_timeout_seconds = 0")
	}
}

func TestValidate_MaxRepetitionsZero(t *testing.T) {
	cfg := validConfig()
	cfg.SNMP.MaxRepetitions = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_repetitions = 0")
	}
}

func TestValidate_RetentionDaysZero(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.Days = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for retention.days = 0")
	}
}

func TestValidate_ShutdownTimeoutZero(t *testing.T) {
	cfg := validConfig()
	cfg.Service.ShutdownTimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for shutdown_timeout_seconds = 0")
	}
}

func TestValidate_InvalidTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.Timezone = "Not/A/Real/Zone"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}

func TestValidate_ValidTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.Timezone = "America/New_York"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
}

func writeMinimalYAML(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	data := `
snmp:
  community_list:
    - "public"
postgres:
  dsn: "postgres://localhost/test"
`
	if err := os.WriteFile(p, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_EnvOverrideDSN(t *testing.T) {
	p := writeMinimalYAML(t)
	t.Setenv("COLLECTORD_POSTGRES__DSN", "postgres://envhost/envdb")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Postgres.DSN != "postgres://envhost/envdb" {
		t.Errorf("expected DSN from env, got %q", cfg.Postgres.DSN)
	}
}

func TestLoad_EnvOverrideLogLevel(t *testing.T) {
	p := writeMinimalYAML(t)
	t.Setenv("COLLECTORD_SERVICE__LOG_LEVEL", "debug")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Service.LogLevel != "debug" {
		t.Errorf("expected log_level 'debug' from env, got %q", cfg.Service.LogLevel)
	}
}

func TestLoad_EnvInvalidModeFailsValidation(t *testing.T) {
	p := writeMinimalYAML(t)
	t.Setenv("COLLECTORD_COLLECTOR__MODE", "bogus")

	_, err := Load(p)
	if err == nil {
		t.Fatal("expected validation error for invalid collector.mode via env")
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	p := writeMinimalYAML(t)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Collector.Mode != "snmp" {
		t.Errorf("expected default collector.mode 'snmp', got %q", cfg.Collector.Mode)
	}
	if cfg.Collector.Concurrency != 16 {
		t.Errorf("expected default concurrency 16, got %d", cfg.Collector.Concurrency)
	}
	if cfg.SNMP.MaxRepetitions != 10 {
		t.Errorf("expected default max_repetitions 10, got %d", cfg.SNMP.MaxRepetitions)
	}
	if cfg.SNMP.CollectorRetries != 2 {
		t.Errorf("expected default collector_retries 2, got %d", cfg.SNMP.CollectorRetries)
	}
}
