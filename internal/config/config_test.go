package config

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("profile = %q", cfg.Profile)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.DirectoryBackend != BackendSQLite {
		t.Fatalf("backend = %q", cfg.DirectoryBackend)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("session ttl = %v", cfg.SessionTTL)
	}
	if cfg.SessionSecret == "" {
		t.Fatal("dev profile should fall back to a secret")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("CARDPARK_HTTP_ADDR", ":9999")
	t.Setenv("CARDPARK_SESSION_TTL", "1h")
	t.Setenv("CARDPARK_API_RATE_LIMIT_RPM", "42")
	t.Setenv("CARDPARK_CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9999" || cfg.SessionTTL != time.Hour || cfg.APIRateLimitRPM != 42 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.example" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("CARDPARK_SESSION_TTL", "yesterday")
	_, err := Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "parse CARDPARK_SESSION_TTL") {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateProdRules(t *testing.T) {
	t.Setenv("CARDPARK_PROFILE", "prod")
	t.Setenv("CARDPARK_DIRECTORY_BACKEND", "postgres")
	t.Setenv("CARDPARK_DIRECTORY_DSN", "host=db user=cardpark")

	_, err := Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "CARDPARK_SESSION_SECRET") {
		t.Fatalf("prod without secret should fail, err = %v", err)
	}

	t.Setenv("CARDPARK_SESSION_SECRET", strings.Repeat("s", 32))
	if _, err := Load(context.Background()); err != nil {
		t.Fatalf("valid prod config rejected: %v", err)
	}

	t.Setenv("CARDPARK_DIRECTORY_BACKEND", "sqlite")
	_, err = Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "sqlite") {
		t.Fatalf("prod sqlite should fail, err = %v", err)
	}
}

func TestValidateRESTBackendNeedsEndpoint(t *testing.T) {
	t.Setenv("CARDPARK_DIRECTORY_BACKEND", "rest")
	_, err := Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "CARDPARK_DIRECTORY_ENDPOINT") {
		t.Fatalf("err = %v", err)
	}

	t.Setenv("CARDPARK_DIRECTORY_ENDPOINT", "https://api.example.com/rest/v1")
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DirectoryEndpoint != "https://api.example.com/rest/v1" {
		t.Fatalf("endpoint = %q", cfg.DirectoryEndpoint)
	}
}

func TestValidateUnknownBackend(t *testing.T) {
	t.Setenv("CARDPARK_DIRECTORY_BACKEND", "oracle")
	_, err := Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "CARDPARK_DIRECTORY_BACKEND") {
		t.Fatalf("err = %v", err)
	}
}
