package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProfileDev  = "dev"
	ProfileProd = "prod"
)

// Directory backend selectors.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendREST     = "rest"
)

type Config struct {
	Profile string

	HTTPAddr string

	DirectoryBackend string
	DirectoryDSN     string
	// REST backend only.
	DirectoryEndpoint string
	DirectoryAPIKey   string
	DirectoryTable    string
	DirectoryTimeout  time.Duration

	// Empty RedisAddr selects the in-memory session store.
	RedisAddr     string
	SessionSecret string
	SessionTTL    time.Duration

	CORSOrigins       []string
	APIRateLimitRPM   int
	ClaimRateLimitRPM int

	OTELMetricsEnabled        bool
	OTELTracesEnabled         bool
	OTELLogsEnabled           bool
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELServiceName           string
	OTELEnvironment           string
	OTELMetricsExportInterval time.Duration
}

// Load reads configuration from the environment, applies defaults and
// validates the result. A config-validation event is recorded for
// every attempt, success or failure.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := load()
	recordConfigValidationEvent(ctx, profileForEvent(cfg), outcomeForEvent(err), classifyConfigLoadError(err))
	return cfg, err
}

func load() (*Config, error) {
	cfg := &Config{
		Profile:                  strings.ToLower(getEnv("CARDPARK_PROFILE", ProfileDev)),
		HTTPAddr:                 getEnv("CARDPARK_HTTP_ADDR", ":8080"),
		DirectoryBackend:         strings.ToLower(getEnv("CARDPARK_DIRECTORY_BACKEND", BackendSQLite)),
		DirectoryDSN:             getEnv("CARDPARK_DIRECTORY_DSN", "file:cardpark.db?_fk=1"),
		DirectoryEndpoint:        strings.TrimRight(getEnv("CARDPARK_DIRECTORY_ENDPOINT", ""), "/"),
		DirectoryAPIKey:          getEnv("CARDPARK_DIRECTORY_API_KEY", ""),
		DirectoryTable:           getEnv("CARDPARK_DIRECTORY_TABLE", "access_codes"),
		RedisAddr:                getEnv("CARDPARK_REDIS_ADDR", ""),
		SessionSecret:            getEnv("CARDPARK_SESSION_SECRET", ""),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "cardpark"),
		OTELEnvironment:          getEnv("OTEL_ENVIRONMENT", "dev"),
	}

	var err error
	if cfg.DirectoryTimeout, err = getDuration("CARDPARK_DIRECTORY_TIMEOUT", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.SessionTTL, err = getDuration("CARDPARK_SESSION_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.APIRateLimitRPM, err = getInt("CARDPARK_API_RATE_LIMIT_RPM", 300); err != nil {
		return cfg, err
	}
	if cfg.ClaimRateLimitRPM, err = getInt("CARDPARK_CLAIM_RATE_LIMIT_RPM", 30); err != nil {
		return cfg, err
	}
	if cfg.OTELMetricsEnabled, err = getBool("OTEL_METRICS_ENABLED", false); err != nil {
		return cfg, err
	}
	if cfg.OTELTracesEnabled, err = getBool("OTEL_TRACES_ENABLED", false); err != nil {
		return cfg, err
	}
	if cfg.OTELLogsEnabled, err = getBool("OTEL_LOGS_ENABLED", false); err != nil {
		return cfg, err
	}
	if cfg.OTELExporterOTLPInsecure, err = getBool("OTEL_EXPORTER_OTLP_INSECURE", true); err != nil {
		return cfg, err
	}
	if cfg.OTELMetricsExportInterval, err = getDuration("OTEL_METRICS_EXPORT_INTERVAL", 30*time.Second); err != nil {
		return cfg, err
	}

	if origins := getEnv("CARDPARK_CORS_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Profile != ProfileDev && c.Profile != ProfileProd {
		return fmt.Errorf("validate config: CARDPARK_PROFILE must be %q or %q", ProfileDev, ProfileProd)
	}
	switch c.DirectoryBackend {
	case BackendSQLite, BackendPostgres:
		if c.DirectoryDSN == "" {
			return fmt.Errorf("validate config: CARDPARK_DIRECTORY_DSN is required for the %s backend", c.DirectoryBackend)
		}
	case BackendREST:
		if c.DirectoryEndpoint == "" {
			return fmt.Errorf("validate config: CARDPARK_DIRECTORY_ENDPOINT is required for the rest backend")
		}
	default:
		return fmt.Errorf("validate config: unknown CARDPARK_DIRECTORY_BACKEND %q", c.DirectoryBackend)
	}
	if c.Profile == ProfileProd {
		if len(c.SessionSecret) < 32 {
			return fmt.Errorf("validate config: CARDPARK_SESSION_SECRET must be at least 32 characters in prod")
		}
		if c.DirectoryBackend == BackendSQLite {
			return fmt.Errorf("validate config: sqlite directory backend is not allowed in prod")
		}
	}
	if c.SessionSecret == "" {
		// Dev convenience only; cookies signed with this are worthless
		// across restarts, which is fine for a local run.
		c.SessionSecret = "cardpark-dev-session-secret-0123456789"
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("validate config: CARDPARK_SESSION_TTL must be positive")
	}
	return nil
}

func profileForEvent(cfg *Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Profile
}

func outcomeForEvent(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
