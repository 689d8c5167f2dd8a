package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "")
	t.Setenv("REPORT_TRANSITION_POLICY", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Auth.Provider != AuthProviderLocal {
		t.Errorf("Auth.Provider = %q, want %q", cfg.Auth.Provider, AuthProviderLocal)
	}
	if cfg.TransitionPolicy != TransitionPolicyStrict {
		t.Errorf("TransitionPolicy = %q, want %q", cfg.TransitionPolicy, TransitionPolicyStrict)
	}
	if !cfg.AllowAnonymousReports {
		t.Error("AllowAnonymousReports should default to true")
	}
	if cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("REPORT_TRANSITION_POLICY", "UNRESTRICTED")
	t.Setenv("ALLOW_ANONYMOUS_REPORTS", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Auth.JWTTTL != 2*time.Hour {
		t.Errorf("JWTTTL = %v, want 2h", cfg.Auth.JWTTTL)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.TransitionPolicy != TransitionPolicyUnrestricted {
		t.Errorf("TransitionPolicy = %q", cfg.TransitionPolicy)
	}
	if cfg.AllowAnonymousReports {
		t.Error("AllowAnonymousReports should be false")
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment:      "development",
			Auth:             AuthConfig{Provider: AuthProviderLocal, JWTSecret: defaultJWTSecret, JWTTTL: time.Hour},
			TransitionPolicy: TransitionPolicyStrict,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid development config", mutate: func(c *Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.Auth.Provider = "ldap" }, wantErr: true},
		{name: "casdoor without endpoint", mutate: func(c *Config) { c.Auth.Provider = AuthProviderCasdoor }, wantErr: true},
		{name: "unknown transition policy", mutate: func(c *Config) { c.TransitionPolicy = "loose" }, wantErr: true},
		{name: "production with default secret", mutate: func(c *Config) { c.Environment = "production" }, wantErr: true},
		{name: "production with secret", mutate: func(c *Config) {
			c.Environment = "production"
			c.Auth.JWTSecret = "s3cret"
		}},
		{name: "non-positive ttl", mutate: func(c *Config) { c.Auth.JWTTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	d.URL = "postgres://u:p@db/n"
	if got := d.DSN(); got != d.URL {
		t.Errorf("DSN() = %q, want URL", got)
	}
}
