package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthProviderLocal   = "local"
	AuthProviderCasdoor = "casdoor"

	TransitionPolicyStrict       = "strict"
	TransitionPolicyUnrestricted = "unrestricted"

	defaultJWTSecret = "change-me-in-production"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	Database DatabaseConfig
	RedisURL string

	Auth    AuthConfig
	Casdoor CasdoorConfig
	Kafka   KafkaConfig
	Gemini  GeminiConfig

	TransitionPolicy      string
	AllowAnonymousReports bool
	SeedDatabase          bool
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type AuthConfig struct {
	Provider  string
	JWTSecret string
	JWTTTL    time.Duration
}

type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

type KafkaConfig struct {
	Brokers       []string
	TopicPrefix   string
	ConsumerGroup string
}

type GeminiConfig struct {
	APIKey           string
	Model            string
	Timeout          time.Duration
	StructuredOutput bool
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "crime_reports"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		RedisURL: os.Getenv("REDIS_URL"),
		Auth: AuthConfig{
			Provider:  strings.ToLower(getEnv("AUTH_PROVIDER", AuthProviderLocal)),
			JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
			JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		},
		Casdoor: CasdoorConfig{
			Endpoint:     os.Getenv("CASDOOR_ENDPOINT"),
			ClientID:     os.Getenv("CASDOOR_CLIENT_ID"),
			ClientSecret: os.Getenv("CASDOOR_CLIENT_SECRET"),
			Cert:         os.Getenv("CASDOOR_CERT"),
			Organization: os.Getenv("CASDOOR_ORGANIZATION"),
			Application:  os.Getenv("CASDOOR_APPLICATION"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(os.Getenv("KAFKA_BROKERS")),
			TopicPrefix:   getEnv("KAFKA_TOPIC_PREFIX", "crime-report"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "crime-report-service"),
		},
		Gemini: GeminiConfig{
			APIKey:           os.Getenv("GEMINI_API_KEY"),
			Model:            getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:          getEnvDuration("ANALYSIS_TIMEOUT", 30*time.Second),
			StructuredOutput: getEnvBool("ANALYSIS_STRUCTURED_OUTPUT", false),
		},
		TransitionPolicy:      strings.ToLower(getEnv("REPORT_TRANSITION_POLICY", TransitionPolicyStrict)),
		AllowAnonymousReports: getEnvBool("ALLOW_ANONYMOUS_REPORTS", true),
		SeedDatabase:          getEnvBool("SEED_DATABASE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Auth.Provider {
	case AuthProviderLocal:
	case AuthProviderCasdoor:
		if c.Casdoor.Endpoint == "" || c.Casdoor.ClientID == "" {
			return fmt.Errorf("casdoor auth provider requires CASDOOR_ENDPOINT and CASDOOR_CLIENT_ID")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}

	switch c.TransitionPolicy {
	case TransitionPolicyStrict, TransitionPolicyUnrestricted:
	default:
		return fmt.Errorf("unknown REPORT_TRANSITION_POLICY %q", c.TransitionPolicy)
	}

	if c.IsProduction() && c.Auth.Provider == AuthProviderLocal && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	if c.Auth.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
