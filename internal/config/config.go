package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"

	NotifyLocal    = "local"
	NotifyRedis    = "redis"
	NotifyKafka    = "kafka"
	NotifyPostgres = "postgres"
)

type Config struct {
	ServiceName string
	HTTPPort    string
	ObsHTTPAddr string
	GRPCAddr    string
	InstanceID  string

	StoreDriver    string
	NotifyDriver   string
	RedisAddr      string
	DatabaseURL    string
	MigrateOnStart bool
	KafkaBrokers   []string
	KafkaTopic     string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration

	WindowLimit  int
	WriteTimeout time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSOrigins       []string

	LogLevel       string
	TracingEnabled bool
	JaegerURL      string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName: getEnv("SERVICE_NAME", "livechat"),
		HTTPPort:    fixPort(getEnv("HTTP_PORT", ":8080")),
		ObsHTTPAddr: fixPort(getEnv("HTTP_ADDR", ":8090")),
		GRPCAddr:    fixPort(getEnv("GRPC_ADDR", ":50060")),
		InstanceID:  getEnv("INSTANCE_ID", getEnv("HOSTNAME", "")),

		StoreDriver:    getEnv("STORE_DRIVER", StoreMemory),
		NotifyDriver:   getEnv("NOTIFY_DRIVER", NotifyLocal),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		KafkaBrokers:   splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "store-changes"),

		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		JWTIssuer:   getEnv("JWT_ISSUER", "livechat"),
		JWTAudience: getEnv("JWT_AUDIENCE", "livechat-web"),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 24*time.Hour),

		WindowLimit:  getEnvInt("WINDOW_LIMIT", 100),
		WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 10*time.Second),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerURL:      getEnv("JAEGER_URL", "http://localhost:14268/api/traces"),
	}
}

// Validate reports combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis store"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.NotifyDriver {
	case NotifyLocal:
	case NotifyRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for redis notifications"))
		}
	case NotifyKafka:
		if len(c.KafkaBrokers) == 0 || c.KafkaTopic == "" {
			errs = append(errs, errors.New("KAFKA_BROKERS and KAFKA_TOPIC are required for kafka notifications"))
		}
	case NotifyPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres notifications"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFY_DRIVER %q", c.NotifyDriver))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.WindowLimit <= 0 || c.WindowLimit > domain.WindowSize {
		errs = append(errs, fmt.Errorf("WINDOW_LIMIT must be between 1 and %d", domain.WindowSize))
	}
	if c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("WRITE_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func fixPort(port string) string {
	if port != "" && !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true"
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
