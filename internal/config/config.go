package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	REST     RESTConfig
	Logging  LoggingConfig
	Store    StoreConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Sync     SyncConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Port string
}

type RESTConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RulesFile string
}

type LoggingConfig struct {
	Level     string
	Format    string
	Directory string
}

// StoreConfig selects where sessions live: "file", "redis" or "memory".
type StoreConfig struct {
	Driver string
	Path   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type SyncConfig struct {
	RecheckSpec string
}

type SecurityConfig struct {
	JWTSecret string
}

const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Load reads the configuration from the environment. Callers load .env first.
func Load() (*Config, error) {
	timeout, err := durationEnv("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{Port: envOr("CONSOLE_PORT", envOr("PORT", "8080"))},
		REST: RESTConfig{
			BaseURL:   strings.TrimRight(envOr("API_BASE_URL", "http://localhost:3000/api"), "/"),
			Timeout:   timeout,
			RulesFile: strings.TrimSpace(os.Getenv("API_RULES_FILE")),
		},
		Logging: LoggingConfig{
			Level:     envOr("LOG_LEVEL", "info"),
			Format:    envOr("LOG_FORMAT", "text"),
			Directory: strings.TrimSpace(os.Getenv("LOG_DIRECTORY")),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(envOr("STORE_DRIVER", StoreFile)),
			Path:   strings.TrimSpace(os.Getenv("STORE_PATH")),
		},
		Redis: RedisConfig{
			Addr:     envOr("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			Prefix:   envOr("REDIS_PREFIX", "darenow:"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(envOr("KAFKA_BROKERS", os.Getenv("KAFKA_BROKER"))),
			Topic:   envOr("KAFKA_SESSION_TOPIC", "darenow.session"),
			GroupID: strings.TrimSpace(os.Getenv("KAFKA_GROUP_ID")),
		},
		Sync: SyncConfig{
			RecheckSpec: envOr("SYNC_RECHECK_SPEC", "@every 30s"),
		},
		Security: SecurityConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
	}

	switch cfg.Store.Driver {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.Store.Driver)
	}
	if strings.EqualFold(cfg.Sync.RecheckSpec, "off") {
		cfg.Sync.RecheckSpec = ""
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	// Bare numbers are milliseconds.
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
