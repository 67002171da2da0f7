package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// History backends selectable with HISTORY_BACKEND.
const (
	HistoryBackendMemory   = "memory"
	HistoryBackendPostgres = "postgres"
	HistoryBackendRedis    = "redis"
	HistoryBackendSQLite   = "sqlite"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	LogLevel           string
	Port               string
	DatabaseURL        string
	DBMaxConns         int
	RedisURL           string
	SQLitePath         string
	GeoIPDBPath        string
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	ShutdownTimeout    time.Duration
	RateLimitPerMin    int
	TrustProxyHeaders  bool

	VideoAPIURL        string
	VideoAPIKey        string
	VideoAPICustomerID string
	VideoModel         string
	VideoAPITimeout    time.Duration
	VideoURLStrict     bool

	PromptMinLength int
	PromptMaxLength int

	HistoryBackend string
	HistoryLimit   int
	HistoryTTL     time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "")),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 8),
		RedisURL:           os.Getenv("REDIS_URL"),
		SQLitePath:         getEnv("SQLITE_PATH", "videostudio.db"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 960)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		ShutdownTimeout:    time.Second * time.Duration(getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SECONDS", 30)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		TrustProxyHeaders:  getEnvBool("TRUST_PROXY_HEADERS", false),
		VideoAPIURL:        getEnv("VIDEO_API_URL", "https://oi-server.onrender.com/chat/completions"),
		VideoAPIKey:        strings.TrimSpace(os.Getenv("VIDEO_API_KEY")),
		VideoAPICustomerID: strings.TrimSpace(os.Getenv("VIDEO_API_CUSTOMER_ID")),
		VideoModel:         getEnv("VIDEO_MODEL", "replicate/google/veo-3"),
		VideoAPITimeout:    time.Second * time.Duration(getEnvInt("VIDEO_API_TIMEOUT_SECONDS", 900)),
		VideoURLStrict:     getEnvBool("VIDEO_URL_STRICT", false),
		PromptMinLength:    getEnvInt("PROMPT_MIN_LENGTH", 10),
		PromptMaxLength:    getEnvInt("PROMPT_MAX_LENGTH", 500),
		HistoryBackend:     strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendMemory)),
		HistoryLimit:       getEnvInt("HISTORY_LIMIT", 50),
		HistoryTTL:         time.Minute * time.Duration(getEnvInt("HISTORY_TTL_MINUTES", 24*60)),
	}

	if cfg.PromptMinLength < 0 {
		return nil, fmt.Errorf("PROMPT_MIN_LENGTH must not be negative")
	}
	if cfg.PromptMaxLength <= 0 {
		return nil, fmt.Errorf("PROMPT_MAX_LENGTH must be positive")
	}
	if cfg.PromptMinLength > cfg.PromptMaxLength {
		return nil, fmt.Errorf("PROMPT_MIN_LENGTH exceeds PROMPT_MAX_LENGTH")
	}
	if cfg.DBMaxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.HistoryLimit <= 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive")
	}

	switch cfg.HistoryBackend {
	case HistoryBackendMemory:
	case HistoryBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for postgres history")
		}
	case HistoryBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for redis history")
		}
	case HistoryBackendSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required for sqlite history")
		}
	default:
		return nil, fmt.Errorf("unknown HISTORY_BACKEND %q", cfg.HistoryBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
