package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Session  SessionConfig
	Cache    CacheConfig
	Redis    RedisConfig
	DynamoDB DynamoDBConfig
	Audit    AuditConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ImageHosts   []string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	CookieSecure bool
	MaxAge       time.Duration
}

type CacheConfig struct {
	Backend            string
	StaleTime          time.Duration
	DashboardStaleTime time.Duration
	GCTime             time.Duration
}

type RedisConfig struct {
	Endpoint string
	Password string
	DB       int
}

type DynamoDBConfig struct {
	Endpoint  string
	Region    string
	TableName string
}

type AuditConfig struct {
	Enabled bool
}

type LogConfig struct {
	Level string
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			ImageHosts:   getEnvAsList("IMAGE_HOSTS"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_URL", os.Getenv("NEXT_PUBLIC_API_URL")),
			Timeout: getEnvAsDuration("API_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			CookieSecure: getEnvAsBool("COOKIE_SECURE", true),
			MaxAge:       7 * 24 * time.Hour,
		},
		Cache: CacheConfig{
			Backend:            getEnv("CACHE_BACKEND", CacheBackendMemory),
			StaleTime:          getEnvAsDuration("CACHE_STALE_TIME", 5*time.Minute),
			DashboardStaleTime: getEnvAsDuration("CACHE_DASHBOARD_STALE_TIME", 2*time.Minute),
			GCTime:             getEnvAsDuration("CACHE_GC_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Endpoint: getEnv("REDIS_ENDPOINT", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		DynamoDB: DynamoDBConfig{
			Endpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
			Region:    getEnv("DYNAMODB_REGION", "us-east-1"),
			TableName: getEnv("DYNAMODB_TABLE_NAME", "FatlaAdminAudit"),
		},
		Audit: AuditConfig{
			Enabled: getEnvAsBool("AUDIT_ENABLED", false),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_URL environment variable is required")
	}

	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_URL must be an absolute URL, got %q", cfg.API.BaseURL)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	switch cfg.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return nil, fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, cfg.Cache.Backend)
	}

	if cfg.Cache.StaleTime <= 0 || cfg.Cache.DashboardStaleTime <= 0 {
		return nil, fmt.Errorf("cache stale times must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
