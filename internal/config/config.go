package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DBDriver             string
	DatabaseDSN          string
	RedisAddr            string
	RedisPassword        string
	StatsCacheTTL        time.Duration
	CourseServiceURL     string
	CourseServiceToken   string
	CourseServiceTimeout time.Duration
	LogLevel             string
	CorsAllowedOrigins   []string
	CookieDomain         string
}

var AppConfig *Config

// Load reads .env when present and falls back to the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		Log.Debug(".env file not found, using system environment variables")
	}

	AppConfig = &Config{
		Port:                 getEnv("PORT", "8080"),
		DBDriver:             getEnv("DB_DRIVER", DriverPostgres),
		DatabaseDSN:          os.Getenv("DATABASE_DSN"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		StatsCacheTTL:        getEnvDuration("STATS_CACHE_TTL", 5*time.Minute),
		CourseServiceURL:     os.Getenv("COURSE_SERVICE_URL"),
		CourseServiceToken:   os.Getenv("COURSE_SERVICE_TOKEN"),
		CourseServiceTimeout: getEnvDuration("COURSE_SERVICE_TIMEOUT", 5*time.Second),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CorsAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		CookieDomain:         os.Getenv("COOKIE_DOMAIN"),
	}
	return AppConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		Log.WithError(err).Warnf("invalid integer for %s, using default", key)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		Log.WithError(err).Warnf("invalid duration for %s, using default", key)
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
