// Package config collects the environment driven settings of the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProdEnv = "production"
	DevEnv  = "dev"
	TestEnv = "test"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppEnv string
	Port   string

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	APISecret  string
	SessionTTL time.Duration

	PostsPerPage  int
	IndexCacheTTL time.Duration
	RateLimit     bool

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisUsername string

	MediaRoot string
	MediaURL  string
	S3Bucket  string
	AWSRegion string

	SendgridAPIKey string
	MailFrom       string
	SiteURL        string

	SentryDSN     string
	DatadogAPIKey string

	AdminEmail    string
	AdminPassword string
}

// LoadDotEnvs layers the .env files for the current APP_ENV. Earlier files win
// because godotenv never overrides a variable that is already set.
func LoadDotEnvs() {
	env := os.Getenv("APP_ENV")
	if env == ProdEnv {
		return
	}
	if env == "" {
		env = DevEnv
	}
	_ = godotenv.Load(".env." + env + ".local")
	if env != TestEnv {
		_ = godotenv.Load(".env.local")
	}
	_ = godotenv.Load(".env." + env)
	_ = godotenv.Load(".env")
}

// Load reads the configuration from the process environment.
func Load() *Config {
	port := getenv("PORT", "")
	if port == "" {
		port = getenv("API_PORT", "8888")
	}

	return &Config{
		AppEnv: getenv("APP_ENV", DevEnv),
		Port:   strings.TrimSpace(port),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getenv("DB_NAME", "yatube"),

		APISecret:  getenv("API_SECRET", "yatube-dev-secret"),
		SessionTTL: getDuration("SESSION_TTL", 14*24*time.Hour),

		PostsPerPage:  getInt("POSTS_PER_PAGE", 10),
		IndexCacheTTL: getDuration("INDEX_CACHE_TTL", 20*time.Second),
		RateLimit:     getBool("RATE_LIMIT", true),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),

		MediaRoot: getenv("MEDIA_ROOT", "media"),
		MediaURL:  getenv("MEDIA_URL", "/media/"),
		S3Bucket:  strings.SplitN(os.Getenv("S3_BUCKET"), "/", 2)[0],
		AWSRegion: getenv("AWS_REGION", "us-east-2"),

		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenv("MAIL_FROM", "noreply@yatube.local"),
		SiteURL:        strings.TrimRight(getenv("SITE_URL", "http://127.0.0.1:8888"), "/"),

		SentryDSN:     os.Getenv("SENTRY_DSN"),
		DatadogAPIKey: os.Getenv("DATADOG_API_KEY"),

		AdminEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, ProdEnv)
}

// DSN builds the connection string for the configured driver. In production
// DATABASE_URL takes precedence and is forced onto TLS.
func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		if c.DBName == "" {
			return "yatube.sqlite3"
		}
		return c.DBName
	}
	if c.DatabaseURL != "" {
		dsn := c.DatabaseURL
		if c.IsProduction() && !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// plain integers are seconds
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}
