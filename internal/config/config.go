package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with LINKVAULT_STORAGE.
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per request, must cover smart save enrichment

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Storage     string // file | memory | redis | sqlite | postgres
	DataDir     string // file backend directory
	SQLiteDSN   string // file path, or libsql:// / wss:// URL for Turso
	DatabaseURL string // postgres connection string

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Enrichment
	GeminiAPIKey  string        // empty => enrichment disabled
	GeminiModel   string        // ex: "gemini-2.5-flash"
	EnrichTimeout time.Duration // per enrichment call

	// Homepage import
	BookmarkFile   string        // bookmarks.yaml (optional)
	ServicesFile   string        // services.yaml (optional)
	ImportInterval time.Duration // default: 24h

	// Access restrictions
	AllowedHosts []string // optional, restrict /api to specific Host headers
	AllowedCIDRS []string // optional, restrict /metrics to specific IP ranges
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // optional, "*" allows any origin
	UnlockBurst  int      // unlock attempts allowed at once
	UnlockPerMin int      // unlock attempts refilled per minute
}

func Load() *Config {
	// A missing .env is fine, the environment wins anyway.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKVAULT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKVAULT_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("LINKVAULT_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("LINKVAULT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKVAULT_PRETTY_LOG", true),

		// Storage
		Storage:     strings.ToLower(getenv("LINKVAULT_STORAGE", StorageFile)),
		DataDir:     getenv("LINKVAULT_DATA_DIR", "./data"),
		SQLiteDSN:   getenv("LINKVAULT_SQLITE_DSN", ""),
		DatabaseURL: getenv("LINKVAULT_DATABASE_URL", ""),

		// Redis settings
		RedisAddr:             getenv("LINKVAULT_REDIS_ADDR", ""),
		RedisUser:             getenv("LINKVAULT_REDIS_USERNAME", ""),
		RedisPasswordRequired: mustBool("LINKVAULT_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("LINKVAULT_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LINKVAULT_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Enrichment
		GeminiAPIKey:  getenv("LINKVAULT_GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:   getenv("LINKVAULT_GEMINI_MODEL", "gemini-2.5-flash"),
		EnrichTimeout: mustDuration("LINKVAULT_ENRICH_TIMEOUT", 20*time.Second),

		// Homepage import
		BookmarkFile:   getenv("LINKVAULT_BOOKMARK_FILE", ""),
		ServicesFile:   getenv("LINKVAULT_SERVICES_FILE", ""),
		ImportInterval: mustDuration("LINKVAULT_IMPORT_INTERVAL", 24*time.Hour),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LINKVAULT_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("LINKVAULT_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LINKVAULT_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("LINKVAULT_CORS_ORIGINS", "")),
		UnlockBurst:  getenvInt("LINKVAULT_UNLOCK_BURST", 5),
		UnlockPerMin: getenvInt("LINKVAULT_UNLOCK_PER_MIN", 5),
	}

	// Backend specific requirements
	switch cfg.Storage {
	case StorageRedis:
		cfg.RedisAddr = requireEnv("LINKVAULT_REDIS_ADDR")
	case StoragePostgres:
		cfg.DatabaseURL = requireEnv("LINKVAULT_DATABASE_URL")
	case StorageSQLite:
		if cfg.SQLiteDSN == "" {
			cfg.SQLiteDSN = filepath.Join(cfg.DataDir, "linkvault.db")
		}
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.redacted())
	}

	return cfg
}

// ImportEnabled reports whether at least one Homepage file is configured.
func (c *Config) ImportEnabled() bool {
	return c.BookmarkFile != "" || c.ServicesFile != ""
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageFile:
		if c.DataDir == "" {
			return fmt.Errorf("LINKVAULT_DATA_DIR is required when LINKVAULT_STORAGE=%s", c.Storage)
		}
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("LINKVAULT_REDIS_ADDR is required when LINKVAULT_STORAGE=%s", c.Storage)
		}
		if c.RedisPasswordRequired && c.RedisPassword == "" {
			return fmt.Errorf("LINKVAULT_REDIS_PASSWORD is required when LINKVAULT_REDIS_PASSWORD_REQUIRED=true")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("LINKVAULT_DATABASE_URL is required when LINKVAULT_STORAGE=%s", c.Storage)
		}
	default:
		return fmt.Errorf("unknown LINKVAULT_STORAGE %q (want file, memory, redis, sqlite or postgres)", c.Storage)
	}

	if c.UnlockBurst < 1 || c.UnlockPerMin < 1 {
		return fmt.Errorf("LINKVAULT_UNLOCK_BURST and LINKVAULT_UNLOCK_PER_MIN must be >= 1")
	}
	if c.ImportInterval <= 0 {
		return fmt.Errorf("LINKVAULT_IMPORT_INTERVAL must be > 0, got %s", c.ImportInterval)
	}
	return nil
}

func (c *Config) redacted() Config {
	cp := *c
	const hidden = "***REDACTED***"
	if cp.RedisPassword != "" {
		cp.RedisPassword = hidden
	}
	if cp.RedisUser != "" {
		cp.RedisUser = hidden
	}
	if cp.GeminiAPIKey != "" {
		cp.GeminiAPIKey = hidden
	}
	if cp.DatabaseURL != "" {
		cp.DatabaseURL = hidden
	}
	// Turso URLs carry the auth token in the query string.
	if i := strings.Index(cp.SQLiteDSN, "?"); i != -1 {
		cp.SQLiteDSN = cp.SQLiteDSN[:i] + "?" + hidden
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
