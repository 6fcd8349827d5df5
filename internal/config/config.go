package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by the app wiring.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBadger   = "badger"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline applied by chi middleware

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Record store
	StoreDriver string // memory | redis | postgres | sqlite | badger
	DatabaseDSN string // postgres DSN, required when StoreDriver=postgres
	SQLitePath  string // sqlite file, used when StoreDriver=sqlite
	BadgerPath  string // badger directory, used when StoreDriver=badger

	// Seed import (optional, empty SeedFile = disabled)
	SeedFile     string // path to a resources.yaml file
	SeedSchedule string // cron expression, ex: "@daily" or "0 */6 * * *"

	// Auth
	AuthSecret   string        // HS256 secret used to verify bearer tokens
	AuthIssuer   string        // expected "iss" claim, empty = not checked
	AuthLoginURL string        // external login page, target of /api/auth/login
	SessionTTL   time.Duration // idle sessions are dropped after this
	SweepEvery   time.Duration // interval of the idle session sweep
	CookieSecure bool          // mark the session cookie Secure

	// Link preview
	PreviewTimeout  time.Duration
	PreviewMaxBytes int64

	// Submission rate limit (per client IP)
	SubmitBurst        int
	SubmitRefillPerMin int

	// Redis (only read when StoreDriver=redis)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts   []string // optional, restrict admin endpoints to these Host headers
	AllowedCIDRS   []string // optional, restrict admin endpoints to these IPs/CIDRs
	AllowedOrigins []string // CORS origins for the browser front-end, "*" allowed
	TrustProxy     bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	// A missing .env is the normal case in containers.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NEXTDIR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NEXTDIR_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("NEXTDIR_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("NEXTDIR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NEXTDIR_PRETTY_LOG", true),

		// Store
		StoreDriver: strings.ToLower(getenv("NEXTDIR_STORE_DRIVER", DriverMemory)),
		DatabaseDSN: getenv("NEXTDIR_DATABASE_DSN", ""),
		SQLitePath:  getenv("NEXTDIR_SQLITE_PATH", "nextdir.db"),
		BadgerPath:  getenv("NEXTDIR_BADGER_PATH", "data/badger"),

		// Seed
		SeedFile:     getenv("NEXTDIR_SEED_FILE", ""),
		SeedSchedule: getenv("NEXTDIR_SEED_SCHEDULE", "@daily"),

		// Auth
		AuthSecret:   requireEnv("NEXTDIR_AUTH_SECRET"),
		AuthIssuer:   getenv("NEXTDIR_AUTH_ISSUER", ""),
		AuthLoginURL: getenv("NEXTDIR_AUTH_LOGIN_URL", "/login"),
		SessionTTL:   mustDuration("NEXTDIR_SESSION_TTL", 24*time.Hour),
		SweepEvery:   mustDuration("NEXTDIR_SESSION_SWEEP_INTERVAL", 10*time.Minute),
		CookieSecure: mustBool("NEXTDIR_COOKIE_SECURE", true),

		// Preview
		PreviewTimeout:  mustDuration("NEXTDIR_PREVIEW_TIMEOUT", 3*time.Second),
		PreviewMaxBytes: int64(getenvInt("NEXTDIR_PREVIEW_MAX_BYTES", 1<<20)),

		// Rate limit
		SubmitBurst:        getenvInt("NEXTDIR_SUBMIT_BURST", 5),
		SubmitRefillPerMin: getenvInt("NEXTDIR_SUBMIT_REFILL_PER_MIN", 10),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("NEXTDIR_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("NEXTDIR_ALLOWED_CIDRS", "")),
		AllowedOrigins: splitAndTrim(getenv("NEXTDIR_ALLOWED_ORIGINS", "*")),
		TrustProxy:     mustBool("NEXTDIR_TRUST_PROXY", false),
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite, DriverBadger:
	case DriverPostgres:
		cfg.DatabaseDSN = requireEnv("NEXTDIR_DATABASE_DSN")
	case DriverRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown NEXTDIR_STORE_DRIVER %q", cfg.StoreDriver))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("NEXTDIR_REDIS_ADDR")
	cfg.RedisUser = getenv("NEXTDIR_REDIS_USERNAME", "default")
	cfg.RedisPassword = getenv("NEXTDIR_REDIS_PASSWORD", "")
	cfg.RedisDB = getenvInt("NEXTDIR_REDIS_DB", 0)
	cfg.RedisDT = mustDuration("NEXTDIR_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("NEXTDIR_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("NEXTDIR_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("NEXTDIR_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("NEXTDIR_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("NEXTDIR_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("NEXTDIR_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("NEXTDIR_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("NEXTDIR_REDIS_WARN_THRESHOLD", 3)

	if mustBool("NEXTDIR_REDIS_PASSWORD_REQUIRED", true) && cfg.RedisPassword == "" {
		panic("❌ FATAL: NEXTDIR_REDIS_PASSWORD is required when NEXTDIR_REDIS_PASSWORD_REQUIRED=true")
	}
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	cp.AuthSecret = "***REDACTED***"
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.DatabaseDSN != "" {
		cp.DatabaseDSN = "***REDACTED***"
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
