// Package config assembles runtime settings from CONFGATE_* environment
// variables so main stays lean. Load applies defaults and rejects values
// that would only fail later, at the first request.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"confgate/pkg/platform/secrets"
)

// DefaultCatalogCacheTTL bounds staleness of cached resource type listings.
var DefaultCatalogCacheTTL = 5 * time.Minute

// Catalog backends selectable via CONFGATE_CATALOG_BACKEND.
const (
	CatalogMemory     = "memory"
	CatalogFilesystem = "filesystem"
	CatalogPostgres   = "postgres"
)

// Domain binders selectable via CONFGATE_DOMAIN_BINDER.
const (
	BinderNoop   = "noop"
	BinderFolder = "folder"
)

// Config carries everything main needs to assemble the service.
type Config struct {
	Server  Server
	Initial Initial
	Domains Domains
	Catalog Catalog
	Redis   Redis
	Journal Journal
	Admin   Admin
	Log     Log
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Initial is the configuration object served before the first update. Idle
// stays a string here; the settings layer owns its duration syntax.
type Initial struct {
	Folder string
	Idle   string
}

// Domains controls resource domain lifecycle.
type Domains struct {
	Binder       string
	ReapInterval time.Duration
}

// Catalog selects the resource type catalog backend.
type Catalog struct {
	Backend     string
	PostgresURL string
}

// Redis configures the optional catalog cache. An empty URL disables it.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// Journal configures change journal retention and broker fan-out. Kafka is
// optional; with no brokers events are persisted synchronously in memory.
type Journal struct {
	Retention    int
	QueueSize    int
	KafkaBrokers []string
	KafkaTopic   string
}

// Admin configures how mutating endpoints authenticate callers. All three
// mechanisms are optional; with none set the endpoints are unguarded, which
// is only sensible for local development.
type Admin struct {
	Token     string
	TokenHash string
	JWTSecret string
}

// Log selects process log level and encoding.
type Log struct {
	Level  string
	Format string
}

// Load builds a Config from the environment.
func Load() (Config, error) {
	cfg := Config{
		Server: Server{
			Addr:            getString("CONFGATE_LISTEN_ADDR", ":8080"),
			ShutdownTimeout: 10 * time.Second,
		},
		Initial: Initial{
			Folder: getString("CONFGATE_RESOURCE_FOLDER", "/var/lib/confgate/resources"),
			Idle:   getString("CONFGATE_IDLE_TIMEOUT", "00:10:00"),
		},
		Domains: Domains{
			Binder: getString("CONFGATE_DOMAIN_BINDER", BinderNoop),
		},
		Catalog: Catalog{
			Backend:     getString("CONFGATE_CATALOG_BACKEND", CatalogMemory),
			PostgresURL: os.Getenv("CONFGATE_POSTGRES_URL"),
		},
		Redis: Redis{
			URL: os.Getenv("CONFGATE_REDIS_URL"),
		},
		Journal: Journal{
			KafkaBrokers: getStrings("CONFGATE_KAFKA_BROKERS"),
			KafkaTopic:   getString("CONFGATE_KAFKA_TOPIC", "confgate.config-changes"),
		},
		Admin: Admin{
			Token:     os.Getenv("CONFGATE_ADMIN_TOKEN"),
			TokenHash: os.Getenv("CONFGATE_ADMIN_TOKEN_HASH"),
			JWTSecret: os.Getenv("CONFGATE_JWT_SECRET"),
		},
		Log: Log{
			Level:  getString("CONFGATE_LOG_LEVEL", "info"),
			Format: getString("CONFGATE_LOG_FORMAT", "json"),
		},
	}

	var err error
	if cfg.Server.ShutdownTimeout, err = getDuration("CONFGATE_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Domains.ReapInterval, err = getDuration("CONFGATE_REAP_INTERVAL", 0); err != nil {
		return Config{}, err
	}
	if cfg.Redis.PoolSize, err = getInt("CONFGATE_REDIS_POOL_SIZE", 10); err != nil {
		return Config{}, err
	}
	if cfg.Redis.MinIdleConns, err = getInt("CONFGATE_REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Config{}, err
	}
	if cfg.Redis.DialTimeout, err = getDuration("CONFGATE_REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Redis.ReadTimeout, err = getDuration("CONFGATE_REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Redis.WriteTimeout, err = getDuration("CONFGATE_REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Redis.CacheTTL, err = getDuration("CONFGATE_CATALOG_CACHE_TTL", DefaultCatalogCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.Journal.Retention, err = getInt("CONFGATE_JOURNAL_RETENTION", 0); err != nil {
		return Config{}, err
	}
	if cfg.Journal.QueueSize, err = getInt("CONFGATE_AUDIT_QUEUE_SIZE", 256); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Catalog.Backend {
	case CatalogMemory, CatalogFilesystem, CatalogPostgres:
	default:
		return fmt.Errorf("CONFGATE_CATALOG_BACKEND: unknown backend %q", c.Catalog.Backend)
	}
	if c.Catalog.Backend == CatalogPostgres && c.Catalog.PostgresURL == "" {
		return fmt.Errorf("CONFGATE_POSTGRES_URL is required for the postgres catalog backend")
	}

	switch c.Domains.Binder {
	case BinderNoop, BinderFolder:
	default:
		return fmt.Errorf("CONFGATE_DOMAIN_BINDER: unknown binder %q", c.Domains.Binder)
	}
	if c.Domains.ReapInterval < 0 {
		return fmt.Errorf("CONFGATE_REAP_INTERVAL must not be negative")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("CONFGATE_LOG_LEVEL: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("CONFGATE_LOG_FORMAT: unknown format %q", c.Log.Format)
	}

	if c.Journal.Retention < 0 {
		return fmt.Errorf("CONFGATE_JOURNAL_RETENTION must not be negative")
	}
	if c.Journal.QueueSize < 1 {
		return fmt.Errorf("CONFGATE_AUDIT_QUEUE_SIZE must be positive")
	}

	// A mangled verifier would lock every operator out; catch it at startup.
	if c.Admin.TokenHash != "" {
		if err := secrets.ValidateHash(c.Admin.TokenHash); err != nil {
			return fmt.Errorf("CONFGATE_ADMIN_TOKEN_HASH: %w", err)
		}
	}
	return nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	return d, nil
}

// getStrings splits a comma separated list, dropping empty entries.
func getStrings(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
