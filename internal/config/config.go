package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	TimeZone       *time.Location

	Storage  string
	DBDriver string
	DBHost   string
	DBPort   string
	DBUser   string
	DBPass   string
	DBName   string

	RedisHost string
	RedisPort string
	RedisPass string
	RedisDB   int

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	RateLimit  int
	RateWindow time.Duration

	MetricsQueueSize int
	MetricsCacheTTL  time.Duration
	MetricsLRUSize   int
}

// Database holds the connection settings shared by the server and habitctl.
type Database struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c *Config) Database() Database {
	return Database{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPass,
		Name:     c.DBName,
	}
}

// LoadDatabase reads only the DB_* variables, for tools that never issue
// tokens or serve HTTP.
func LoadDatabase(files ...string) (Database, error) {
	if err := loadFiles(files); err != nil {
		return Database{}, err
	}
	db := Database{
		Driver:   getEnv("DB_DRIVER", "pgx"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "habitvault"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     getEnv("DB_NAME", "habitvault"),
	}
	if err := validateDriver(db.Driver); err != nil {
		return Database{}, err
	}
	return db, nil
}

// RedisEnabled reports whether a Redis host was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// Load reads the environment, after loading files (default ".env") when
// they exist. Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if err := loadFiles(files); err != nil {
		return nil, err
	}

	r := &reader{}
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		TimeZone:       r.location("TZ_NAME", "Local"),

		Storage:  strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DBDriver: getEnv("DB_DRIVER", "pgx"),
		DBHost:   getEnv("DB_HOST", "localhost"),
		DBPort:   getEnv("DB_PORT", "5432"),
		DBUser:   getEnv("DB_USER", "habitvault"),
		DBPass:   os.Getenv("DB_PASSWORD"),
		DBName:   getEnv("DB_NAME", "habitvault"),

		RedisHost: os.Getenv("REDIS_HOST"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   r.integer("REDIS_DB", 0),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: getEnv("JWT_ISSUER", "habitvault"),
		JWTTTL:    r.duration("JWT_TTL", 24*time.Hour),

		RateLimit:  r.integer("RATE_LIMIT", 100),
		RateWindow: r.duration("RATE_WINDOW", time.Minute),

		MetricsQueueSize: r.integer("METRICS_QUEUE_SIZE", 100),
		MetricsCacheTTL:  r.duration("METRICS_CACHE_TTL", 24*time.Hour),
		MetricsLRUSize:   r.integer("METRICS_LRU_SIZE", 4096),
	}

	if err := errors.Join(append(r.errs, cfg.validate())...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	switch c.Storage {
	case StorageMemory, StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("config: STORAGE must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage))
	}
	if err := validateDriver(c.DBDriver); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("config: RATE_LIMIT must be positive, got %d", c.RateLimit))
	}
	if c.MetricsQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("config: METRICS_QUEUE_SIZE must be positive, got %d", c.MetricsQueueSize))
	}
	return errors.Join(errs...)
}

func loadFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config: failed to load %s: %w", f, err)
		}
	}
	return nil
}

func validateDriver(driver string) error {
	switch driver {
	case "pgx", "postgres":
		return nil
	default:
		return fmt.Errorf("config: DB_DRIVER must be pgx or postgres, got %q", driver)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// reader collects parse errors so Load reports every bad variable at once.
type reader struct {
	errs []error
}

func (r *reader) integer(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(fmt.Errorf("config: %s must be an integer, got %q", key, raw))
		return fallback
	}
	return n
}

func (r *reader) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(fmt.Errorf("config: %s must be a duration like 30s or 24h, got %q", key, raw))
		return fallback
	}
	return d
}

func (r *reader) location(key, fallback string) *time.Location {
	name := getEnv(key, fallback)
	loc, err := time.LoadLocation(name)
	if err != nil {
		r.fail(fmt.Errorf("config: %s is not a known time zone: %q", key, name))
		return time.Local
	}
	return loc
}

func (r *reader) fail(err error) {
	r.errs = append(r.errs, err)
}
