package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service and worker settings.
type Config struct {
	Port          int
	DB            DB
	Directions    Directions
	Consolidation Consolidation
	RateLimit     RateLimit
	Kafka         Kafka
	Pprof         PprofConfig
}

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns a pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Directions stores the Google Directions client and its retry policy.
type Directions struct {
	APIKey      string
	BaseURL     string
	Mode        string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Consolidation tunes the pairing engine.
type Consolidation struct {
	Window          time.Duration
	ToleranceM      float64
	ProviderTimeout time.Duration
	RunTimeout      time.Duration
	Workers         int
	BatchSize       int
	CacheRoutes     bool
	CacheSize       int
}

// RateLimit stores the token bucket settings for the consolidation endpoint.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Kafka stores broker and topic settings. Empty brokers disable Kafka.
type Kafka struct {
	Brokers      []string
	GroupID      string
	OrdersTopic  string
	ResultsTopic string
}

// Enabled reports whether brokers are configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// PprofConfig stores the debug server settings.
type PprofConfig struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:          DefaultPort(),
		DB:            DefaultDB(),
		Directions:    DefaultDirections(),
		Consolidation: DefaultConsolidation(),
		RateLimit:     DefaultRateLimit(),
		Kafka:         DefaultKafka(),
		Pprof:         DefaultPprof(),
	}

	e := &envReader{}

	cfg.Port = e.getInt("PORT", cfg.Port)

	cfg.DB.Host = e.getString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = e.getString("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = e.getString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = e.getString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = e.getString("POSTGRES_DB", cfg.DB.Name)

	cfg.Directions.APIKey = e.getString("DIRECTIONS_API_KEY", cfg.Directions.APIKey)
	cfg.Directions.BaseURL = e.getString("DIRECTIONS_BASE_URL", cfg.Directions.BaseURL)
	cfg.Directions.Mode = e.getString("DIRECTIONS_MODE", cfg.Directions.Mode)
	cfg.Directions.Timeout = e.getDuration("DIRECTIONS_TIMEOUT", cfg.Directions.Timeout)
	cfg.Directions.MaxAttempts = e.getInt("DIRECTIONS_RETRY_MAX_ATTEMPTS", cfg.Directions.MaxAttempts)
	cfg.Directions.BaseDelay = e.getDuration("DIRECTIONS_RETRY_BASE_DELAY", cfg.Directions.BaseDelay)
	cfg.Directions.MaxDelay = e.getDuration("DIRECTIONS_RETRY_MAX_DELAY", cfg.Directions.MaxDelay)

	cfg.Consolidation.Window = e.getDuration("CONSOLIDATION_WINDOW", cfg.Consolidation.Window)
	cfg.Consolidation.ToleranceM = e.getFloat("CONSOLIDATION_TOLERANCE_M", cfg.Consolidation.ToleranceM)
	cfg.Consolidation.ProviderTimeout = e.getDuration("CONSOLIDATION_PROVIDER_TIMEOUT", cfg.Consolidation.ProviderTimeout)
	cfg.Consolidation.RunTimeout = e.getDuration("CONSOLIDATION_RUN_TIMEOUT", cfg.Consolidation.RunTimeout)
	cfg.Consolidation.Workers = e.getInt("CONSOLIDATION_WORKERS", cfg.Consolidation.Workers)
	cfg.Consolidation.BatchSize = e.getInt("CONSOLIDATION_BATCH_SIZE", cfg.Consolidation.BatchSize)
	cfg.Consolidation.CacheRoutes = e.getBool("CONSOLIDATION_CACHE_ROUTES", cfg.Consolidation.CacheRoutes)
	cfg.Consolidation.CacheSize = e.getInt("CONSOLIDATION_CACHE_SIZE", cfg.Consolidation.CacheSize)

	cfg.RateLimit.Enabled = e.getBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = e.getFloat("RATE_LIMIT_RATE", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = e.getInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = e.getDuration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = e.getInt("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	cfg.Kafka.Brokers = e.getList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.GroupID = e.getString("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.OrdersTopic = e.getString("KAFKA_ORDERS_TOPIC", cfg.Kafka.OrdersTopic)
	cfg.Kafka.ResultsTopic = e.getString("KAFKA_RESULTS_TOPIC", cfg.Kafka.ResultsTopic)

	cfg.Pprof.Enabled = e.getBool("PPROF_ENABLED", cfg.Pprof.Enabled)
	cfg.Pprof.Addr = e.getString("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = e.getString("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = e.getString("PPROF_PASS", cfg.Pprof.Pass)

	if e.err != nil {
		return nil, e.err
	}

	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if p, err := strconv.Atoi(c.DB.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid POSTGRES_PORT: %q", c.DB.Port)
	}
	if c.Consolidation.Window <= 0 {
		return fmt.Errorf("invalid CONSOLIDATION_WINDOW: %s", c.Consolidation.Window)
	}
	if c.Consolidation.ToleranceM < 0 {
		return fmt.Errorf("invalid CONSOLIDATION_TOLERANCE_M: %v", c.Consolidation.ToleranceM)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit: rate=%v burst=%d", c.RateLimit.Rate, c.RateLimit.Burst)
	}
	if c.Directions.MaxAttempts < 1 {
		return fmt.Errorf("invalid DIRECTIONS_RETRY_MAX_ATTEMPTS: %d", c.Directions.MaxAttempts)
	}
	return nil
}

// envReader keeps the first parse error so Load can report it once.
type envReader struct {
	err error
}

func (e *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(key, v string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
}

func (e *envReader) getString(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e *envReader) getInt(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e *envReader) getFloat(key string, def float64) float64 {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return f
}

func (e *envReader) getBool(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return b
}

func (e *envReader) getDuration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return d
}

func (e *envReader) getList(key string, def []string) []string {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
