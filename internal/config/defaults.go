package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "test_db",
}

var defaultDirections = Directions{
	BaseURL:     "https://maps.googleapis.com",
	Mode:        "driving",
	Timeout:     10 * time.Second,
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultConsolidation = Consolidation{
	Window:          60 * time.Minute,
	ToleranceM:      50,
	ProviderTimeout: 3 * time.Second,
	RunTimeout:      30 * time.Second,
	Workers:         8,
	BatchSize:       32,
	CacheRoutes:     true,
	CacheSize:       1024,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       1,
	Burst:      5,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultKafka = Kafka{
	GroupID:      "order-consolidation-worker",
	OrdersTopic:  "orders.events",
	ResultsTopic: "orders.consolidation",
}

var defaultPprof = PprofConfig{
	Enabled: false,
	Addr:    "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultDirections returns the default directions client settings.
func DefaultDirections() Directions {
	return defaultDirections
}

// DefaultConsolidation returns the default engine settings.
func DefaultConsolidation() Consolidation {
	return defaultConsolidation
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultKafka returns the default Kafka settings (no brokers).
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultPprof returns the default pprof settings.
func DefaultPprof() PprofConfig {
	return defaultPprof
}
