package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Gemini generative model configuration.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// Census ACS API configuration.
	CensusBaseURL string
	CensusTimeout time.Duration

	// Firestore cache configuration. The cache is an optimization: when
	// disabled or unavailable the service serves every request fresh.
	FirestoreProject string
	CacheCollection  string
	CacheEnabled     bool

	// Kafka lookup-audit configuration.
	KafkaBrokers    []string
	KafkaAuditTopic string
	AuditEnabled    bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. GEMINI_API_KEY is required; the process must not start
// without it.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	censusTimeout, err := parseTimeout("CENSUS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geminiTimeout, err := parseTimeout("GEMINI_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	firestoreProject := os.Getenv("FIRESTORE_PROJECT_ID")
	cacheEnabled := firestoreProject != ""
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cacheEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	auditEnabled := len(brokers) > 0
	if v := os.Getenv("AUDIT_ENABLED"); v != "" {
		auditEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   sharedcfg.EnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeout: geminiTimeout,

		CensusBaseURL: sharedcfg.EnvOrDefault("CENSUS_BASE_URL", "https://api.census.gov/data/2022/acs/acs5"),
		CensusTimeout: censusTimeout,

		FirestoreProject: firestoreProject,
		CacheCollection:  sharedcfg.EnvOrDefault("FIRESTORE_COLLECTION", "zip_cache"),
		CacheEnabled:     cacheEnabled,

		KafkaBrokers:    brokers,
		KafkaAuditTopic: sharedcfg.EnvOrDefault("KAFKA_AUDIT_TOPIC", "zip-lookup-events"),
		AuditEnabled:    auditEnabled,
	}

	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if cfg.CacheEnabled && cfg.FirestoreProject == "" {
		return nil, errors.New("CACHE_ENABLED is true but FIRESTORE_PROJECT_ID is not set")
	}
	if cfg.AuditEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("AUDIT_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func parseTimeout(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}
