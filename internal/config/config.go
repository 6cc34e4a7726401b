package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hiddenuae/gems-service/internal/gem"
	"github.com/hiddenuae/gems-service/internal/progress"
	"github.com/hiddenuae/gems-service/shared/envconfig"
)

// Config encapsulates the runtime configuration for the gems service.
type Config struct {
	Port            string `validate:"required,numeric"`
	GCPProjectID    string
	DataStore       DataStore `validate:"required"`
	DataDir         string
	StorageKey      string `validate:"required"`
	RulesFile       string
	SearchCacheSize int `validate:"gte=1"`
	Catalog         CatalogConfig
	Firestore       FirestoreConfig
	S3              S3Config
}

// DataStore enumerates supported persistence backends for the progress record.
type DataStore string

const (
	// DataStoreMemory keeps progress in-memory (useful for local development/testing).
	DataStoreMemory DataStore = "memory"
	// DataStoreFile keeps progress as a JSON file inside DataDir.
	DataStoreFile DataStore = "file"
)

// CatalogConfig lists where gems are fetched from.
type CatalogConfig struct {
	Sources      []string
	FetchTimeout time.Duration
}

// FirestoreConfig tailors Firestore client behavior.
type FirestoreConfig struct {
	EmulatorHost string
}

// S3Config contains settings for s3:// catalog sources.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Load reads environment variables into Config with validation.
func Load() (Config, error) {
	cfg := Config{
		Port:            envconfig.Get("PORT", "8080"),
		GCPProjectID:    envconfig.Get("GCP_PROJECT_ID", ""),
		DataStore:       DataStore(strings.ToLower(envconfig.Get("DATASTORE", string(DataStoreFile)))),
		DataDir:         envconfig.Get("DATA_DIR", "./data"),
		StorageKey:      envconfig.Get("STORAGE_KEY", progress.DefaultStorageKey),
		RulesFile:       envconfig.Get("RULES_FILE", ""),
		SearchCacheSize: envconfig.GetInt("SEARCH_CACHE_SIZE", 256),
		Catalog: CatalogConfig{
			Sources:      envconfig.GetList("CATALOG_SOURCES", []string{"./data/gems.json"}),
			FetchTimeout: envconfig.GetDuration("CATALOG_FETCH_TIMEOUT", 10*time.Second),
		},
		Firestore: FirestoreConfig{
			EmulatorHost: envconfig.Get("FIRESTORE_EMULATOR_HOST", ""),
		},
		S3: S3Config{
			Region:    envconfig.Get("S3_REGION", "me-central-1"),
			Endpoint:  envconfig.Get("S3_ENDPOINT", ""),
			AccessKey: envconfig.Get("S3_ACCESS_KEY", ""),
			SecretKey: envconfig.Get("S3_SECRET_KEY", ""),
		},
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SourceOptions returns the settings catalog sources are opened with.
func (c Config) SourceOptions() gem.SourceOptions {
	return gem.SourceOptions{
		HTTPTimeout:  c.Catalog.FetchTimeout,
		GCPProjectID: c.GCPProjectID,
		S3Region:     c.S3.Region,
		S3Endpoint:   c.S3.Endpoint,
		S3AccessKey:  c.S3.AccessKey,
		S3SecretKey:  c.S3.SecretKey,
	}
}

func validate(cfg Config) error {
	if err := envconfig.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.DataStore {
	case DataStoreMemory:
		// no-op
	case DataStoreFile:
		if strings.TrimSpace(cfg.DataDir) == "" {
			return fmt.Errorf("DATA_DIR is required when DATASTORE=file")
		}
	default:
		return fmt.Errorf("unsupported datastore: %s", cfg.DataStore)
	}

	if len(cfg.Catalog.Sources) == 0 {
		return fmt.Errorf("CATALOG_SOURCES must list at least one source")
	}
	if cfg.Catalog.FetchTimeout <= 0 {
		return fmt.Errorf("CATALOG_FETCH_TIMEOUT must be positive")
	}

	for _, src := range cfg.Catalog.Sources {
		if strings.HasPrefix(src, "firestore://") && cfg.GCPProjectID == "" {
			return fmt.Errorf("GCP_PROJECT_ID is required for firestore catalog sources")
		}
	}

	if (cfg.S3.AccessKey == "") != (cfg.S3.SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	return nil
}
