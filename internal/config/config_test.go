package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"PORT", "DATASTORE", "DATA_DIR", "STORAGE_KEY", "CATALOG_SOURCES", "CATALOG_FETCH_TIMEOUT", "SEARCH_CACHE_SIZE", "S3_ACCESS_KEY", "S3_SECRET_KEY"} {
		t.Setenv(name, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DataStore != DataStoreFile || cfg.StorageKey != "hidden-uae:v1" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SearchCacheSize != 256 || cfg.Catalog.FetchTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Catalog.Sources) != 1 {
		t.Fatalf("expected one default source, got %v", cfg.Catalog.Sources)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATASTORE", "MEMORY")
	t.Setenv("CATALOG_SOURCES", "gs://gems/catalog.json, s3://gems/catalog.json ,")
	t.Setenv("CATALOG_FETCH_TIMEOUT", "3s")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataStore != DataStoreMemory || cfg.Port != "9090" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Catalog.Sources) != 2 || cfg.Catalog.Sources[1] != "s3://gems/catalog.json" {
		t.Fatalf("unexpected sources: %v", cfg.Catalog.Sources)
	}
	opts := cfg.SourceOptions()
	if opts.HTTPTimeout != 3*time.Second || opts.S3Endpoint != "http://localhost:9000" {
		t.Fatalf("unexpected source options: %+v", opts)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Port:            "8080",
		DataStore:       DataStoreFile,
		DataDir:         "./data",
		StorageKey:      "hidden-uae:v1",
		SearchCacheSize: 16,
		Catalog:         CatalogConfig{Sources: []string{"gems.json"}, FetchTimeout: time.Second},
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = "http" }, "Port"},
		{"unknown datastore", func(c *Config) { c.DataStore = "redis" }, "unsupported datastore"},
		{"file without dir", func(c *Config) { c.DataDir = " " }, "DATA_DIR"},
		{"no sources", func(c *Config) { c.Catalog.Sources = nil }, "CATALOG_SOURCES"},
		{"firestore without project", func(c *Config) { c.Catalog.Sources = []string{"firestore://gems"} }, "GCP_PROJECT_ID"},
		{"half s3 credentials", func(c *Config) { c.S3.AccessKey = "key" }, "S3_SECRET_KEY"},
		{"cache too small", func(c *Config) { c.SearchCacheSize = 0 }, "SearchCacheSize"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			cfg.Catalog.Sources = append([]string(nil), base.Catalog.Sources...)
			tc.mutate(&cfg)
			err := validate(cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil || rules.PointsPerUnlock != 5 {
		t.Fatalf("LoadRules(\"\") = %+v, %v", rules, err)
	}

	path := filepath.Join(t.TempDir(), "rules.toml")
	content := "points_per_unlock = 10\n\n[badges]\nexplorer = 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	rules, err = LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if rules.PointsPerUnlock != 10 || rules.Badges.Explorer != 3 {
		t.Fatalf("overrides not applied: %+v", rules)
	}
	if rules.Badges.Adventurer != 15 || rules.Submission.MinWhyLength != 10 {
		t.Fatalf("defaults lost: %+v", rules)
	}

	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseRulesRejectsBadInput(t *testing.T) {
	if _, err := ParseRules([]byte("points_per_unlock = \"five\"")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ParseRules([]byte("[badges]\nphotographer = 0\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}
