// Copyright 2025 Shailesh Dhama
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads and validates application configuration from YAML
// files with environment-variable overrides.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StorageConfig selects and parameterizes the snapshot backend.
type StorageConfig struct {
	// Backend is "file" (a pair of snapshot files) or "badger".
	Backend string `yaml:"backend"`
	// IndexPath and MetadataPath locate the snapshot pair for the file
	// backend.
	IndexPath    string `yaml:"indexPath"`
	MetadataPath string `yaml:"metadataPath"`
	// Dir locates the database directory for the badger backend.
	Dir string `yaml:"dir"`
}

// EmbeddingConfig holds connection parameters for the embedding service.
type EmbeddingConfig struct {
	Host       string `yaml:"host"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	// BatchSize is the number of texts per embedding request during
	// ingestion.
	BatchSize int `yaml:"batchSize"`
	// PoolSize is the number of concurrent embedding requests. Zero
	// means one worker per two CPUs.
	PoolSize int `yaml:"poolSize"`
}

// SearchConfig holds default query parameters.
type SearchConfig struct {
	DefaultK     int     `yaml:"defaultK"`
	DefaultAlpha float64 `yaml:"defaultAlpha"`
}

// CacheConfig controls the query result cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file (if provided) and applies
// environment-variable overrides. It returns a Config populated with
// defaults for any missing values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config suitable for local development against an
// Ollama-compatible embedding endpoint.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:      "file",
			IndexPath:    "data/vector_index.bin",
			MetadataPath: "data/corpus.bin",
			Dir:          "data/badger",
		},
		Embedding: EmbeddingConfig{
			Host:       "http://localhost:11434/v1",
			Model:      "all-minilm",
			Dimensions: 384,
			BatchSize:  32,
		},
		Search: SearchConfig{
			DefaultK:     3,
			DefaultAlpha: 0.5,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 512,
			TTL:      15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyEnvOverrides reads FINRAG_* environment variables and overrides
// the corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FINRAG_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("FINRAG_EMBEDDING_HOST"); v != "" {
		cfg.Embedding.Host = v
	}
	if v := os.Getenv("FINRAG_EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("FINRAG_EMBEDDING_DIMENSIONS"); v != "" {
		if dims, err := strconv.Atoi(v); err == nil {
			cfg.Embedding.Dimensions = dims
		}
	}
	if v := os.Getenv("FINRAG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file":
		if c.Storage.IndexPath == "" || c.Storage.MetadataPath == "" {
			return fmt.Errorf("file backend requires indexPath and metadataPath")
		}
	case "badger":
		if c.Storage.Dir == "" {
			return fmt.Errorf("badger backend requires dir")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Embedding.Host == "" {
		return fmt.Errorf("embedding host required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding model required")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", c.Embedding.Dimensions)
	}

	if c.Search.DefaultK < 1 {
		return fmt.Errorf("defaultK must be positive, got %d", c.Search.DefaultK)
	}
	if math.IsNaN(c.Search.DefaultAlpha) || c.Search.DefaultAlpha < 0 || c.Search.DefaultAlpha > 1 {
		return fmt.Errorf("defaultAlpha must be in [0,1], got %v", c.Search.DefaultAlpha)
	}

	if c.Cache.Enabled {
		if c.Cache.Capacity <= 0 {
			return fmt.Errorf("cache capacity must be positive, got %d", c.Cache.Capacity)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache ttl must be positive, got %v", c.Cache.TTL)
		}
	}
	return nil
}
