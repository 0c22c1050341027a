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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for the embedding service.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible
	// server.
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "all-minilm", "text-embedding-3-small"
	EmbeddingModel string

	// EmbeddingDimensions is the output dimension of the embedding model.
	// The engine fixes its vector dimension to this value at construction;
	// a persisted index with a different dimension is rejected at load.
	EmbeddingDimensions int
}

// Config validation errors
var (
	// ErrEmbeddingHostRequired indicates a missing embedding host URL.
	ErrEmbeddingHostRequired = errors.New("embedding host required")

	// ErrEmbeddingModelRequired indicates a missing embedding model name.
	ErrEmbeddingModelRequired = errors.New("embedding model required")

	// ErrInvalidDimensions indicates a non-positive embedding dimension.
	ErrInvalidDimensions = errors.New("embedding dimensions must be positive")
)

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model name.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingDimensions sets the embedding output dimension.
func WithEmbeddingDimensions(dim int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDimensions = dim
	}
}

// DefaultConfig returns a Config with defaults suitable for a local
// OpenAI-compatible embedding server.
func DefaultConfig(opts ...ConfigOption) *Config {
	c := &Config{
		EmbeddingHost:       "http://localhost:11434/v1",
		EmbeddingModel:      "all-minilm",
		EmbeddingDimensions: 384,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.EmbeddingHost) == "" {
		return ErrEmbeddingHostRequired
	}
	if strings.TrimSpace(c.EmbeddingModel) == "" {
		return ErrEmbeddingModelRequired
	}
	if c.EmbeddingDimensions <= 0 {
		return ErrInvalidDimensions
	}
	return nil
}
