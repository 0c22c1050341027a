package ingestion

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingCountMismatch indicates the embedding service returned a
	// different number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
