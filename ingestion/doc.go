// Package ingestion provides the embedding stage of the ingest path.
//
// A BatchEmbedder turns an ordered batch of texts into the matching
// ordered batch of vectors, fanning sub-batches out to a bounded worker
// pool. Embedding is a pure call against the model collaborator, so it
// runs before the engine's exclusive section is taken.
package ingestion
