// Package ai defines the embedding-model collaborator consumed by the
// retrieval engine, along with its configuration. The engine treats an
// Embedder as a pure function from text to a fixed-dimension vector and
// does no caching of its own.
package ai
