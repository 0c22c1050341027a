// Package index provides the two retrieval structures behind hybrid
// search: a flat (brute-force) dense index over embedding vectors ranked
// by squared L2 distance, and a sparse BM25 index over the tokenized
// corpus.
//
// Both structures are derived from the corpus and are kept aligned with
// it by the orchestrator: the dense index grows by append together with
// the document store, while the sparse index is rebuilt from a full
// corpus snapshot after every ingestion. Neither type is safe for
// concurrent use on its own.
package index
