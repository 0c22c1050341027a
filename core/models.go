package core

// Document is a single text chunk in the corpus.
// Documents are immutable once created; the id equals the insertion
// position, so ids are contiguous and 0-based with no gaps.
type Document struct {
	Id   int
	Text string
}

// Match is a component-level ranking entry referencing a document by id.
// The meaning of Score depends on the producer: the dense index reports a
// squared L2 distance (lower is better), the sparse index a BM25 relevance
// score (higher is better).
type Match struct {
	Id    int
	Score float64
}

// Hit is a final search result with the document text resolved.
// For hybrid search, Score is the fused score in [0, 1].
type Hit struct {
	Text  string
	Score float64
}
