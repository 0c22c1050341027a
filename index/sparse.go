package index

import (
	"math"
	"slices"

	"github.com/ShaileshDhama/finrag/core"
)

// BM25 parameters (Okapi variant defaults).
const (
	bm25K1      = 1.5
	bm25B       = 0.75
	bm25Epsilon = 0.25
)

// SparseIndex ranks documents lexically using Okapi BM25 term statistics
// computed over a tokenized snapshot of the full corpus.
//
// The structure is derived and rebuildable, not authoritative: it cannot
// be updated incrementally, so Rebuild must be called with the complete
// corpus after every ingestion.
type SparseIndex struct {
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
	count     int
}

// NewSparseIndex creates an empty sparse index.
func NewSparseIndex() *SparseIndex {
	return &SparseIndex{idf: map[string]float64{}}
}

// Rebuild replaces the index state atomically with statistics computed
// from the given corpus, ordered by document id.
func (idx *SparseIndex) Rebuild(texts []string) {
	termFreqs := make([]map[string]int, len(texts))
	docLens := make([]int, len(texts))
	docFreq := make(map[string]int)
	totalLen := 0

	for i, text := range texts {
		tokens := Tokenize(text)
		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		for tok := range freqs {
			docFreq[tok]++
		}
		termFreqs[i] = freqs
		docLens[i] = len(tokens)
		totalLen += len(tokens)
	}

	avgDocLen := 0.0
	if len(texts) > 0 {
		avgDocLen = float64(totalLen) / float64(len(texts))
	}

	// All fields are assigned together so a rebuild either fully applies
	// or, before this point, has touched nothing.
	idx.termFreqs = termFreqs
	idx.docLens = docLens
	idx.avgDocLen = avgDocLen
	idx.idf = computeIDF(docFreq, len(texts))
	idx.count = len(texts)
}

// computeIDF computes per-term inverse document frequency.
// Terms appearing in more than half the corpus get a negative raw idf;
// those are floored to epsilon times the average idf, the Okapi BM25
// treatment that keeps common terms from subtracting relevance.
func computeIDF(docFreq map[string]int, docCount int) map[string]float64 {
	idf := make(map[string]float64, len(docFreq))
	var idfSum float64
	var negative []string

	for term, df := range docFreq {
		v := math.Log((float64(docCount) - float64(df) + 0.5) / (float64(df) + 0.5))
		idf[term] = v
		idfSum += v
		if v < 0 {
			negative = append(negative, term)
		}
	}

	if len(idf) > 0 {
		eps := bm25Epsilon * idfSum / float64(len(idf))
		for _, term := range negative {
			idf[term] = eps
		}
	}
	return idf
}

// Search scores every document against the query tokens and returns the
// min(k, Count) best matches, descending by BM25 score with ascending id
// breaking ties. Zero-score documents participate in the ranking, as in
// the full argsort over corpus scores. An empty corpus yields an empty
// result.
func (idx *SparseIndex) Search(queryTokens []string, k int) ([]core.Match, error) {
	if err := core.ValidateK(k); err != nil {
		return nil, err
	}
	if idx.count == 0 {
		return []core.Match{}, nil
	}

	matches := make([]core.Match, idx.count)
	for i := 0; i < idx.count; i++ {
		matches[i] = core.Match{Id: i, Score: idx.score(queryTokens, i)}
	}

	slices.SortFunc(matches, func(a, b core.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return a.Id - b.Id
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count returns the number of indexed documents.
func (idx *SparseIndex) Count() int {
	return idx.count
}

// score computes the BM25 relevance of document doc for the query tokens,
// normalizing term frequency by document length relative to the corpus
// average.
func (idx *SparseIndex) score(queryTokens []string, doc int) float64 {
	if idx.avgDocLen == 0 {
		return 0
	}

	lengthNorm := bm25K1 * (1 - bm25B + bm25B*float64(idx.docLens[doc])/idx.avgDocLen)

	var total float64
	for _, tok := range queryTokens {
		tf := float64(idx.termFreqs[doc][tok])
		if tf == 0 {
			continue
		}
		total += idx.idf[tok] * tf * (bm25K1 + 1) / (tf + lengthNorm)
	}
	return total
}
