package index

import (
	"fmt"
	"slices"

	"github.com/ShaileshDhama/finrag/core"
)

// DenseIndex is an exact nearest-neighbor index over fixed-dimension
// embedding vectors. It is a flat structure: every query compares against
// every stored vector, O(N*d) per search, with no approximation.
//
// Vector positions are aligned 1:1 with corpus document ids; the caller
// keeps both in sync by appending to the index and the document store
// inside one ingestion transaction.
type DenseIndex struct {
	dim     int
	vectors [][]float32
}

// NewDenseIndex creates an empty dense index for vectors of the given
// dimension. The dimension is fixed for the life of the index.
func NewDenseIndex(dim int) (*DenseIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDimension, dim)
	}
	return &DenseIndex{dim: dim}, nil
}

// NewDenseIndexFromVectors creates a dense index pre-populated with
// vectors, validating every entry against the dimension.
func NewDenseIndexFromVectors(dim int, vectors [][]float32) (*DenseIndex, error) {
	idx, err := NewDenseIndex(dim)
	if err != nil {
		return nil, err
	}
	if err := idx.Add(vectors); err != nil {
		return nil, err
	}
	return idx, nil
}

// Add appends vectors in order. All vectors are validated before any
// mutation, so a dimension mismatch leaves the index unchanged.
func (idx *DenseIndex) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != idx.dim {
			return fmt.Errorf("%w: vector %d has dimension %d, index expects %d",
				ErrDimensionMismatch, i, len(v), idx.dim)
		}
	}
	for _, v := range vectors {
		stored := make([]float32, idx.dim)
		copy(stored, v)
		idx.vectors = append(idx.vectors, stored)
	}
	return nil
}

// Search returns the min(k, Count) nearest vectors to the query, ordered
// by ascending squared L2 distance with ascending id breaking ties.
// An empty index yields an empty result, never an error.
func (idx *DenseIndex) Search(query []float32, k int) ([]core.Match, error) {
	if err := core.ValidateK(k); err != nil {
		return nil, err
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			ErrDimensionMismatch, len(query), idx.dim)
	}
	if len(idx.vectors) == 0 {
		return []core.Match{}, nil
	}

	matches := make([]core.Match, len(idx.vectors))
	for i, v := range idx.vectors {
		matches[i] = core.Match{Id: i, Score: squaredL2(query, v)}
	}

	slices.SortFunc(matches, func(a, b core.Match) int {
		if a.Score < b.Score {
			return -1
		}
		if a.Score > b.Score {
			return 1
		}
		return a.Id - b.Id
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count returns the number of stored vectors.
func (idx *DenseIndex) Count() int {
	return len(idx.vectors)
}

// Dimension returns the fixed vector dimension.
func (idx *DenseIndex) Dimension() int {
	return idx.dim
}

// Vectors returns a copy of all stored vectors in id order.
// Used for persistence snapshots.
func (idx *DenseIndex) Vectors() [][]float32 {
	out := make([][]float32, len(idx.vectors))
	for i, v := range idx.vectors {
		out[i] = make([]float32, len(v))
		copy(out[i], v)
	}
	return out
}

// squaredL2 computes the squared Euclidean distance between two vectors
// of equal length. The square root is skipped: it does not change result
// order, matching the native unit of flat L2 vector indexes.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
