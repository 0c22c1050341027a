package storage

import "fmt"

// Snapshot is the durable form of the engine state: the dense index
// vectors and the corpus texts, aligned by position, plus the vector
// dimension the index was built with.
type Snapshot struct {
	Dimension int
	Vectors   [][]float32
	Texts     []string
}

// Validate checks the internal consistency of a snapshot.
// A snapshot whose vector count disagrees with its corpus count, or whose
// vectors do not all match the recorded dimension, is corrupt: loading it
// would misalign every future search result.
func (s *Snapshot) Validate() error {
	if s.Dimension <= 0 {
		return fmt.Errorf("%w: dimension %d", ErrCorruptState, s.Dimension)
	}
	if len(s.Vectors) != len(s.Texts) {
		return fmt.Errorf("%w: %d vectors but %d documents",
			ErrCorruptState, len(s.Vectors), len(s.Texts))
	}
	for i, v := range s.Vectors {
		if len(v) != s.Dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, snapshot records %d",
				ErrCorruptState, i, len(v), s.Dimension)
		}
	}
	return nil
}
