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


package search

import (
	"fmt"
	"math"
	"slices"

	"github.com/ShaileshDhama/finrag/core"
)

// Fuse merges a dense candidate list (distances, lower is better) and a
// sparse candidate list (BM25 scores, higher is better) into one ranking.
//
// Each side is min-max normalized to [0,1] over its own candidates, with
// dense distances inverted so that 1 means nearest. When all scores on a
// side are equal (including a single candidate) every member normalizes
// to 1.0 rather than dividing by zero. The output is the union of ids:
// an id seen by only one side contributes zero for the other. Combined
// scores are alpha*dense + (1-alpha)*sparse, sorted descending with ties
// broken by ascending id, so the same inputs always produce the same
// ordering.
func Fuse(dense, sparse []core.Match, alpha float64, k int) ([]core.Match, error) {
	if err := core.ValidateAlpha(alpha); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFusion, err)
	}
	if err := checkMatches(dense); err != nil {
		return nil, fmt.Errorf("%w: dense candidates: %w", ErrFusion, err)
	}
	if err := checkMatches(sparse); err != nil {
		return nil, fmt.Errorf("%w: sparse candidates: %w", ErrFusion, err)
	}

	combined := make(map[int]float64, len(dense)+len(sparse))

	if len(dense) > 0 {
		minScore, maxScore := scoreBounds(dense)
		for _, m := range dense {
			sim := 1.0
			if maxScore != minScore {
				sim = 1.0 - (m.Score-minScore)/(maxScore-minScore)
			}
			combined[m.Id] = alpha * sim
		}
	}

	if len(sparse) > 0 {
		minScore, maxScore := scoreBounds(sparse)
		for _, m := range sparse {
			norm := 1.0
			if maxScore != minScore {
				norm = (m.Score - minScore) / (maxScore - minScore)
			}
			combined[m.Id] += (1 - alpha) * norm
		}
	}

	fused := make([]core.Match, 0, len(combined))
	for id, score := range combined {
		fused = append(fused, core.Match{Id: id, Score: score})
	}
	slices.SortFunc(fused, func(a, b core.Match) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return a.Id - b.Id
	})

	if k >= 0 && len(fused) > k {
		fused = fused[:k]
	}
	return fused, nil
}

func checkMatches(matches []core.Match) error {
	for _, m := range matches {
		if m.Id < 0 {
			return fmt.Errorf("negative id %d", m.Id)
		}
		if math.IsNaN(m.Score) || math.IsInf(m.Score, 0) {
			return fmt.Errorf("non-finite score for id %d", m.Id)
		}
	}
	return nil
}

func scoreBounds(matches []core.Match) (min, max float64) {
	min, max = matches[0].Score, matches[0].Score
	for _, m := range matches[1:] {
		if m.Score < min {
			min = m.Score
		}
		if m.Score > max {
			max = m.Score
		}
	}
	return min, max
}
