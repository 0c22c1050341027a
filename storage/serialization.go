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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the two snapshot blobs. Vectors use the raw float32
// encoding; lengths and the dimension header use varint.
var (
	vectorSer  = ord.NewSliceSer[float32](raw.Float32)
	vectorsSer = ord.NewSliceSer[[]float32](vectorSer)
	textsSer   = ord.NewSliceSer[string](ord.String)
)

// MarshalVectorIndex serializes the dense index as a dimension header
// followed by the stored vectors in id order.
func MarshalVectorIndex(dim int, vectors [][]float32) []byte {
	buf := make([]byte, varint.Int.Size(dim)+vectorsSer.Size(vectors))
	n := varint.Int.Marshal(dim, buf)
	vectorsSer.Marshal(vectors, buf[n:])
	return buf
}

// UnmarshalVectorIndex deserializes a vector-index blob.
func UnmarshalVectorIndex(data []byte) (int, [][]float32, error) {
	dim, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: index header: %w", ErrSerializationFailed, err)
	}
	vectors, _, err := vectorsSer.Unmarshal(data[n:])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: index vectors: %w", ErrSerializationFailed, err)
	}
	return dim, vectors, nil
}

// MarshalCorpus serializes the corpus texts in id order.
func MarshalCorpus(texts []string) []byte {
	buf := make([]byte, textsSer.Size(texts))
	textsSer.Marshal(texts, buf)
	return buf
}

// UnmarshalCorpus deserializes a corpus metadata blob.
func UnmarshalCorpus(data []byte) ([]string, error) {
	texts, _, err := textsSer.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus: %w", ErrSerializationFailed, err)
	}
	return texts, nil
}
