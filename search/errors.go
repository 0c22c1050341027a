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

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrSnapshotStoreRequired is returned when a snapshot store is not provided.
	ErrSnapshotStoreRequired = errors.New("snapshot store required")

	// ErrInitialization indicates the retriever could not reach a usable
	// state at construction. It is fatal: the retriever must not be used.
	ErrInitialization = errors.New("retriever initialization failed")

	// ErrNotReady is returned when an operation arrives while the
	// retriever is not in the Ready state.
	ErrNotReady = errors.New("retriever not ready")

	// ErrFusion indicates the score-fusion stage received malformed
	// inputs. Hybrid search recovers from it by falling back to the
	// dense-only ranking.
	ErrFusion = errors.New("fusion failed")
)
