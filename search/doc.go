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


// Package search provides hybrid dense and sparse retrieval.
//
// The Retriever type keeps three views of one corpus in lockstep:
//   - an append-only document store holding the raw texts
//   - an exact nearest-neighbor index over their embeddings
//   - a BM25 index over their tokenized forms
//
// Hybrid search runs both sides, min-max normalizes each candidate
// list, and merges them with an alpha weight: alpha 1.0 is purely
// semantic, alpha 0.0 purely lexical. Every ingestion persists a
// snapshot synchronously, so a restarted retriever resumes from its
// last committed corpus.
package search
