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


// Package storage persists the retrieval engine's state as a snapshot
// pair: a binary vector-index blob and a corpus metadata blob, saved and
// loaded together. The sparse index is never persisted; it is derived and
// rebuilt from the corpus at load time.
//
// Two backends implement SnapshotStore: storage/file writes the two blobs
// to configurable paths with atomic replacement, and storage/badger keeps
// them in a BadgerDB so the pair write commits in a single transaction.
package storage
