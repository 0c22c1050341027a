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

import "errors"

var (
	// ErrSnapshotNotFound indicates no snapshot has been persisted yet.
	// Engines treat this as a cold start, not a failure.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrCorruptState indicates a persisted snapshot that cannot be
	// trusted: undecodable blobs, a vector/corpus count disagreement, or
	// a vector dimension mismatch.
	ErrCorruptState = errors.New("corrupt persisted state")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")
)
