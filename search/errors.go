// Copyright 2025 Poiesic Systems
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
	// ErrEmptyQuery is returned when the query text is blank.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrSnapshotRequired is returned when an engine is created without a snapshot.
	ErrSnapshotRequired = errors.New("snapshot required")

	// ErrEmbeddingCountMismatch is returned when a snapshot's embedding store
	// does not hold exactly one vector per profile.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match profile count")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid search config")
)
