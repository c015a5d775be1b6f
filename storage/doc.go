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


// Package storage provides the storage abstraction for the report log.
//
// Reports are the only state the directory writes at runtime. Profiles and
// embeddings are read-only snapshots loaded by the corpus package. The
// repository interface here decouples the feedback tracker from the BadgerDB
// implementation in storage/badger.
//
// # Usage
//
//	repo, err := badger.NewReportRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryReportRepository()
//
// # Thread Safety
//
// Repository implementations must be safe for concurrent use. Callers that
// derive state from the full log (the feedback tracker) serialize their own
// writes.
package storage
