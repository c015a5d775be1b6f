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


// Package search is the ranking engine of the directory.
//
// A query is analyzed into geo terms and topic words, classified, and routed
// to one of three tiers:
//
//   - geo-only: profiles located in the named places, browsed by
//     description length.
//   - geo+topic: profiles in those places scored by semantic similarity and
//     keyword overlap, with a strict relevance gate. If the gate rejects
//     everything the response falls back to the geo browse and is classified
//     geo+topic-fallback.
//   - topic-only: the whole corpus scored the same way.
//
// Geo terms that match fewer than Config.MinGeoMatches profiles never widen
// into a global search. The response is empty and carries a note naming the
// places that were tried.
//
// # Concurrency
//
// The engine reads an immutable Snapshot through an atomic pointer. Swap
// installs a new snapshot without disturbing searches in flight. Scoring of
// large candidate sets is spread over an ants worker pool.
package search
