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


// Package query turns free-text search input into the two signals the ranking
// engine works with: geo terms (canonical location tokens) and topic words.
//
// Extraction is a recall-oriented heuristic. Alias keys are matched as plain
// substrings and every location token in the corpus is a candidate, so the geo
// term list is a superset of what the user meant. An upstream query
// understanding step may supply Hints which replace the heuristics.
package query
