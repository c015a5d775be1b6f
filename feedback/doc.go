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


// Package feedback turns the user report log into per-profile score
// multipliers.
//
// The penalty Table is a pure function of the full report log. A Tracker owns
// the write path: every added or deleted report is persisted, the table is
// recomputed from scratch, and the new table replaces the old one with an
// atomic pointer swap. Readers always see a complete table, possibly one
// update behind.
package feedback
