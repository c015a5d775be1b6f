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


// Package geo knows which place names exist in the directory.
//
// A LocationIndex is the set of normalized location tokens found in every
// profile's locality, region and country fields. An AliasTable maps colloquial
// names ("uk", "midlands") to canonical tokens. Both are read-only once built.
package geo
