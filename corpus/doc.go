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


// Package corpus loads a directory snapshot from a data directory.
//
// A data directory holds the profile metadata (profiles-meta.json, a JSON
// array of profiles) and the embeddings of those profiles in the same order,
// either quantized (embeddings-int8.bin + embeddings-scales.bin) or as raw
// float32 vectors (embeddings.bin). Quantized files are preferred. A
// directory without any embeddings loads in keyword-only mode.
package corpus
