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


// Package embedding holds profile embeddings in a compact quantized form.
//
// Each vector is stored as Dim signed 8-bit codes plus a (min, max) pair of
// float32 values captured before quantization. A code q decodes to
//
//	(q + 128) * step + min,  step = (max - min) / 255  (or 1 when max == min)
//
// The range is per vector, not global, so vectors with very different
// magnitude distributions keep their relative precision.
//
// On disk a store is two little-endian files: the codes (N*Dim bytes) and the
// scale table (N*2 float32 values).
package embedding
