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


package embedding

import (
	"fmt"
	"math"
)

// Dim is the dimension of the profile embedding model (all-MiniLM-L6-v2).
const Dim = 384

// Scale is the pre-quantization range of one vector.
type Scale struct {
	Min float32
	Max float32
}

// Step returns the width of one quantization bucket.
func (s Scale) Step() float64 {
	if s.Max == s.Min {
		return 1
	}
	return (float64(s.Max) - float64(s.Min)) / 255
}

func (s Scale) valid() bool {
	lo, hi := float64(s.Min), float64(s.Max)
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return false
	}
	return hi >= lo
}

// Store holds quantized vectors. It is immutable once constructed and safe
// for concurrent readers.
type Store struct {
	dim    int
	codes  []int8
	scales []Scale
}

// NewStore builds a store from raw codes and a flat (min, max) scale table.
// A corrupt scale table is rejected here so that no query ever scores against it.
func NewStore(dim int, codes []int8, scales []float32) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dim: %d", dim)
	}
	if len(codes)%dim != 0 {
		return nil, fmt.Errorf("%w: %d codes is not a multiple of dim %d", ErrSizeMismatch, len(codes), dim)
	}
	n := len(codes) / dim
	if len(scales) != n*2 {
		return nil, fmt.Errorf("%w: %d vectors but %d scale values", ErrSizeMismatch, n, len(scales))
	}

	pairs := make([]Scale, n)
	for i := range pairs {
		pairs[i] = Scale{Min: scales[2*i], Max: scales[2*i+1]}
		if !pairs[i].valid() {
			return nil, fmt.Errorf("%w: vector %d has min=%v max=%v", ErrCorruptScales, i, pairs[i].Min, pairs[i].Max)
		}
	}

	return &Store{dim: dim, codes: codes, scales: pairs}, nil
}

// Len returns the number of vectors in the store.
func (s *Store) Len() int {
	return len(s.scales)
}

// Dim returns the vector dimension.
func (s *Store) Dim() int {
	return s.dim
}

// Scale returns the stored range of vector i.
func (s *Store) Scale(i int) Scale {
	return s.scales[i]
}

// Dequantize reconstructs an approximation of vector i.
func (s *Store) Dequantize(i int) []float32 {
	sc := s.scales[i]
	step := sc.Step()
	min := float64(sc.Min)
	row := s.codes[i*s.dim : (i+1)*s.dim]

	out := make([]float32, s.dim)
	for j, q := range row {
		out[j] = float32((float64(q)+128)*step + min)
	}
	return out
}

// Similarity returns the approximate dot product between vector i and a
// full-precision query vector. Both sides are expected to be unit length, so
// the result approximates cosine similarity and is clamped to [-1, 1].
// A query of the wrong dimension scores 0.
func (s *Store) Similarity(i int, query []float32) float64 {
	if len(query) != s.dim {
		return 0
	}
	sc := s.scales[i]
	step := sc.Step()
	min := float64(sc.Min)
	row := s.codes[i*s.dim : (i+1)*s.dim]

	var dot float64
	for j, q := range row {
		dot += float64(query[j]) * ((float64(q)+128)*step + min)
	}

	switch {
	case dot > 1:
		return 1
	case dot < -1:
		return -1
	default:
		return dot
	}
}
