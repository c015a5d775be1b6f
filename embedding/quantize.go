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

// Quantize converts full-precision vectors into a Store. Every vector must
// have length dim.
//
// Codes are round((x-min)/range*255) - 128, clipped to [-128, 127], with
// range forced to 1 for constant vectors. Rounding is half-to-even.
func Quantize(vectors [][]float32, dim int) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dim: %d", dim)
	}
	codes := make([]int8, 0, len(vectors)*dim)
	scales := make([]float32, 0, len(vectors)*2)

	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d values, want %d", ErrVectorLengthMismatch, i, len(v), dim)
		}
		min, max := v[0], v[0]
		for _, x := range v[1:] {
			if x < min {
				min = x
			}
			if x > max {
				max = x
			}
		}
		rng := float64(max) - float64(min)
		if rng == 0 {
			rng = 1
		}
		for _, x := range v {
			scaled := (float64(x) - float64(min)) / rng * 255
			q := math.RoundToEven(scaled) - 128
			if q < -128 {
				q = -128
			}
			if q > 127 {
				q = 127
			}
			codes = append(codes, int8(q))
		}
		scales = append(scales, min, max)
	}

	return NewStore(dim, codes, scales)
}

// Fidelity compares the store against the vectors it was quantized from and
// returns the mean and maximum cosine error (1 - cosine).
func (s *Store) Fidelity(original [][]float32) (mean, max float64, err error) {
	if len(original) != s.Len() {
		return 0, 0, fmt.Errorf("%w: store has %d vectors, original has %d", ErrSizeMismatch, s.Len(), len(original))
	}
	if len(original) == 0 {
		return 0, 0, ErrEmpty
	}

	var sum float64
	for i, v := range original {
		c, err := Cosine(v, s.Dequantize(i))
		if err != nil {
			return 0, 0, err
		}
		e := 1 - c
		sum += e
		if e > max {
			max = e
		}
	}
	return sum / float64(len(original)), max, nil
}

// Cosine computes cosine similarity between two vectors of equal length.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVectorLengthMismatch
	}
	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0, nil
	}
	return dot / den, nil
}

// NormalizeL2 returns a new vector scaled to unit length.
// A zero vector is returned as a zero vector.
func NormalizeL2(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	n := math.Sqrt(sum)
	if n == 0 {
		return out
	}
	inv := 1 / n
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}
