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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Default file names inside a data directory.
const (
	CodesFile   = "embeddings-int8.bin"
	ScalesFile  = "embeddings-scales.bin"
	Float32File = "embeddings.bin"
)

// Load reads a quantized store from its codes and scale-table files.
func Load(codesPath, scalesPath string, dim int) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dim: %d", dim)
	}

	raw, err := os.ReadFile(codesPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read codes file %s: %w", codesPath, err)
	}
	if len(raw)%dim != 0 {
		return nil, fmt.Errorf("%w: codes file %s has %d bytes, not a multiple of dim %d", ErrSizeMismatch, codesPath, len(raw), dim)
	}
	codes := make([]int8, len(raw))
	for i, b := range raw {
		codes[i] = int8(b)
	}
	n := len(raw) / dim

	scales, err := readFloat32s(scalesPath, n*2)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(dim, codes, scales)
	if err != nil {
		return nil, fmt.Errorf("cannot load embeddings from %s: %w", codesPath, err)
	}
	return store, nil
}

// LoadFloat32 reads a flat file of little-endian float32 vectors of length dim.
func LoadFloat32(path string, dim int) ([][]float32, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dim: %d", dim)
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat vector file %s: %w", path, err)
	}
	rowBytes := int64(dim * 4)
	if st.Size()%rowBytes != 0 {
		return nil, fmt.Errorf("%w: vector file %s has %d bytes, not a multiple of %d", ErrSizeMismatch, path, st.Size(), rowBytes)
	}
	n := int(st.Size() / rowBytes)

	flat, err := readFloat32s(path, n*dim)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = flat[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return out, nil
}

func readFloat32s(path string, want int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	expected := int64(want) * 4
	if st.Size() != expected {
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrSizeMismatch, path, st.Size(), expected)
	}

	out := make([]float32, want)
	if err := binary.Read(io.LimitReader(f, expected), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return out, nil
}

// Write stores the codes and scale table at the given paths.
func (s *Store) Write(codesPath, scalesPath string) error {
	raw := make([]byte, len(s.codes))
	for i, q := range s.codes {
		raw[i] = byte(q)
	}
	if err := os.WriteFile(codesPath, raw, 0o644); err != nil {
		return fmt.Errorf("cannot write codes file: %w", err)
	}

	flat := make([]float32, 0, len(s.scales)*2)
	for _, sc := range s.scales {
		flat = append(flat, sc.Min, sc.Max)
	}
	return writeFloat32s(scalesPath, flat)
}

// WriteFloat32 stores full-precision vectors as a flat little-endian file.
func WriteFloat32(path string, vectors [][]float32) error {
	var flat []float32
	for _, v := range vectors {
		flat = append(flat, v...)
	}
	return writeFloat32s(path, flat)
}

func writeFloat32s(path string, values []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := binary.Write(bw, binary.LittleEndian, values); err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
