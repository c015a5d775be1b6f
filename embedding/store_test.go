package embedding

import (
	"math"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomUnitVectors(n, dim int, seed uint64) [][]float32 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(rng.NormFloat64())
		}
		out[i] = NormalizeL2(v)
	}
	return out
}

func exactDot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestNewStore(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		store, err := NewStore(2, []int8{-128, 127, 0, 0}, []float32{-1, 1, 0.5, 0.5})
		require.NoError(t, err)
		assert.Equal(t, 2, store.Len())
		assert.Equal(t, 2, store.Dim())
	})

	t.Run("codes not a multiple of dim", func(t *testing.T) {
		_, err := NewStore(3, []int8{1, 2, 3, 4}, []float32{0, 1})
		assert.ErrorIs(t, err, ErrSizeMismatch)
	})

	t.Run("scale table too short", func(t *testing.T) {
		_, err := NewStore(2, []int8{1, 2, 3, 4}, []float32{0, 1})
		assert.ErrorIs(t, err, ErrSizeMismatch)
	})

	t.Run("min greater than max", func(t *testing.T) {
		_, err := NewStore(2, []int8{1, 2}, []float32{1, -1})
		assert.ErrorIs(t, err, ErrCorruptScales)
	})

	t.Run("nan scale", func(t *testing.T) {
		_, err := NewStore(2, []int8{1, 2}, []float32{float32(math.NaN()), 1})
		assert.ErrorIs(t, err, ErrCorruptScales)
	})

	t.Run("infinite scale", func(t *testing.T) {
		_, err := NewStore(2, []int8{1, 2}, []float32{0, float32(math.Inf(1))})
		assert.ErrorIs(t, err, ErrCorruptScales)
	})
}

func TestDequantize_Formula(t *testing.T) {
	store, err := NewStore(3, []int8{-128, 0, 127}, []float32{-0.5, 0.5})
	require.NoError(t, err)

	got := store.Dequantize(0)
	step := 1.0 / 255
	assert.InDelta(t, -0.5, got[0], 1e-6)
	assert.InDelta(t, 128*step-0.5, got[1], 1e-6)
	assert.InDelta(t, 0.5, got[2], 1e-6)
}

func TestDequantize_WithinScaleRange(t *testing.T) {
	vectors := randomUnitVectors(50, Dim, 7)
	store, err := Quantize(vectors, Dim)
	require.NoError(t, err)

	for i := 0; i < store.Len(); i++ {
		sc := store.Scale(i)
		for _, x := range store.Dequantize(i) {
			assert.GreaterOrEqual(t, float64(x), float64(sc.Min)-1e-6)
			assert.LessOrEqual(t, float64(x), float64(sc.Max)+1e-6)
		}
	}

	// Every possible code stays inside an arbitrary range.
	codes := make([]int8, 256)
	for i := range codes {
		codes[i] = int8(i - 128)
	}
	wide, err := NewStore(256, codes, []float32{-0.3, 0.7})
	require.NoError(t, err)
	for _, x := range wide.Dequantize(0) {
		assert.GreaterOrEqual(t, float64(x), -0.3-1e-6)
		assert.LessOrEqual(t, float64(x), 0.7+1e-6)
	}
}

func TestQuantize_ConstantVector(t *testing.T) {
	v := make([]float32, 8)
	for i := range v {
		v[i] = 0.25
	}
	store, err := Quantize([][]float32{v}, 8)
	require.NoError(t, err)

	sc := store.Scale(0)
	assert.Equal(t, sc.Min, sc.Max)
	assert.Equal(t, 1.0, sc.Step())
	for _, x := range store.Dequantize(0) {
		assert.InDelta(t, 0.25, x, 1e-6)
	}
}

func TestQuantize_DimMismatch(t *testing.T) {
	_, err := Quantize([][]float32{{1, 2, 3}}, 4)
	assert.ErrorIs(t, err, ErrVectorLengthMismatch)
}

func TestSimilarity_ApproximatesDotProduct(t *testing.T) {
	vectors := randomUnitVectors(20, Dim, 11)
	queries := randomUnitVectors(5, Dim, 99)
	store, err := Quantize(vectors, Dim)
	require.NoError(t, err)

	for _, q := range queries {
		for i, v := range vectors {
			assert.InDelta(t, exactDot(q, v), store.Similarity(i, q), 0.01)
		}
	}

	// A vector against itself is close to 1.
	assert.InDelta(t, 1.0, store.Similarity(3, vectors[3]), 0.01)
}

func TestSimilarity_WrongDimension(t *testing.T) {
	store, err := Quantize(randomUnitVectors(1, 4, 3), 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, store.Similarity(0, []float32{1, 0}))
}

func TestFidelity(t *testing.T) {
	vectors := randomUnitVectors(30, Dim, 5)
	store, err := Quantize(vectors, Dim)
	require.NoError(t, err)

	mean, max, err := store.Fidelity(vectors)
	require.NoError(t, err)
	assert.Less(t, mean, 0.001)
	assert.GreaterOrEqual(t, max, mean)

	_, _, err = store.Fidelity(vectors[:3])
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestWriteLoad(t *testing.T) {
	dir := t.TempDir()
	vectors := randomUnitVectors(4, Dim, 21)
	store, err := Quantize(vectors, Dim)
	require.NoError(t, err)

	codesPath := filepath.Join(dir, CodesFile)
	scalesPath := filepath.Join(dir, ScalesFile)
	require.NoError(t, store.Write(codesPath, scalesPath))

	loaded, err := Load(codesPath, scalesPath, Dim)
	require.NoError(t, err)
	assert.Equal(t, store.codes, loaded.codes)
	assert.Equal(t, store.scales, loaded.scales)

	t.Run("dimension does not divide codes", func(t *testing.T) {
		_, err := Load(codesPath, scalesPath, 385)
		assert.ErrorIs(t, err, ErrSizeMismatch)
	})

	t.Run("scale table for a different count", func(t *testing.T) {
		_, err := Load(codesPath, scalesPath, Dim/2)
		assert.ErrorIs(t, err, ErrSizeMismatch)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.bin"), scalesPath, Dim)
		assert.Error(t, err)
	})
}

func TestLoad_CorruptScaleTable(t *testing.T) {
	dir := t.TempDir()
	codesPath := filepath.Join(dir, CodesFile)
	scalesPath := filepath.Join(dir, ScalesFile)

	store, err := Quantize(randomUnitVectors(2, 4, 8), 4)
	require.NoError(t, err)
	require.NoError(t, store.Write(codesPath, scalesPath))
	require.NoError(t, writeFloat32s(scalesPath, []float32{0, 1, 1, 0}))

	_, err = Load(codesPath, scalesPath, 4)
	assert.ErrorIs(t, err, ErrCorruptScales)
}

func TestFloat32RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), Float32File)
	vectors := randomUnitVectors(3, 6, 4)
	require.NoError(t, WriteFloat32(path, vectors))

	loaded, err := LoadFloat32(path, 6)
	require.NoError(t, err)
	assert.Equal(t, vectors, loaded)

	_, err = LoadFloat32(path, 7)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestNormalizeL2(t *testing.T) {
	v := NormalizeL2([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := NormalizeL2([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
