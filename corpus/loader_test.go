package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/embedding"
	"github.com/poiesic/dirsearch/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 4

var testVectors = [][]float32{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
}

func writeProfiles(t *testing.T, dir string) {
	t.Helper()
	profiles := []*core.Profile{
		{ProfileURL: "https://example.org/a", Name: "Cambridge Solar Co-op", Locality: "Cambridge", Country: "England"},
		{ProfileURL: "https://example.org/b", Name: "Hackney Tool Library", Locality: "Hackney:London", Country: "England"},
	}
	require.NoError(t, WriteProfiles(filepath.Join(dir, ProfilesFile), profiles))
}

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	loader, err := NewLoader(dir, WithDim(testDim))
	require.NoError(t, err)
	return loader
}

func TestLoad_Quantized(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir)
	store, err := embedding.Quantize(testVectors, testDim)
	require.NoError(t, err)
	require.NoError(t, store.Write(filepath.Join(dir, embedding.CodesFile), filepath.Join(dir, embedding.ScalesFile)))

	snap, err := newTestLoader(t, dir).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Len())
	require.NotNil(t, snap.Store)
	assert.Equal(t, 2, snap.Store.Len())
	assert.InDelta(t, 1.0, snap.Store.Similarity(0, testVectors[0]), 0.01)
	assert.True(t, snap.Locations.Contains("hackney"))
	assert.True(t, snap.Locations.Contains("london"))
}

func TestLoad_RawVectors(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir)
	require.NoError(t, embedding.WriteFloat32(filepath.Join(dir, embedding.Float32File), testVectors))

	snap, err := newTestLoader(t, dir).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap.Store)
	assert.InDelta(t, 1.0, snap.Store.Similarity(1, testVectors[1]), 0.01)
}

func TestLoad_NoEmbeddings(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir)

	snap, err := newTestLoader(t, dir).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.Store)
	assert.Equal(t, 2, snap.Len())
}

func TestLoad_CorruptScaleTable(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir)
	store, err := embedding.Quantize(testVectors, testDim)
	require.NoError(t, err)
	require.NoError(t, store.Write(filepath.Join(dir, embedding.CodesFile), filepath.Join(dir, embedding.ScalesFile)))

	// min > max for the second vector
	require.NoError(t, embedding.WriteFloat32(filepath.Join(dir, embedding.ScalesFile), [][]float32{{0, 1}, {1, 0}}))

	_, err = newTestLoader(t, dir).Load(context.Background())
	assert.ErrorIs(t, err, embedding.ErrCorruptScales)
}

func TestLoad_EmbeddingCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir)
	store, err := embedding.Quantize(append(testVectors, []float32{0, 0, 1, 0}), testDim)
	require.NoError(t, err)
	require.NoError(t, store.Write(filepath.Join(dir, embedding.CodesFile), filepath.Join(dir, embedding.ScalesFile)))

	_, err = newTestLoader(t, dir).Load(context.Background())
	assert.ErrorIs(t, err, search.ErrEmbeddingCountMismatch)
}

func TestLoad_MissingScaleFile(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, embedding.CodesFile), make([]byte, 2*testDim), 0644))

	_, err := newTestLoader(t, dir).Load(context.Background())
	assert.Error(t, err)
}

func TestLoad_WaitsForWriter(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir)
	old, err := embedding.Quantize(testVectors, testDim)
	require.NoError(t, err)
	require.NoError(t, old.Write(filepath.Join(dir, embedding.CodesFile), filepath.Join(dir, embedding.ScalesFile)))

	unlock, err := LockExclusive(context.Background(), dir)
	require.NoError(t, err)

	// A writer holding the lock has replaced only the codes file so far.
	nextVectors := [][]float32{{0, 0, -0.6, 0.8}, {0, 0.8, 0, -0.6}}
	next, err := embedding.Quantize(nextVectors, testDim)
	require.NoError(t, err)
	codesTmp := filepath.Join(dir, "codes.next")
	scalesTmp := filepath.Join(dir, "scales.next")
	require.NoError(t, next.Write(codesTmp, scalesTmp))
	require.NoError(t, os.Rename(codesTmp, filepath.Join(dir, embedding.CodesFile)))

	loader := newTestLoader(t, dir)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = loader.Load(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() {
		snap, err := loader.Load(context.Background())
		if err == nil {
			assert.InDelta(t, 1.0, snap.Store.Similarity(0, nextVectors[0]), 0.02)
		}
		done <- err
	}()

	require.NoError(t, os.Rename(scalesTmp, filepath.Join(dir, embedding.ScalesFile)))
	unlock()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish after the writer released the lock")
	}
}

func TestLockExclusive(t *testing.T) {
	dir := t.TempDir()

	unlock, err := LockShared(context.Background(), dir)
	require.NoError(t, err)
	unlock2, err := LockShared(context.Background(), dir)
	require.NoError(t, err, "readers share the lock")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = LockExclusive(ctx, dir)
	assert.Error(t, err)

	unlock()
	unlock2()
	release, err := LockExclusive(context.Background(), dir)
	require.NoError(t, err)
	release()
}

func TestLoad_BadProfiles(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := newTestLoader(t, t.TempDir()).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProfilesFile), []byte(`{"not": "an array"}`), 0644))
		_, err := newTestLoader(t, dir).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("duplicate urls", func(t *testing.T) {
		dir := t.TempDir()
		dup := []*core.Profile{{ProfileURL: "https://example.org/a"}, {ProfileURL: "https://example.org/a"}}
		require.NoError(t, WriteProfiles(filepath.Join(dir, ProfilesFile), dup))
		_, err := newTestLoader(t, dir).Load(context.Background())
		assert.ErrorIs(t, err, core.ErrInvalidProfile)
	})
}

func TestNewLoader(t *testing.T) {
	_, err := NewLoader("")
	assert.ErrorIs(t, err, ErrDataDirRequired)

	_, err = NewLoader(t.TempDir(), WithDim(0))
	assert.Error(t, err)

	loader, err := NewLoader("/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", ProfilesFile), loader.Path(ProfilesFile))
}

func TestReadProfiles_Fields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProfilesFile)
	data := `[{"profile_url":"https://example.org/a","name":"A","description":"d","tags":["x","y"],
		"latitude":52.2,"longitude":0.12,"locality":"Cambridge","region":"Cambridgeshire","country":"England","extra":1}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	profiles, err := ReadProfiles(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, []string{"x", "y"}, p.Tags)
	require.NotNil(t, p.Latitude)
	assert.InDelta(t, 52.2, *p.Latitude, 1e-9)
	assert.Equal(t, "Cambridgeshire", p.Region)
}
