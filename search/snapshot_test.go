package search

import (
	"testing"

	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	profiles := []*core.Profile{
		{ProfileURL: "a", Locality: "Tower Hamlets:London", Country: "England"},
		{ProfileURL: "b", Locality: "Cambridge"},
	}

	t.Run("without embeddings", func(t *testing.T) {
		snap, err := NewSnapshot(profiles, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Len())
		assert.True(t, snap.Locations.Contains("tower hamlets"))
		assert.NotNil(t, snap.Aliases)
		assert.Equal(t, 0.0, snap.similarity(0, []float32{1, 0}))
	})

	t.Run("embedding count mismatch", func(t *testing.T) {
		store, err := embedding.Quantize([][]float32{{1, 0}}, 2)
		require.NoError(t, err)
		_, err = NewSnapshot(profiles, store, nil)
		assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)
	})

	t.Run("duplicate profile", func(t *testing.T) {
		_, err := NewSnapshot([]*core.Profile{{ProfileURL: "a"}, {ProfileURL: "a"}}, nil, nil)
		assert.ErrorIs(t, err, core.ErrInvalidProfile)
	})
}

func TestSnapshot_InPlaces(t *testing.T) {
	snap, err := NewSnapshot([]*core.Profile{
		{ProfileURL: "a", Locality: "Cambridge", Region: "Cambridgeshire"},
		{ProfileURL: "b", Locality: "Ely", Region: "East Cambridgeshire"},
		{ProfileURL: "c", Locality: "Oxford"},
	}, nil, nil)
	require.NoError(t, err)

	// Substring semantics: "cambridge" also matches Cambridgeshire
	assert.True(t, snap.inPlaces(0, []string{"cambridge"}))
	assert.True(t, snap.inPlaces(1, []string{"cambridge"}))
	assert.False(t, snap.inPlaces(2, []string{"cambridge"}))
	assert.True(t, snap.inPlaces(2, []string{"york", "oxford"}))
}
