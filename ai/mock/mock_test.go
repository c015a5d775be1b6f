package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/dirsearch/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	a, err := m.EmbedText(ctx, "repair cafe")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "repair cafe")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "food bank")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDim)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 3, m.CallCount())
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	m := &MockEmbedder{Dim: 16}
	vectors, err := m.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	for _, v := range vectors {
		require.Len(t, v, 16)
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	}
}

func TestMockEmbedder_CustomFunc(t *testing.T) {
	m := NewMockEmbedder()
	boom := errors.New("boom")
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, boom
	}

	_, err := m.EmbedText(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	_, err = m.EmbedText(context.Background(), "x")
	assert.NoError(t, err)
}

func TestMockQueryUnderstander(t *testing.T) {
	m := NewMockQueryUnderstander()

	hints, err := m.Understand(context.Background(), "anything")
	require.NoError(t, err)
	assert.Nil(t, hints)

	m.UnderstandFunc = func(ctx context.Context, text string) (*query.Hints, error) {
		return &query.Hints{Geo: []string{"Leeds"}}, nil
	}
	hints, err = m.Understand(context.Background(), "anything")
	require.NoError(t, err)
	require.NotNil(t, hints)
	assert.Equal(t, []string{"Leeds"}, hints.Geo)
	assert.Equal(t, 2, m.CallCount())
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	mp := p.(*MockProvider)

	assert.Same(t, mp.GetMockEmbedder(), p.Embedder())
	assert.Same(t, mp.GetMockUnderstander(), p.QueryUnderstander())

	require.NoError(t, p.Close())
	assert.True(t, mp.Closed())

	e := &MockEmbedder{Dim: 8}
	u := NewMockQueryUnderstander()
	custom := NewMockProviderWithServices(e, u).(*MockProvider)
	assert.Same(t, e, custom.GetMockEmbedder())
	assert.Same(t, u, custom.GetMockUnderstander())
}
