package reembed

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/dirsearch/ai/mock"
	"github.com/poiesic/dirsearch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		BatchSize:      4,
		ReportInterval: 5,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
		Workers:        3,
		Dim:            16,
	}
}

func TestReembedder_Run(t *testing.T) {
	embedder := &mock.MockEmbedder{Dim: 16}
	var buf bytes.Buffer

	r, err := NewReembedder(embedder, testConfig(), &buf)
	require.NoError(t, err)

	profiles := testProfiles(10)
	profiles[3].Name = "Different"
	result, err := r.Run(context.Background(), profiles)
	require.NoError(t, err)

	require.Len(t, result.Vectors, 10)
	require.NotNil(t, result.Store)
	assert.Equal(t, 10, result.Store.Len())
	assert.Equal(t, 16, result.Store.Dim())
	assert.Equal(t, 3, embedder.CallCount(), "10 profiles in batches of 4")

	// Vectors stay in profile order
	want, err := embedder.EmbedText(context.Background(), core.ProfileText(profiles[3]))
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, result.Vectors[3], 1e-6)

	for _, v := range result.Vectors {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	}

	assert.Less(t, result.MeanError, 0.01)
	assert.LessOrEqual(t, result.MeanError, result.MaxError)

	output := buf.String()
	assert.Contains(t, output, "Starting reembedding of 10 profiles")
	assert.Contains(t, output, "10/10")
	assert.Contains(t, output, "Reembedding complete")
}

func TestReembedder_NoProfiles(t *testing.T) {
	r, err := NewReembedder(mock.NewMockEmbedder(), nil, nil)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoProfiles)
}

func TestReembedder_EmbedderRequired(t *testing.T) {
	_, err := NewReembedder(nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestReembedder_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = -1
	_, err := NewReembedder(mock.NewMockEmbedder(), cfg, nil)
	assert.Error(t, err)
}

func TestReembedder_EmbeddingError(t *testing.T) {
	embedder := &mock.MockEmbedder{Dim: 16}
	boom := errors.New("model offline")
	var calls atomic.Int32
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls.Add(1)
		return nil, boom
	}

	r, err := NewReembedder(embedder, testConfig(), nil)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), testProfiles(20))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestReembedder_WrongDimension(t *testing.T) {
	embedder := &mock.MockEmbedder{Dim: 8}
	r, err := NewReembedder(embedder, testConfig(), nil)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), testProfiles(2))
	assert.Error(t, err)
}

func TestReembedder_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewReembedder(&mock.MockEmbedder{Dim: 16}, testConfig(), nil)
	require.NoError(t, err)

	_, err = r.Run(ctx, testProfiles(8))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 64, config.BatchSize)
	assert.Equal(t, 100, config.ReportInterval)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, 1*time.Second, config.RetryDelay)
	assert.Equal(t, 384, config.Dim)
	assert.GreaterOrEqual(t, config.Workers, 1)
	require.NoError(t, config.Validate())
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := (&Config{BatchSize: 8}).WithDefaults()
	assert.Equal(t, 8, cfg.BatchSize)
	assert.Equal(t, 3, cfg.MaxRetries)

	var nilCfg *Config
	assert.Equal(t, DefaultConfig(), nilCfg.WithDefaults())
}
