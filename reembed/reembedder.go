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


package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/dirsearch/ai"
	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/embedding"
)

// Result is the outcome of a reembedding run.
type Result struct {
	// Vectors holds the normalized full-precision vectors in profile order.
	Vectors [][]float32
	// Store is Vectors quantized.
	Store *embedding.Store
	// MeanError and MaxError are the cosine error introduced by quantization.
	MeanError float64
	MaxError  float64
	Elapsed   time.Duration
}

// Option configures a Reembedder.
type Option func(*Reembedder) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reembedder) error {
		r.logger = logger
		return nil
	}
}

// Reembedder embeds every profile of a snapshot.
type Reembedder struct {
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewReembedder creates a reembedder. A nil config uses DefaultConfig and
// zero fields take their defaults. Progress is written to progress when it
// is not nil.
func NewReembedder(embedder ai.Embedder, config *Config, progress io.Writer, opts ...Option) (*Reembedder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	r := &Reembedder{
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(embedder, config.MaxRetries, config.RetryDelay),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "reembedder")
	return r, nil
}

// Run embeds profiles and quantizes the vectors. The first failing batch
// cancels the rest.
func (r *Reembedder) Run(ctx context.Context, profiles []*core.Profile) (*Result, error) {
	total := len(profiles)
	if total == 0 {
		return nil, ErrNoProfiles
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d profiles (batch size: %d, workers: %d)\n",
		total, r.config.BatchSize, r.config.Workers)

	pool, err := ants.NewPool(r.config.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	vectors := make([][]float32, total)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for lo := 0; lo < total; lo += r.config.BatchSize {
		hi := min(lo+r.config.BatchSize, total)
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			out, err := r.processor.Process(ctx, profiles[lo:hi])
			if err != nil {
				r.logger.Error("batch failed", "from", lo, "to", hi, "err", err)
				fail(fmt.Errorf("failed to process batch %d-%d: %w", lo, hi, err))
				return
			}
			copy(vectors[lo:hi], out)
			tracker.Increment(hi - lo)
		}
		if err := pool.Submit(task); err != nil {
			r.logger.Debug("embedding inline", "err", err)
			task()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracker.Finish()

	store, err := embedding.Quantize(vectors, r.config.Dim)
	if err != nil {
		return nil, fmt.Errorf("failed to quantize embeddings: %w", err)
	}
	meanErr, maxErr, err := store.Fidelity(vectors)
	if err != nil {
		return nil, err
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d profiles in %v (%.1f profiles/sec)\n",
		total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	r.logger.Info("reembedding complete",
		"profiles", total,
		"meanError", meanErr,
		"maxError", maxErr,
		"elapsed", elapsed)

	return &Result{
		Vectors:   vectors,
		Store:     store,
		MeanError: meanErr,
		MaxError:  maxErr,
		Elapsed:   elapsed,
	}, nil
}
