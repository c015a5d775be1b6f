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
	"log/slog"
	"time"

	"github.com/poiesic/dirsearch/ai"
	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/embedding"
)

// BatchProcessor embeds one batch of profiles.
type BatchProcessor struct {
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// NewBatchProcessor creates a processor that retries failed embedder calls.
func NewBatchProcessor(embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		logger:         slog.Default().With("component", "reembed-batch"),
	}
}

// Process returns one unit-length vector per profile, in input order.
func (bp *BatchProcessor) Process(ctx context.Context, profiles []*core.Profile) ([][]float32, error) {
	if len(profiles) == 0 {
		return nil, nil
	}

	texts := make([]string, len(profiles))
	for i, p := range profiles {
		texts[i] = core.ProfileText(p)
	}

	var vectors [][]float32
	err := retryWithBackoff(ctx, bp.logger, func() error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(profiles) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(profiles), len(vectors))
	}

	for i := range vectors {
		vectors[i] = embedding.NormalizeL2(vectors[i])
	}
	return vectors, nil
}
