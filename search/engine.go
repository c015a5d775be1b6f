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


package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/dirsearch/feedback"
)

// minParallelCandidates is the smallest candidate set scored on the pool.
var minParallelCandidates = 512

// PenaltySource supplies the current feedback penalty table.
// feedback.Tracker and a fixed feedback.Table both satisfy it.
type PenaltySource interface {
	Penalties() feedback.Table
}

// Engine ranks queries against the current snapshot.
type Engine struct {
	snapshot  atomic.Pointer[Snapshot]
	penalties PenaltySource
	config    Config
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithConfig sets the ranking thresholds. Zero fields take their defaults.
func WithConfig(cfg Config) Option {
	return func(e *Engine) error {
		cfg = cfg.WithDefaults()
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.config = cfg
		return nil
	}
}

// WithPenalties sets the feedback penalty source.
// Default is no penalties.
func WithPenalties(source PenaltySource) Option {
	return func(e *Engine) error {
		e.penalties = source
		return nil
	}
}

// NewEngine creates an engine serving snap.
func NewEngine(snap *Snapshot, opts ...Option) (*Engine, error) {
	if snap == nil {
		return nil, ErrSnapshotRequired
	}

	e := &Engine{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "search")

	pool, err := ants.NewPool(e.config.Workers)
	if err != nil {
		return nil, err
	}
	e.pool = pool
	e.snapshot.Store(snap)

	return e, nil
}

// Snapshot returns the snapshot new searches will use.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Swap installs snap for subsequent searches and returns the previous one.
// Searches already running finish against the snapshot they started with.
func (e *Engine) Swap(snap *Snapshot) (*Snapshot, error) {
	if snap == nil {
		return nil, ErrSnapshotRequired
	}
	old := e.snapshot.Swap(snap)
	e.logger.Info("snapshot swapped", "profiles", snap.Len())
	return old, nil
}

// Config returns the engine's thresholds.
func (e *Engine) Config() Config {
	return e.config
}

// Release releases the scoring pool. The engine should not be used after.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Rank analyzes and ranks one query.
//
// An embedding of the wrong dimension is ignored the same way as a missing
// one: semantic similarity is zero and ranking relies on keywords and
// location alone.
func (e *Engine) Rank(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	start := time.Now()

	monitor := req.Monitor
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(req.Query)

	snap := e.snapshot.Load()
	var penalties feedback.Table
	if e.penalties != nil {
		penalties = e.penalties.Penalties()
	}

	vector := req.Embedding
	if vector != nil && snap.Store != nil && len(vector) != snap.Store.Dim() {
		e.logger.Warn("ignoring query embedding with wrong dimension", "got", len(vector), "want", snap.Store.Dim())
		vector = nil
	}

	analysis := snap.analyzer.Analyze(req.Query, req.Hints)
	class := Classify(analysis)
	monitor.AfterAnalysis(analysis, class)

	r := &ranking{
		engine:     e,
		snap:       snap,
		penalties:  penalties,
		vector:     vector,
		geoTerms:   analysis.GeoTerms,
		topicWords: analysis.TopicWords,
		monitor:    monitor,
	}

	var (
		resp *Response
		err  error
	)
	switch class {
	case ClassificationGeoOnly:
		resp = r.geoOnly()
	case ClassificationGeoTopic:
		resp, err = r.geoTopic(ctx)
	default:
		resp, err = r.topicOnly(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp.GeoTerms = analysis.GeoTerms
	resp.TopicWords = analysis.TopicWords
	for i := range resp.Results {
		resp.Results[i].Rank = i
	}
	monitor.Finish(resp)

	e.logger.Debug("query ranked",
		"classification", resp.Classification,
		"geo_terms", analysis.GeoTerms,
		"topic_words", analysis.TopicWords,
		"results", len(resp.Results),
		"semantic", vector != nil,
		"elapsed", time.Since(start))
	return resp, nil
}

// forEach calls fn for every index below n, on the pool when n is large.
// fn must only touch state owned by its index.
func (e *Engine) forEach(ctx context.Context, n int, fn func(i int)) error {
	workers := e.config.Workers
	if n < minParallelCandidates || workers < 2 {
		for i := range n {
			fn(i)
		}
		return ctx.Err()
	}

	size := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}
		if err := e.pool.Submit(task); err != nil {
			e.logger.Debug("scoring inline", "err", err)
			task()
		}
	}
	wg.Wait()
	return ctx.Err()
}
