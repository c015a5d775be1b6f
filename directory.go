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


package dirsearch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/dirsearch/ai"
	"github.com/poiesic/dirsearch/ai/openai"
	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/corpus"
	"github.com/poiesic/dirsearch/embedding"
	"github.com/poiesic/dirsearch/feedback"
	"github.com/poiesic/dirsearch/query"
	"github.com/poiesic/dirsearch/search"
	"github.com/poiesic/dirsearch/storage"
	"github.com/poiesic/dirsearch/storage/badger"
)

// ErrConfigRequired is returned by Open when no config is given.
var ErrConfigRequired = errors.New("config is required")

// Directory is a searchable profile directory: the current snapshot, the
// report log with its penalty table, the ranking engine, and the optional
// AI collaborators.
type Directory struct {
	loader    *corpus.Loader
	backend   *badger.Backend
	reports   storage.ReportRepository
	tracker   *feedback.Tracker
	engine    *search.Engine
	provider  ai.AIProvider
	aiTimeout time.Duration
	monitor   search.Monitor
	logger    *slog.Logger

	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// Option configures a Directory.
type Option func(*directoryOptions) error

type directoryOptions struct {
	provider       ai.AIProvider
	logger         *slog.Logger
	monitor        search.Monitor
	reloadInterval time.Duration
	inMemory       bool
}

// WithProvider sets the AI provider, replacing the one built from Config.AI.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *directoryOptions) error {
		o.provider = provider
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *directoryOptions) error {
		o.logger = logger
		return nil
	}
}

// WithMonitor sets the monitor passed to every search.
func WithMonitor(monitor search.Monitor) Option {
	return func(o *directoryOptions) error {
		o.monitor = monitor
		return nil
	}
}

// WithReloadInterval overrides Config.ReloadInterval.
func WithReloadInterval(interval time.Duration) Option {
	return func(o *directoryOptions) error {
		if interval < 0 {
			return errors.New("reload interval must not be negative")
		}
		o.reloadInterval = interval
		return nil
	}
}

// WithInMemoryReports keeps the report log in memory. Reports are lost on Close.
func WithInMemoryReports() Option {
	return func(o *directoryOptions) error {
		o.inMemory = true
		return nil
	}
}

// Open loads the data directory, opens the report log, and starts the
// engine. The caller must Close the directory.
func Open(cfg *Config, opts ...Option) (*Directory, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	options := &directoryOptions{
		logger:         slog.Default(),
		reloadInterval: cfg.ReloadInterval,
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger
	ctx := context.Background()

	loader, err := corpus.NewLoader(cfg.DataDir, corpus.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	snap, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(cfg.ReportDB, options.inMemory)
	if err != nil {
		return nil, err
	}

	reports, err := badger.NewReportRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	tracker, err := feedback.NewTracker(ctx, reports, feedback.WithLogger(logger))
	if err != nil {
		reports.Close()
		backend.Close()
		return nil, err
	}

	engine, err := search.NewEngine(snap,
		search.WithConfig(cfg.Search),
		search.WithPenalties(tracker),
		search.WithLogger(logger))
	if err != nil {
		reports.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	aiTimeout := ai.DefaultConfig().Timeout
	if cfg.AI != nil {
		aiTimeout = cfg.AI.Timeout
		if provider == nil {
			provider, err = openai.NewProvider(cfg.AI)
			if err != nil {
				engine.Release()
				reports.Close()
				backend.Close()
				return nil, err
			}
		}
	}

	d := &Directory{
		loader:    loader,
		backend:   backend,
		reports:   reports,
		tracker:   tracker,
		engine:    engine,
		provider:  provider,
		aiTimeout: aiTimeout,
		monitor:   options.monitor,
		logger:    logger.With("component", "directory"),
		stop:      make(chan struct{}),
	}

	if options.reloadInterval > 0 {
		d.wg.Add(1)
		go d.reloadLoop(options.reloadInterval)
	}
	return d, nil
}

// Search ranks the snapshot against text. When an AI provider is configured
// the query is embedded and analyzed by the model first; either call failing
// or timing out only degrades the search.
func (d *Directory) Search(ctx context.Context, text string) (*search.Response, error) {
	return d.SearchWithHints(ctx, text, nil)
}

// SearchWithHints is Search with caller-supplied hints. The model is not
// asked for hints when hints is non-nil.
func (d *Directory) SearchWithHints(ctx context.Context, text string, hints *query.Hints) (*search.Response, error) {
	if strings.TrimSpace(text) == "" {
		return nil, search.ErrEmptyQuery
	}

	var vector []float32
	if d.provider != nil {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			vector = d.embedQuery(ctx, text)
		}()
		if hints == nil {
			hints = d.understandQuery(ctx, text)
		}
		wg.Wait()
	}

	return d.Rank(ctx, search.Request{
		Query:     text,
		Hints:     hints,
		Embedding: vector,
	})
}

// Rank passes a prepared request straight to the engine.
func (d *Directory) Rank(ctx context.Context, req search.Request) (*search.Response, error) {
	if req.Monitor == nil {
		req.Monitor = d.monitor
	}
	return d.engine.Rank(ctx, req)
}

func (d *Directory) embedQuery(ctx context.Context, text string) []float32 {
	ctx, cancel := context.WithTimeout(ctx, d.aiTimeout)
	defer cancel()

	vector, err := d.provider.Embedder().EmbedText(ctx, text)
	if err != nil {
		d.logger.Warn("query embedding failed, ranking without semantics", "err", err)
		return nil
	}
	if len(vector) == 0 {
		return nil
	}
	return embedding.NormalizeL2(vector)
}

func (d *Directory) understandQuery(ctx context.Context, text string) *query.Hints {
	ctx, cancel := context.WithTimeout(ctx, d.aiTimeout)
	defer cancel()

	hints, err := d.provider.QueryUnderstander().Understand(ctx, text)
	if err != nil {
		d.logger.Warn("query understanding failed, using local analysis", "err", err)
		return nil
	}
	return hints
}

// Report records user reports and updates the penalty table.
func (d *Directory) Report(ctx context.Context, reports ...*core.Report) ([]*core.Report, error) {
	return d.tracker.Report(ctx, reports...)
}

// Unreport deletes reports by id and updates the penalty table.
func (d *Directory) Unreport(ctx context.Context, ids ...core.ID) error {
	return d.tracker.Delete(ctx, ids...)
}

// Reports lists all reports, oldest first.
func (d *Directory) Reports(ctx context.Context) ([]*core.Report, error) {
	return d.tracker.List(ctx)
}

// Penalties returns the current penalty table.
func (d *Directory) Penalties() feedback.Table {
	return d.tracker.Penalties()
}

// Snapshot returns the snapshot searches currently run against.
func (d *Directory) Snapshot() *search.Snapshot {
	return d.engine.Snapshot()
}

// Reload rebuilds the snapshot from the data directory and swaps it in.
// Searches in flight finish on the old snapshot. On error the current
// snapshot stays.
func (d *Directory) Reload(ctx context.Context) error {
	snap, err := d.loader.Load(ctx)
	if err != nil {
		d.logger.Error("reload failed", "err", err)
		return err
	}
	old, err := d.engine.Swap(snap)
	if err != nil {
		return err
	}
	d.logger.Info("snapshot reloaded", "profiles", snap.Len(), "previous", old.Len())
	return nil
}

func (d *Directory) reloadLoop(interval time.Duration) {
	defer d.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			// Errors are logged by Reload
			_ = d.Reload(context.Background())
		}
	}
}

// Close stops background reloads and releases every resource. It is safe
// to call more than once.
func (d *Directory) Close() error {
	d.closeOnce.Do(func() {
		close(d.stop)
		d.wg.Wait()

		d.engine.Release()

		// Close AI provider first
		if d.provider != nil {
			if err := d.provider.Close(); err != nil {
				d.logger.Error("error closing AI provider", "err", err)
			}
		}

		if err := d.reports.Close(); err != nil {
			d.logger.Error("error closing report repository", "err", err)
			d.closeErr = err
			return
		}

		// Close backend
		if err := d.backend.Close(); err != nil {
			d.logger.Error("error closing backend storage", "err", err)
			d.closeErr = err
		}
	})
	return d.closeErr
}
