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


package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/storage"
)

// ErrRepositoryRequired is returned when a Tracker is created without a repository.
var ErrRepositoryRequired = errors.New("report repository is required")

// Tracker serializes writes to the report log and publishes the penalty
// table derived from it.
type Tracker struct {
	repo   storage.ReportRepository
	mu     sync.Mutex // single writer
	table  atomic.Pointer[Table]
	logger *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// NewTracker creates a tracker and computes the initial table from the
// reports already in repo.
func NewTracker(ctx context.Context, repo storage.ReportRepository, opts ...Option) (*Tracker, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	t := &Tracker{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	t.logger = t.logger.With("component", "feedback")

	if err := t.Refresh(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Penalties returns the most recently computed table.
func (t *Tracker) Penalties() Table {
	return *t.table.Load()
}

// Report appends reports to the log and recomputes the table.
func (t *Tracker) Report(ctx context.Context, reports ...*core.Report) ([]*core.Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	added, err := t.repo.AddReports(ctx, reports...)
	if err != nil {
		return nil, fmt.Errorf("adding reports: %w", err)
	}
	for _, r := range added {
		t.logger.Info("report added", "id", r.Id, "profile", r.ProfileURL, "kind", r.Kind)
	}

	if err := t.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return added, nil
}

// Delete removes reports by ID and recomputes the table.
// Returns storage.ErrNotFound if any ID is unknown.
func (t *Tracker) Delete(ctx context.Context, ids ...core.ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.repo.DeleteReports(ctx, ids...); err != nil {
		return fmt.Errorf("deleting reports: %w", err)
	}
	t.logger.Info("reports deleted", "count", len(ids))

	return t.refreshLocked(ctx)
}

// List returns the full report log, oldest first.
func (t *Tracker) List(ctx context.Context) ([]*core.Report, error) {
	return t.repo.ListReports(ctx)
}

// Refresh recomputes the table from the repository.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refreshLocked(ctx)
}

func (t *Tracker) refreshLocked(ctx context.Context) error {
	reports, err := t.repo.ListReports(ctx)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}

	table := ComputePenalties(reports)
	t.table.Store(&table)
	t.logger.Debug("penalty table recomputed", "reports", len(reports), "penalized", len(table))
	return nil
}
