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


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/storage"
)

// ReportRepository implements storage.ReportRepository for BadgerDB.
//
// Each report is stored under a primary key and indexed by creation time so
// the log can be listed in the order it was written.
type ReportRepository struct {
	backend *Backend
}

var _ storage.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates a report repository on an open backend.
func NewReportRepository(backend *Backend) (*ReportRepository, error) {
	return &ReportRepository{
		backend: backend,
	}, nil
}

// Close is a no-op; the backend is closed by its owner.
func (r *ReportRepository) Close() error {
	return nil
}

// AddReports validates and stores reports in one transaction. A zero
// CreatedAt is set to now and a zero Id is derived from the report content.
// The inputs are updated only when the whole batch is stored. Storing a
// report under an existing Id replaces it.
func (r *ReportRepository) AddReports(ctx context.Context, reports ...*core.Report) ([]*core.Report, error) {
	now := time.Now()
	prepared := make([]*core.Report, len(reports))
	for i, report := range reports {
		if report != nil {
			p := *report
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			// Stored with microsecond precision
			p.CreatedAt = p.CreatedAt.UTC().Truncate(time.Microsecond)
			if p.Id == 0 {
				p.Id = core.IDFromContent(p.ContentKey())
			}
			prepared[i] = &p
		}
		if err := core.ValidateReport(prepared[i]); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, report := range prepared {
			key := makeReportKey(report.Id)

			// A replaced report may be indexed under another time
			existing, err := readReport(tx, key)
			if err != nil {
				return err
			}
			if existing != nil && !existing.CreatedAt.Equal(report.CreatedAt) {
				if err := tx.Delete(makeReportDateKey(existing.CreatedAt, existing.Id)); err != nil {
					return err
				}
			}

			if err := tx.Set(key, storage.MarshalReport(report)); err != nil {
				return err
			}
			if err := tx.Set(makeReportDateKey(report.CreatedAt, report.Id), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	for i, report := range reports {
		*report = *prepared[i]
	}
	return reports, nil
}

// DeleteReports removes reports and their index entries. It fails with
// storage.ErrNotFound, deleting nothing, if any id is unknown.
func (r *ReportRepository) DeleteReports(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeReportKey(id)

			// Read report to find its date index entry
			report, err := readReport(tx, key)
			if err != nil {
				return err
			}
			if report == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeReportDateKey(report.CreatedAt, report.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetReport returns the report stored under id, or storage.ErrNotFound.
func (r *ReportRepository) GetReport(ctx context.Context, id core.ID) (*core.Report, error) {
	var result *core.Report
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readReport(tx, makeReportKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListReports returns every report, oldest first.
func (r *ReportRepository) ListReports(ctx context.Context) ([]*core.Report, error) {
	var results []*core.Report
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(reportDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			id, ok := reportIDFromDateKey(iter.Item().Key())
			if !ok {
				continue
			}
			report, err := readReport(tx, makeReportKey(id))
			if err != nil {
				return err
			}
			// Index entry without a primary record
			if report == nil {
				r.backend.logger.Warn("dangling report index entry", "id", id)
				continue
			}
			results = append(results, report)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// readReport reads a report from the transaction.
// Returns nil, nil if the key doesn't exist.
func readReport(tx *badger.Txn, key []byte) (*core.Report, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var report *core.Report
	err = item.Value(func(val []byte) error {
		var err error
		report, err = storage.UnmarshalReport(val)
		return err
	})
	return report, err
}
