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


package storage

import (
	"context"

	"github.com/poiesic/dirsearch/core"
)

// ReportRepository is an append-only log of user reports with a
// delete-by-id path for moderation.
type ReportRepository interface {
	// AddReports appends reports to the log.
	// Sets CreatedAt if zero and assigns a content-derived ID if Id is 0.
	// Returns the reports with IDs and timestamps populated.
	AddReports(ctx context.Context, reports ...*core.Report) ([]*core.Report, error)

	// DeleteReports removes reports by their IDs.
	// Returns ErrNotFound if any report doesn't exist; nothing is deleted then.
	DeleteReports(ctx context.Context, ids ...core.ID) error

	// GetReport retrieves a single report by ID.
	// Returns ErrNotFound if the report doesn't exist.
	GetReport(ctx context.Context, id core.ID) (*core.Report, error)

	// ListReports returns every report, oldest first.
	ListReports(ctx context.Context) ([]*core.Report, error)

	// Close releases resources held by the repository.
	Close() error
}
