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


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateReport validates a Report according to domain rules.
//
// Validation rules:
//   - ProfileURL must not be empty
//   - Kind must be valid (DeadLink or Irrelevant)
//   - Irrelevant reports must carry the query they were filed against
//   - CreatedAt must not be in the future
//
// NOT validated:
//   - ID (assigned by the repository)
//   - whether ProfileURL exists in the current snapshot (reports outlive reloads)
func ValidateReport(report *Report) error {
	if report == nil {
		return fmt.Errorf("%w: report is nil", ErrInvalidReport)
	}

	if strings.TrimSpace(report.ProfileURL) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrEmptyProfileURL)
	}

	if err := ValidateReportKind(report.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	if report.Kind == ReportKindIrrelevant && strings.TrimSpace(report.Query) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrEmptyQuery)
	}

	if !IsValidTimestamp(report.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidReport, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateReportKind validates that a ReportKind has a valid value.
func ValidateReportKind(kind ReportKind) error {
	if kind != ReportKindDeadLink && kind != ReportKindIrrelevant {
		return fmt.Errorf("%w: value %d", ErrInvalidReportKind, kind)
	}
	return nil
}

// ValidateProfiles checks that every profile has a ProfileURL and that
// ProfileURL is unique within the slice.
func ValidateProfiles(profiles []*Profile) error {
	seen := make(map[string]struct{}, len(profiles))
	for i, p := range profiles {
		if p == nil {
			return fmt.Errorf("%w: profile %d is nil", ErrInvalidProfile, i)
		}
		if p.ProfileURL == "" {
			return fmt.Errorf("%w: profile %d: %w", ErrInvalidProfile, i, ErrEmptyProfileURL)
		}
		if _, ok := seen[p.ProfileURL]; ok {
			return fmt.Errorf("%w: %w: %s", ErrInvalidProfile, ErrDuplicateProfile, p.ProfileURL)
		}
		seen[p.ProfileURL] = struct{}{}
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
