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
	"math"
	"strings"

	"github.com/poiesic/dirsearch/core"
)

const (
	// DeadLinkMultiplier applies to any profile with at least one dead link report.
	DeadLinkMultiplier = 0.1
	// IrrelevantDecay is applied once per distinct query that flagged a profile.
	IrrelevantDecay = 0.9
	// IrrelevantFloor bounds how far irrelevance reports alone can demote a profile.
	IrrelevantFloor = 0.5
)

// Table maps profile URL to a multiplier in (0, 1]. Profiles without an
// entry are unpenalized. A Table is never modified after it is computed.
type Table map[string]float64

// Multiplier returns the penalty for profileURL, 1 when there is none.
func (t Table) Multiplier(profileURL string) float64 {
	if m, ok := t[profileURL]; ok {
		return m
	}
	return 1
}

// Penalties returns t itself, so a fixed Table can stand in for a Tracker.
func (t Table) Penalties() Table {
	return t
}

// ComputePenalties derives the penalty table from the full report log.
//
// A dead link report buries a profile at DeadLinkMultiplier no matter how
// many there are. Irrelevance decays with the number of distinct queries
// (compared lower-cased and trimmed) down to IrrelevantFloor. When both
// apply the lower multiplier wins.
func ComputePenalties(reports []*core.Report) Table {
	deadLinks := make(map[string]struct{})
	irrelevant := make(map[string]map[string]struct{})

	for _, r := range reports {
		if r == nil {
			continue
		}
		switch r.Kind {
		case core.ReportKindDeadLink:
			deadLinks[r.ProfileURL] = struct{}{}
		case core.ReportKindIrrelevant:
			queries, ok := irrelevant[r.ProfileURL]
			if !ok {
				queries = make(map[string]struct{})
				irrelevant[r.ProfileURL] = queries
			}
			queries[strings.ToLower(strings.TrimSpace(r.Query))] = struct{}{}
		}
	}

	table := make(Table, len(deadLinks)+len(irrelevant))
	for url, queries := range irrelevant {
		table[url] = math.Max(IrrelevantFloor, math.Pow(IrrelevantDecay, float64(len(queries))))
	}
	for url := range deadLinks {
		table[url] = math.Min(table.Multiplier(url), DeadLinkMultiplier)
	}
	return table
}
