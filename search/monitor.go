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

import "github.com/poiesic/dirsearch/query"

// Monitor observes the stages of one Rank call.
type Monitor interface {
	Start(query string)
	AfterAnalysis(analysis query.Analysis, class Classification)
	AfterGeoFilter(geoTerms []string, matches int)
	AfterScoring(candidates int, kept int)
	Fallback(class Classification, note string)
	Finish(resp *Response)
}

type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                   {}
func (n *noopMonitor) AfterAnalysis(_ query.Analysis, _ Classification) {}
func (n *noopMonitor) AfterGeoFilter(_ []string, _ int)                 {}
func (n *noopMonitor) AfterScoring(_ int, _ int)                        {}
func (n *noopMonitor) Fallback(_ Classification, _ string)              {}
func (n *noopMonitor) Finish(_ *Response)                               {}
