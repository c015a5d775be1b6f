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
	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/query"
)

// Classification says which tier answered a query.
type Classification string

const (
	ClassificationGeoOnly          Classification = "geo-only"
	ClassificationTopicOnly        Classification = "topic-only"
	ClassificationGeoTopic         Classification = "geo+topic"
	ClassificationGeoTopicFallback Classification = "geo+topic-fallback"
)

// Classify derives the tier for an analyzed query. A query with neither
// signal is answered as topic-only, on semantic similarity alone.
func Classify(a query.Analysis) Classification {
	switch {
	case a.HasGeo() && a.HasTopic():
		return ClassificationGeoTopic
	case a.HasGeo():
		return ClassificationGeoOnly
	default:
		return ClassificationTopicOnly
	}
}

// Request is one ranking call.
type Request struct {
	// Query is the raw user text. Required.
	Query string
	// Hints replace heuristic extraction when set.
	Hints *query.Hints
	// Embedding is the unit-length query vector, nil when unavailable.
	Embedding []float32
	// Monitor receives progress callbacks. Optional.
	Monitor Monitor
}

// ScoredProfile is one entry of a ranked response.
type ScoredProfile struct {
	Profile *core.Profile `json:"profile"`
	// Relevance is round(raw relevance * 100), nil without a semantic score.
	Relevance    *int    `json:"relevance,omitempty"`
	Score        float64 `json:"score"`
	KeywordBoost float64 `json:"keyword_boost"`
	// Rank is the 0-based position in Results.
	Rank int `json:"rank"`
}

// Response is the ranked result of a query plus diagnostics.
type Response struct {
	Results        []ScoredProfile `json:"results"`
	Classification Classification  `json:"classification"`
	// Note explains an empty or fallback response.
	Note string `json:"note,omitempty"`
	// TotalMatchCount counts matches before the display cut: geo matches for
	// a browse, keyword matches for a ranked search.
	TotalMatchCount int      `json:"total_match_count"`
	GeoTerms        []string `json:"geo_terms,omitempty"`
	TopicWords      []string `json:"topic_words,omitempty"`
}
