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
	"math"
	"strings"
)

// geoMultiplier weights every score. Location relevance is enforced by
// filtering, so it is 1 at every call site.
const geoMultiplier = 1.0

// Score is the ranking score of one profile.
func Score(semantic, geoMult, keywordBoost, penalty float64) float64 {
	return semantic * geoMult * (1 + keywordBoost) * penalty
}

// RawRelevance is the user-facing relevance of one profile, before penalties.
func RawRelevance(semantic, keywordBoost float64) float64 {
	return math.Min(1, semantic*(1+keywordBoost))
}

// KeywordBoost is the fraction of topic words that occur as substrings of
// text. text must already be lower-cased.
func KeywordBoost(text string, topicWords []string) float64 {
	if len(topicWords) == 0 {
		return 0
	}
	hits := 0
	for _, w := range topicWords {
		if strings.Contains(text, w) {
			hits++
		}
	}
	return float64(hits) / float64(len(topicWords))
}

// scored is the intermediate result for one candidate profile.
type scored struct {
	index    int
	semantic float64
	boost    float64
	score    float64
	raw      float64
}

// relevancePercent converts raw relevance to 0-100. It is nil when there was
// no semantic signal.
func relevancePercent(s scored) *int {
	if s.semantic == 0 {
		return nil
	}
	v := int(math.Round(s.raw * 100))
	return &v
}
