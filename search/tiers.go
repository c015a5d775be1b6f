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
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/dirsearch/feedback"
)

// ranking carries the state of one Rank call.
type ranking struct {
	engine     *Engine
	snap       *Snapshot
	penalties  feedback.Table
	vector     []float32
	geoTerms   []string
	topicWords []string
	monitor    Monitor
}

// geoMatches returns the profiles located in any of the geo terms.
func (r *ranking) geoMatches() []int {
	var matches []int
	for i := range r.snap.Profiles {
		if r.snap.inPlaces(i, r.geoTerms) {
			matches = append(matches, i)
		}
	}
	r.monitor.AfterGeoFilter(r.geoTerms, len(matches))
	return matches
}

// geoOnly browses every profile in the named places.
func (r *ranking) geoOnly() *Response {
	matches := r.geoMatches()
	if len(matches) < r.engine.config.MinGeoMatches {
		return r.noGeoMatch(ClassificationGeoOnly)
	}
	return &Response{
		Results:         r.browse(matches),
		Classification:  ClassificationGeoOnly,
		TotalMatchCount: len(matches),
	}
}

// geoTopic ranks profiles in the named places and falls back to browsing
// them when none pass the relevance gate.
func (r *ranking) geoTopic(ctx context.Context) (*Response, error) {
	matches := r.geoMatches()
	if len(matches) < r.engine.config.MinGeoMatches {
		return r.noGeoMatch(ClassificationGeoTopic), nil
	}

	candidates, err := r.score(ctx, matches)
	if err != nil {
		return nil, err
	}
	threshold := r.engine.config.RelevanceThreshold
	results := r.top(candidates, func(s scored) bool {
		return s.raw >= threshold && s.boost > 0
	})
	r.monitor.AfterScoring(len(candidates), len(results))

	if len(results) == 0 {
		note := fallbackNote(r.topicWords, r.geoTerms)
		r.monitor.Fallback(ClassificationGeoTopicFallback, note)
		return &Response{
			Results:         r.browse(matches),
			Classification:  ClassificationGeoTopicFallback,
			Note:            note,
			TotalMatchCount: len(matches),
		}, nil
	}

	return &Response{
		Results:         results,
		Classification:  ClassificationGeoTopic,
		TotalMatchCount: keywordMatches(candidates),
	}, nil
}

// topicOnly ranks the whole corpus.
func (r *ranking) topicOnly(ctx context.Context) (*Response, error) {
	all := make([]int, r.snap.Len())
	for i := range all {
		all[i] = i
	}

	candidates, err := r.score(ctx, all)
	if err != nil {
		return nil, err
	}
	threshold := r.engine.config.RelevanceThreshold
	strong := r.engine.config.StrongRelevance
	results := r.top(candidates, func(s scored) bool {
		return s.raw >= threshold && (s.boost > 0 || s.raw >= strong)
	})
	r.monitor.AfterScoring(len(candidates), len(results))

	return &Response{
		Results:         results,
		Classification:  ClassificationTopicOnly,
		TotalMatchCount: keywordMatches(candidates),
	}, nil
}

func (r *ranking) noGeoMatch(class Classification) *Response {
	return &Response{
		Results:        []ScoredProfile{},
		Classification: class,
		Note:           noGeoMatchNote(r.geoTerms),
	}
}

// score computes the score of every candidate profile.
func (r *ranking) score(ctx context.Context, candidates []int) ([]scored, error) {
	out := make([]scored, len(candidates))
	err := r.engine.forEach(ctx, len(candidates), func(k int) {
		i := candidates[k]
		semantic := r.snap.similarity(i, r.vector)
		boost := KeywordBoost(r.snap.text[i], r.topicWords)
		penalty := r.penalties.Multiplier(r.snap.Profiles[i].ProfileURL)
		out[k] = scored{
			index:    i,
			semantic: semantic,
			boost:    boost,
			score:    Score(semantic, geoMultiplier, boost, penalty),
			raw:      RawRelevance(semantic, boost),
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// top sorts candidates by score, keeps the first TopK, and returns those
// accepted by keep.
func (r *ranking) top(candidates []scored, keep func(scored) bool) []ScoredProfile {
	profiles := r.snap.Profiles
	slices.SortFunc(candidates, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return strings.Compare(profiles[a.index].ProfileURL, profiles[b.index].ProfileURL)
	})
	if len(candidates) > r.engine.config.TopK {
		candidates = candidates[:r.engine.config.TopK]
	}

	results := []ScoredProfile{}
	for _, s := range candidates {
		if !keep(s) {
			continue
		}
		results = append(results, ScoredProfile{
			Profile:      profiles[s.index],
			Relevance:    relevancePercent(s),
			Score:        s.score,
			KeywordBoost: s.boost,
		})
	}
	return results
}

// browse orders profiles by description length, longest first, up to the
// browse limit.
func (r *ranking) browse(matches []int) []ScoredProfile {
	profiles := r.snap.Profiles
	ordered := slices.Clone(matches)
	slices.SortFunc(ordered, func(a, b int) int {
		la := utf8.RuneCountInString(profiles[a].Description)
		lb := utf8.RuneCountInString(profiles[b].Description)
		if c := cmp.Compare(lb, la); c != 0 {
			return c
		}
		return strings.Compare(profiles[a].ProfileURL, profiles[b].ProfileURL)
	})
	if len(ordered) > r.engine.config.BrowseLimit {
		ordered = ordered[:r.engine.config.BrowseLimit]
	}

	results := make([]ScoredProfile, len(ordered))
	for k, i := range ordered {
		results[k] = ScoredProfile{Profile: profiles[i]}
	}
	return results
}

// keywordMatches counts candidates with any keyword overlap.
func keywordMatches(candidates []scored) int {
	n := 0
	for _, s := range candidates {
		if s.boost > 0 {
			n++
		}
	}
	return n
}
