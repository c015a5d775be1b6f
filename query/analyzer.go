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


package query

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/dirsearch/geo"
)

// Hints are pre-extracted signals from an upstream query understanding step.
type Hints struct {
	Geo   []string `json:"geo"`
	Topic string   `json:"topic"`
}

// Analysis is the outcome of analyzing one query.
type Analysis struct {
	GeoTerms   []string
	TopicWords []string
}

// HasGeo reports whether the query carries a location signal.
func (a Analysis) HasGeo() bool { return len(a.GeoTerms) > 0 }

// HasTopic reports whether the query carries a topic signal.
func (a Analysis) HasTopic() bool { return len(a.TopicWords) > 0 }

// Analyzer extracts geo terms and topic words against one location index.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	index   *geo.LocationIndex
	aliases *geo.AliasTable
}

// NewAnalyzer creates an analyzer. A nil alias table means no aliases.
func NewAnalyzer(index *geo.LocationIndex, aliases *geo.AliasTable) *Analyzer {
	if aliases == nil {
		aliases = geo.NewAliasTable(nil)
	}
	return &Analyzer{index: index, aliases: aliases}
}

// Analyze extracts both signals from text. Non-empty hint fields replace the
// corresponding heuristic: hinted geo names are used as-is (lower-cased) and a
// hinted topic is the only text searched for topic words.
func (a *Analyzer) Analyze(text string, hints *Hints) Analysis {
	var geoTerms []string
	if hints != nil && len(hints.Geo) > 0 {
		set := newOrderedSet()
		for _, g := range hints.Geo {
			if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
				set.add(g)
			}
		}
		geoTerms = set.items
	} else {
		geoTerms = a.ExtractGeoTerms(text)
	}

	topicSource := text
	if hints != nil && strings.TrimSpace(hints.Topic) != "" {
		topicSource = hints.Topic
	}

	return Analysis{
		GeoTerms:   geoTerms,
		TopicWords: a.ExtractTopicWords(topicSource, geoTerms),
	}
}

// ExtractGeoTerms returns the location tokens referenced by text: alias
// expansions first, then single words and 2- and 3-word phrases known to the
// location index.
func (a *Analyzer) ExtractGeoTerms(text string) []string {
	ws := words(text)
	joined := strings.Join(ws, " ")
	terms := newOrderedSet()
	consumed := make(map[string]struct{})

	for _, key := range a.aliases.Keys() {
		if !strings.Contains(joined, key) {
			continue
		}
		for _, canonical := range a.aliases.Expand(key) {
			terms.add(canonical)
		}
		for _, w := range strings.Fields(key) {
			consumed[w] = struct{}{}
		}
	}

	for _, w := range ws {
		if utf8.RuneCountInString(w) < MinWordLength {
			continue
		}
		if _, ok := consumed[w]; ok {
			continue
		}
		if a.index.Contains(w) {
			terms.add(w)
		}
	}

	for size := 2; size <= 3; size++ {
		for i := 0; i+size <= len(ws); i++ {
			phrase := strings.Join(ws[i:i+size], " ")
			if a.index.Contains(phrase) {
				terms.add(phrase)
			}
		}
	}

	return terms.items
}

// ExtractTopicWords returns the words of text that are neither stop words nor
// part of any alias or geo term.
func (a *Analyzer) ExtractTopicWords(text string, geoTerms []string) []string {
	excluded := make(map[string]struct{})
	for _, term := range geoTerms {
		for _, w := range strings.Fields(strings.ToLower(term)) {
			excluded[w] = struct{}{}
		}
	}

	topics := newOrderedSet()
	for _, w := range words(text) {
		if utf8.RuneCountInString(w) < MinWordLength || stopWords[w] || a.aliases.HasWord(w) {
			continue
		}
		if _, ok := excluded[w]; ok {
			continue
		}
		topics.add(w)
	}
	return topics.items
}
