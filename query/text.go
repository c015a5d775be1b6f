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

import "strings"

// MinWordLength is the shortest word considered for location lookups and topics.
const MinWordLength = 3

// stopWords holds filler that carries no topic signal in a directory search.
var stopWords = map[string]bool{
	// articles, pronouns, conjunctions
	"the": true, "and": true, "any": true, "all": true, "some": true, "that": true,
	"this": true, "these": true, "those": true, "there": true, "their": true,
	"which": true, "who": true, "what": true, "where": true, "how": true,
	"you": true, "your": true, "our": true, "are": true, "was": true, "can": true,
	"has": true, "have": true, "not": true, "but": true, "also": true,
	// prepositions
	"for": true, "with": true, "from": true, "into": true, "onto": true,
	"near": true, "around": true, "about": true, "within": true, "across": true,
	"based": true, "via": true, "out": true, "off": true, "over": true,
	// search filler
	"show": true, "find": true, "looking": true, "look": true, "search": true,
	"searching": true, "want": true, "need": true, "please": true, "list": true,
	"give": true, "get": true, "tell": true, "know": true, "like": true,
	"would": true, "could": true, "help": true, "anything": true,
	"something": true, "things": true, "local": true,
	// directory filler
	"organisations": true, "organisation": true, "organizations": true,
	"organization": true, "orgs": true, "groups": true, "group": true,
	"projects": true, "project": true, "initiatives": true, "initiative": true,
	"related": true, "relating": true, "involved": true, "working": true,
	"doing": true, "people": true, "places": true, "place": true, "area": true,
}

// normalize lower-cases s and removes apostrophes.
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("'", "", "’", "", "‘", "").Replace(s)
}

// words splits normalized text on whitespace and trims surrounding punctuation.
func words(s string) []string {
	fields := strings.Fields(normalize(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,!?;:\"-()[]{}")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// orderedSet accumulates strings once each, in insertion order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
