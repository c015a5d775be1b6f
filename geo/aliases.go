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


package geo

import (
	"slices"
	"strings"
)

// AliasTable maps a colloquial or ambiguous location name to the canonical
// location tokens it stands for. It must not be mutated after construction.
type AliasTable struct {
	aliases map[string][]string
	keys    []string // longest first
	words   map[string]struct{}
}

// NewAliasTable builds a table from a key -> expansions map. Keys and
// expansions are lower-cased.
func NewAliasTable(m map[string][]string) *AliasTable {
	t := &AliasTable{
		aliases: make(map[string][]string, len(m)),
		keys:    make([]string, 0, len(m)),
		words:   make(map[string]struct{}),
	}
	for k, vs := range m {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		expansions := make([]string, 0, len(vs))
		for _, v := range vs {
			expansions = append(expansions, strings.ToLower(strings.TrimSpace(v)))
		}
		t.aliases[key] = expansions
		t.keys = append(t.keys, key)

		for _, w := range strings.Fields(key) {
			t.words[w] = struct{}{}
		}
		for _, e := range expansions {
			for _, w := range strings.Fields(e) {
				t.words[w] = struct{}{}
			}
		}
	}

	// Multi-word aliases must be tried before their substrings.
	slices.SortFunc(t.keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return t
}

// Keys returns alias keys in descending length order.
func (t *AliasTable) Keys() []string {
	return t.keys
}

// Expand returns the canonical tokens for an alias key.
func (t *AliasTable) Expand(key string) []string {
	return t.aliases[key]
}

// HasWord reports whether w appears in any key or expansion.
func (t *AliasTable) HasWord(w string) bool {
	_, ok := t.words[w]
	return ok
}

// DefaultAliases is the built-in table for the UK-centred directory.
var DefaultAliases = map[string][]string{
	"uk":              {"england", "scotland", "wales", "northern ireland"},
	"united kingdom":  {"england", "scotland", "wales", "northern ireland"},
	"britain":         {"england", "scotland", "wales"},
	"great britain":   {"england", "scotland", "wales"},
	"midlands":        {"west midlands", "east midlands"},
	"east anglia":     {"norfolk", "suffolk", "cambridgeshire", "essex"},
	"south west":      {"south west", "cornwall", "devon", "somerset", "dorset", "bristol"},
	"north east":      {"north east", "northumberland", "tyne and wear", "durham"},
	"north west":      {"north west", "greater manchester", "merseyside", "lancashire", "cumbria"},
	"yorkshire":       {"yorkshire", "north yorkshire", "west yorkshire", "south yorkshire"},
	"highlands":       {"highland", "highlands"},
	"usa":             {"united states"},
	"holland":         {"netherlands"},
	"the netherlands": {"netherlands"},
}

// DefaultAliasTable returns a table built from DefaultAliases.
func DefaultAliasTable() *AliasTable {
	return NewAliasTable(DefaultAliases)
}
