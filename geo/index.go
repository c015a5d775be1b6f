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
	"strings"
	"unicode/utf8"

	"github.com/poiesic/dirsearch/core"
)

// MinTokenLength is the shortest location token kept in the index.
const MinTokenLength = 2

// LocationIndex is a deduplicated set of place-name tokens.
type LocationIndex struct {
	tokens map[string]struct{}
}

// BuildIndex scans every profile once and collects its location tokens.
// Building from the same profiles always yields the same index.
func BuildIndex(profiles []*core.Profile) *LocationIndex {
	idx := &LocationIndex{tokens: make(map[string]struct{})}
	for _, p := range profiles {
		if p == nil {
			continue
		}
		for _, field := range []string{p.Locality, p.Region, p.Country} {
			for _, tok := range SplitLocation(field) {
				idx.tokens[tok] = struct{}{}
			}
		}
	}
	return idx
}

// SplitLocation normalizes a composite location field into tokens.
// HTML-escaped ampersands are unescaped, the field is split on ':', '|' and
// '&', and each segment is lower-cased and trimmed. Segments shorter than
// MinTokenLength are dropped.
func SplitLocation(field string) []string {
	if field == "" {
		return nil
	}
	field = strings.ReplaceAll(field, "&amp;", "&")
	segments := strings.FieldsFunc(field, func(r rune) bool {
		return r == ':' || r == '|' || r == '&'
	})

	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.ToLower(strings.TrimSpace(seg))
		if utf8.RuneCountInString(seg) >= MinTokenLength {
			out = append(out, seg)
		}
	}
	return out
}

// Contains reports whether token is a known location.
func (idx *LocationIndex) Contains(token string) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.tokens[token]
	return ok
}

// Len returns the number of distinct tokens.
func (idx *LocationIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.tokens)
}
