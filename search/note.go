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
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleList renders terms for display: "tower hamlets" becomes "Tower Hamlets".
func titleList(terms []string) string {
	// Casers are stateful; one per call.
	caser := cases.Title(language.BritishEnglish)
	titled := make([]string, len(terms))
	for i, t := range terms {
		titled[i] = caser.String(t)
	}
	return strings.Join(titled, ", ")
}

func noGeoMatchNote(geoTerms []string) string {
	return "No organisations found in " + titleList(geoTerms)
}

func fallbackNote(topicWords, geoTerms []string) string {
	return fmt.Sprintf("No organisations matched %q in %s, showing all organisations there",
		strings.Join(topicWords, " "), titleList(geoTerms))
}
