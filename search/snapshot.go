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

	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/embedding"
	"github.com/poiesic/dirsearch/geo"
	"github.com/poiesic/dirsearch/query"
)

// Snapshot is one immutable generation of the corpus: profiles, their
// embeddings, and the location data derived from them. Embedding i belongs
// to profile i.
type Snapshot struct {
	Profiles  []*core.Profile
	Store     *embedding.Store // nil when the corpus has no embeddings
	Locations *geo.LocationIndex
	Aliases   *geo.AliasTable

	analyzer *query.Analyzer
	places   [][3]string // lower-cased locality, region, country
	text     []string    // lower-cased name, description and tags
}

// NewSnapshot validates the profiles and builds the derived indexes. A nil
// alias table selects geo.DefaultAliasTable.
func NewSnapshot(profiles []*core.Profile, store *embedding.Store, aliases *geo.AliasTable) (*Snapshot, error) {
	if err := core.ValidateProfiles(profiles); err != nil {
		return nil, err
	}
	if store != nil && store.Len() != len(profiles) {
		return nil, fmt.Errorf("%w: %d vectors for %d profiles", ErrEmbeddingCountMismatch, store.Len(), len(profiles))
	}
	if aliases == nil {
		aliases = geo.DefaultAliasTable()
	}

	s := &Snapshot{
		Profiles:  profiles,
		Store:     store,
		Locations: geo.BuildIndex(profiles),
		Aliases:   aliases,
		places:    make([][3]string, len(profiles)),
		text:      make([]string, len(profiles)),
	}
	s.analyzer = query.NewAnalyzer(s.Locations, aliases)

	for i, p := range profiles {
		s.places[i] = [3]string{
			strings.ToLower(p.Locality),
			strings.ToLower(p.Region),
			strings.ToLower(p.Country),
		}
		s.text[i] = strings.ToLower(p.Name + " " + p.Description + " " + strings.Join(p.Tags, " "))
	}
	return s, nil
}

// Len returns the number of profiles.
func (s *Snapshot) Len() int {
	return len(s.Profiles)
}

// Analyzer returns the query analyzer bound to this snapshot's locations.
func (s *Snapshot) Analyzer() *query.Analyzer {
	return s.analyzer
}

// inPlaces reports whether any location field of profile i contains any term.
func (s *Snapshot) inPlaces(i int, terms []string) bool {
	for _, field := range s.places[i] {
		if field == "" {
			continue
		}
		for _, term := range terms {
			if strings.Contains(field, term) {
				return true
			}
		}
	}
	return false
}

// similarity returns the semantic score of profile i, 0 without embeddings.
func (s *Snapshot) similarity(i int, vector []float32) float64 {
	if s.Store == nil || vector == nil {
		return 0
	}
	return s.Store.Similarity(i, vector)
}
