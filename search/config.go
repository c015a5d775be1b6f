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
	"runtime"
)

// Config holds the ranking thresholds.
type Config struct {
	// MinGeoMatches is the fewest geo-filtered profiles that count as a usable
	// location match.
	MinGeoMatches int `yaml:"min_geo_matches"`
	// BrowseLimit caps geo browse responses.
	BrowseLimit int `yaml:"browse_limit"`
	// TopK is how many scored profiles are considered before the relevance gate.
	TopK int `yaml:"top_k"`
	// RelevanceThreshold is the minimum raw relevance of a ranked result.
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	// StrongRelevance lets a topic-only result through without a keyword hit.
	StrongRelevance float64 `yaml:"strong_relevance"`
	// Workers is the size of the scoring pool.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinGeoMatches:      5,
		BrowseLimit:        50,
		TopK:               20,
		RelevanceThreshold: 0.35,
		StrongRelevance:    0.5,
		Workers:            runtime.NumCPU(),
	}
}

// WithDefaults returns c with every zero field replaced by its default.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.MinGeoMatches == 0 {
		c.MinGeoMatches = d.MinGeoMatches
	}
	if c.BrowseLimit == 0 {
		c.BrowseLimit = d.BrowseLimit
	}
	if c.TopK == 0 {
		c.TopK = d.TopK
	}
	if c.RelevanceThreshold == 0 {
		c.RelevanceThreshold = d.RelevanceThreshold
	}
	if c.StrongRelevance == 0 {
		c.StrongRelevance = d.StrongRelevance
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	return c
}

// Validate checks that every threshold is usable.
func (c Config) Validate() error {
	switch {
	case c.MinGeoMatches < 1:
		return fmt.Errorf("%w: min_geo_matches must be at least 1, got %d", ErrInvalidConfig, c.MinGeoMatches)
	case c.BrowseLimit < 1:
		return fmt.Errorf("%w: browse_limit must be at least 1, got %d", ErrInvalidConfig, c.BrowseLimit)
	case c.TopK < 1:
		return fmt.Errorf("%w: top_k must be at least 1, got %d", ErrInvalidConfig, c.TopK)
	case c.RelevanceThreshold < 0 || c.RelevanceThreshold > 1:
		return fmt.Errorf("%w: relevance_threshold must be in [0, 1], got %v", ErrInvalidConfig, c.RelevanceThreshold)
	case c.StrongRelevance < c.RelevanceThreshold || c.StrongRelevance > 1:
		return fmt.Errorf("%w: strong_relevance must be in [relevance_threshold, 1], got %v", ErrInvalidConfig, c.StrongRelevance)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
