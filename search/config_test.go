package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.MinGeoMatches)
	assert.Equal(t, 50, cfg.BrowseLimit)
	assert.Equal(t, 20, cfg.TopK)
	assert.Equal(t, 0.35, cfg.RelevanceThreshold)
	assert.Equal(t, 0.5, cfg.StrongRelevance)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{TopK: 5}.WithDefaults()
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 50, cfg.BrowseLimit)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"min geo matches", func(c *Config) { c.MinGeoMatches = 0 }},
		{"browse limit", func(c *Config) { c.BrowseLimit = -1 }},
		{"top k", func(c *Config) { c.TopK = 0 }},
		{"threshold above one", func(c *Config) { c.RelevanceThreshold = 1.5 }},
		{"strong below threshold", func(c *Config) { c.StrongRelevance = 0.2 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
