package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordBoost(t *testing.T) {
	text := "cambridge solar co-op community owned solar panels energy"

	assert.Equal(t, 0.0, KeywordBoost(text, nil))
	assert.Equal(t, 1.0, KeywordBoost(text, []string{"solar"}))
	assert.Equal(t, 0.5, KeywordBoost(text, []string{"solar", "bees"}))
	// Substring semantics
	assert.Equal(t, 1.0, KeywordBoost(text, []string{"pan"}))
}

func TestScore(t *testing.T) {
	assert.InDelta(t, 0.6*1*1.5*0.9, Score(0.6, 1, 0.5, 0.9), 1e-12)
	assert.Equal(t, 0.0, Score(0, 1, 1, 1))
}

func TestRawRelevance(t *testing.T) {
	assert.Equal(t, 1.0, RawRelevance(0.8, 1))
	assert.InDelta(t, 0.6, RawRelevance(0.4, 0.5), 1e-12)
}

func TestRelevancePercent(t *testing.T) {
	assert.Nil(t, relevancePercent(scored{semantic: 0, raw: 0}))

	p := relevancePercent(scored{semantic: 0.4, raw: 0.456})
	if assert.NotNil(t, p) {
		assert.Equal(t, 46, *p)
	}
}

func TestNotes(t *testing.T) {
	assert.Equal(t, "No organisations found in Tower Hamlets, Cambridge", noGeoMatchNote([]string{"tower hamlets", "cambridge"}))
	assert.Equal(t,
		`No organisations matched "solar panels" in Cambridge, showing all organisations there`,
		fallbackNote([]string{"solar", "panels"}, []string{"cambridge"}))
}
