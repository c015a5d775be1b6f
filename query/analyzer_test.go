package query

import (
	"testing"

	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/geo"
	"github.com/stretchr/testify/assert"
)

func testAnalyzer() *Analyzer {
	profiles := []*core.Profile{
		{ProfileURL: "a", Locality: "Cambridge", Region: "Cambridgeshire", Country: "England"},
		{ProfileURL: "b", Locality: "Tower Hamlets:London", Country: "England"},
		{ProfileURL: "c", Locality: "Anglia", Region: "Norfolk", Country: "England"},
		{ProfileURL: "d", Locality: "Cardiff", Country: "Wales"},
	}
	return NewAnalyzer(geo.BuildIndex(profiles), geo.DefaultAliasTable())
}

func TestExtractGeoTerms(t *testing.T) {
	a := testAnalyzer()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "single place", query: "solar cambridge", want: []string{"cambridge"}},
		{name: "alias expansion", query: "organisations in the UK", want: []string{"england", "scotland", "wales", "northern ireland"}},
		{name: "multi-word place", query: "community gardens in Tower Hamlets", want: []string{"tower hamlets"}},
		{name: "alias words are consumed", query: "repair cafe east anglia", want: []string{"norfolk", "suffolk", "cambridgeshire", "essex"}},
		{name: "punctuation and apostrophes", query: "Women's groups in Cambridge?", want: []string{"cambridge"}},
		{name: "alias and place deduplicated", query: "wales or cardiff in the uk", want: []string{"england", "scotland", "wales", "northern ireland", "cardiff"}},
		{name: "alias substring over-match kept", query: "usage of solar", want: []string{"united states"}},
		{name: "no place", query: "beekeeping", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.ExtractGeoTerms(tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractGeoTerms_CountsCharacters(t *testing.T) {
	profiles := []*core.Profile{
		{ProfileURL: "a", Locality: "Åre", Country: "Sweden"},
		{ProfileURL: "b", Locality: "Ré", Country: "France"},
	}
	a := NewAnalyzer(geo.BuildIndex(profiles), geo.DefaultAliasTable())

	// "ré" is three bytes but two characters, below the minimum word length
	assert.Equal(t, []string{"åre"}, a.ExtractGeoTerms("bikes in åre or ré"))
}

func TestExtractTopicWords(t *testing.T) {
	a := testAnalyzer()

	tests := []struct {
		name     string
		query    string
		geoTerms []string
		want     []string
	}{
		{name: "geo term removed", query: "solar cambridge", geoTerms: []string{"cambridge"}, want: []string{"solar"}},
		{name: "stop words removed", query: "show me organisations related to food in the UK", want: []string{"food"}},
		{name: "alias words removed", query: "repair cafe east anglia", want: []string{"repair", "cafe"}},
		{name: "multi-word geo term words removed", query: "community gardens tower hamlets", geoTerms: []string{"tower hamlets"}, want: []string{"community", "gardens"}},
		{name: "short words dropped", query: "an ev co-op", want: []string{"co-op"}},
		{name: "accented short words dropped", query: "café yè", want: []string{"café"}},
		{name: "duplicates collapsed", query: "solar SOLAR solar!", want: []string{"solar"}},
		{name: "nothing left", query: "find things near me", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.ExtractTopicWords(tt.query, tt.geoTerms)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyze(t *testing.T) {
	a := testAnalyzer()

	t.Run("no hints", func(t *testing.T) {
		got := a.Analyze("solar cambridge", nil)
		assert.Equal(t, []string{"cambridge"}, got.GeoTerms)
		assert.Equal(t, []string{"solar"}, got.TopicWords)
		assert.True(t, got.HasGeo())
		assert.True(t, got.HasTopic())
	})

	t.Run("hints bypass extraction", func(t *testing.T) {
		got := a.Analyze("anything at all", &Hints{Geo: []string{" Cambridge ", "cambridge", "Ely"}, Topic: "solar energy"})
		assert.Equal(t, []string{"cambridge", "ely"}, got.GeoTerms)
		assert.Equal(t, []string{"solar", "energy"}, got.TopicWords)
	})

	t.Run("topic hint only", func(t *testing.T) {
		got := a.Analyze("solar panels in cambridge", &Hints{Topic: "solar"})
		assert.Equal(t, []string{"cambridge"}, got.GeoTerms)
		assert.Equal(t, []string{"solar"}, got.TopicWords)
	})

	t.Run("geo hint only", func(t *testing.T) {
		got := a.Analyze("solar near Ely", &Hints{Geo: []string{"Ely"}})
		assert.Equal(t, []string{"ely"}, got.GeoTerms)
		assert.Equal(t, []string{"solar"}, got.TopicWords)
	})

	t.Run("empty", func(t *testing.T) {
		got := a.Analyze("", nil)
		assert.False(t, got.HasGeo())
		assert.False(t, got.HasTopic())
	})
}

func TestNewAnalyzer_NilCollaborators(t *testing.T) {
	a := NewAnalyzer(nil, nil)
	got := a.Analyze("solar cambridge", nil)
	assert.Empty(t, got.GeoTerms)
	assert.Equal(t, []string{"solar", "cambridge"}, got.TopicWords)
}
