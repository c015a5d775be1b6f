package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHints(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantGeo   []string
		wantTopic string
		wantNil   bool
		wantErr   bool
	}{
		{
			name:      "plain object",
			raw:       `{"geo": ["Cambridge"], "topic": "solar energy"}`,
			wantGeo:   []string{"Cambridge"},
			wantTopic: "solar energy",
		},
		{
			name:      "code fenced",
			raw:       "```json\n{\"geo\": [\"Leeds\"], \"topic\": \"\"}\n```",
			wantGeo:   []string{"Leeds"},
			wantTopic: "",
		},
		{
			name:      "missing opening quote repaired",
			raw:       `{geo": [], "topic": "community gardens"}`,
			wantTopic: "community gardens",
		},
		{
			name:      "unquoted keys and trailing commas",
			raw:       `{geo: ["York",], topic : "bike repair",}`,
			wantGeo:   []string{"York"},
			wantTopic: "bike repair",
		},
		{
			name:      "geo as a single string",
			raw:       `{"geo": "Leeds", "topic": "food bank"}`,
			wantGeo:   []string{"Leeds"},
			wantTopic: "food bank",
		},
		{
			name:    "geo as a comma separated string",
			raw:     `{"geo": "Hackney, Islington", "topic": ""}`,
			wantGeo: []string{"Hackney", "Islington"},
		},
		{
			name:      "topic as a list",
			raw:       `{"geo": null, "topic": ["community", "energy"]}`,
			wantTopic: "community energy",
		},
		{
			name:    "geo of the wrong type",
			raw:     `{"geo": 12, "topic": "x"}`,
			wantErr: true,
		},
		{
			name:      "blank entries dropped",
			raw:       `{"geo": ["  ", " Tower Hamlets "], "topic": "  food waste "}`,
			wantGeo:   []string{"Tower Hamlets"},
			wantTopic: "food waste",
		},
		{
			name:    "empty hints",
			raw:     `{"geo": [], "topic": ""}`,
			wantNil: true,
		},
		{
			name:    "not json",
			raw:     `I could not work that out`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints, err := parseHints(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, hints)
				return
			}
			require.NotNil(t, hints)
			assert.Equal(t, tt.wantGeo, hints.Geo)
			assert.Equal(t, tt.wantTopic, hints.Topic)
		})
	}
}

func TestScrubString(t *testing.T) {
	assert.Equal(t, "repair cafes in Stoke-on-Trent", scrubString("  repair cafes, in Stoke-on-Trent! "))
	assert.Equal(t, "King's Lynn", scrubString("(King's Lynn)"))
	assert.Equal(t, "", scrubString("?!"))
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"geo": [], topic": "x"}`, `{"geo": [], "topic": "x"}`},
		{`{"geo: ["Bath"]}`, `{"geo": ["Bath"]}`},
		{`{ geo : [], "topic" : "x" }`, `{ "geo": [], "topic": "x" }`},
		{`{"geo": ["Bath", "Wells",],}`, `{"geo": ["Bath", "Wells"]}`},
		{`{"geo": []}`, `{"geo": []}`},
		// Other keys and string contents are left alone
		{`{"place": "geo: x"}`, `{"place": "geo: x"}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, repairJSON(tt.in), tt.in)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt()
	assert.Contains(t, prompt, `"geo"`)
	assert.Contains(t, prompt, `"topic"`)
	assert.NotContains(t, prompt, "%s")
}
