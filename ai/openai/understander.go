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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/dirsearch/ai"
	"github.com/poiesic/dirsearch/query"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxAttempts is how many times a malformed model response is retried.
const maxAttempts = 3

// QueryUnderstander implements ai.QueryUnderstander with a chat model.
type QueryUnderstander struct {
	client llms.Model
	logger *slog.Logger
}

type hintsResponse struct {
	Geo   geoTerms  `json:"geo"`
	Topic topicText `json:"topic"`
}

func newQueryUnderstander(config *ai.Config) (*QueryUnderstander, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/classification
	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &QueryUnderstander{
		client: client,
		logger: slog.Default().With("component", "openai-understander"),
	}, nil
}

// NewQueryUnderstander creates a query understander for config.ClassifierModel.
func NewQueryUnderstander(config *ai.Config) (ai.QueryUnderstander, error) {
	return newQueryUnderstander(config)
}

// Understand asks the model for the places and topic in text. It returns nil
// hints when the model finds neither, and retries responses that are not
// valid JSON. Transport errors are returned immediately.
func (u *QueryUnderstander) Understand(ctx context.Context, text string) (*query.Hints, error) {
	text = scrubString(text)
	if text == "" {
		return nil, nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Retry in case of malformed JSON
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		response, err := u.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			u.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			u.logger.Debug("no choices returned from model")
			return nil, nil
		}

		hints, err := parseHints(response.Choices[0].Content)
		if err != nil {
			lastErr = err
			u.logger.Warn("error parsing understander response",
				"attempt", attempt+1,
				"response", response.Choices[0].Content,
				"err", err)
			continue
		}

		u.logger.Debug("understood query", "hints", hints)
		return hints, nil
	}

	u.logger.Error("failed to parse understander response after retries", "err", lastErr)
	return nil, lastErr
}

// parseHints decodes a model response into hints. It returns nil hints when
// the response names neither a place nor a topic.
func parseHints(raw string) (*query.Hints, error) {
	// Strip markdown code fences if present
	responseText := strings.TrimSpace(raw)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	// Try to repair common JSON issues
	responseText = repairJSON(responseText)

	var result hintsResponse
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		return nil, err
	}

	hints := &query.Hints{Topic: strings.TrimSpace(string(result.Topic))}
	for _, g := range result.Geo {
		if g = strings.TrimSpace(g); g != "" {
			hints.Geo = append(hints.Geo, g)
		}
	}
	if len(hints.Geo) == 0 && hints.Topic == "" {
		return nil, nil
	}
	return hints, nil
}
