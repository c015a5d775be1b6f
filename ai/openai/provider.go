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
	"log/slog"

	"github.com/poiesic/dirsearch/ai"
)

// Provider implements ai.AIProvider over OpenAI-compatible endpoints.
type Provider struct {
	config       *ai.Config
	embedder     *Embedder
	understander *QueryUnderstander
	logger       *slog.Logger
}

// NewProvider creates a provider with an embedder and a query understander.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	understander, err := newQueryUnderstander(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:       config,
		embedder:     embedder,
		understander: understander,
		logger:       slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the query embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// QueryUnderstander returns the chat model query understander.
func (p *Provider) QueryUnderstander() ai.QueryUnderstander {
	return p.understander
}

// Close is a no-op.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
