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


// Package ai defines the external AI collaborators of the directory.
//
// Two services sit outside the ranking core:
//
//   - Embedder: turns query text (and, offline, profile text) into vectors
//     from the same model the corpus was embedded with.
//   - QueryUnderstander: asks a language model to split a query into the
//     places it names and the topic it is about.
//
// Both are optional at search time. The directory bounds each call with
// Config.Timeout and treats any failure as "no signal", so a slow or absent
// model degrades ranking instead of failing it.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs (Ollama, vLLM, OpenAI) via langchaingo
//   - ai/mock: test doubles with deterministic defaults and injectable behavior
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and count calls.
//
// # Usage Example
//
//	provider, err := openai.NewProvider(ai.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "solar cambridge")
//	hints, err := provider.QueryUnderstander().Understand(ctx, "solar cambridge")
package ai
