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

import "fmt"

const hintsResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "geo": {
      "type": "array",
      "items": {"type": "string"}
    },
    "topic": {
      "type": "string"
    }
  },
  "required": ["geo", "topic"],
  "additionalProperties": false
}`

const understandingPromptTemplate = `You help people search a directory of community organisations and projects.
Split the search request into the places it names and the subject it is about, and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "geo" lists every town, city, borough, county, region or country named in the request, spelled as a place name.
- Expand colloquial regions into the places they cover when you are sure (e.g. "the UK" is England, Scotland, Wales, Northern Ireland).
- Do not guess places that are not named. If there are none, return "geo": [].
- "topic" is the subject of the request in a few words, without places and without filler such as "show me" or "organisations".
- If there is no subject, return "topic": "".
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "solar energy co-ops in Cambridge"
Output:
{"geo": ["Cambridge"], "topic": "solar energy co-ops"}

Example (informal, no punctuation):
Input: "anything about food waste round tower hamlets"
Output:
{"geo": ["Tower Hamlets"], "topic": "food waste"}

Example (region):
Input: "repair cafes in the uk"
Output:
{"geo": ["England", "Scotland", "Wales", "Northern Ireland"], "topic": "repair cafes"}

Example (place only):
Input: "what is there in leeds"
Output:
{"geo": ["Leeds"], "topic": ""}

Example (topic only):
Input: "community gardens"
Output:
{"geo": [], "topic": "community gardens"}`

// buildSystemPrompt creates the system prompt with the response schema embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(understandingPromptTemplate, hintsResponseSchema)
}
