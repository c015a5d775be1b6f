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
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// A hints key with either quote missing, or space before the colon.
	hintsKey = regexp.MustCompile(`([{,]\s*)"?(geo|topic)"?\s*:`)
	// A comma directly before a closing bracket or brace.
	trailingComma = regexp.MustCompile(`,\s*([\]}])`)
)

// repairJSON fixes the formatting slips models make when writing the hints
// object: half-quoted or unquoted keys and trailing commas.
func repairJSON(s string) string {
	s = hintsKey.ReplaceAllString(s, `$1"$2":`)
	return trailingComma.ReplaceAllString(s, `$1`)
}

// geoTerms decodes the geo field. Models sometimes return a single string,
// possibly comma separated, instead of a list.
type geoTerms []string

func (g *geoTerms) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*g = list
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("geo must be a string or a list of strings: %w", err)
	}
	*g = strings.Split(one, ",")
	return nil
}

// topicText decodes the topic field, joining a list of words when the model
// returns one.
type topicText string

func (t *topicText) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = topicText(one)
		return nil
	}
	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return fmt.Errorf("topic must be a string or a list of strings: %w", err)
	}
	*t = topicText(strings.Join(words, " "))
	return nil
}
