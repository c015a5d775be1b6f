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


package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Profile is one directory entry: an organisation or project.
// Profiles are loaded as an immutable snapshot and never mutated in place.
type Profile struct {
	ProfileURL  string   `json:"profile_url"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Locality    string   `json:"locality"`
	Region      string   `json:"region"`
	Country     string   `json:"country"`
}

// ProfileText builds the text representation of a profile that is fed to the
// embedding model. Empty parts are skipped.
func ProfileText(p *Profile) string {
	parts := make([]string, 0, 6)
	for _, s := range []string{p.Name, p.Description, strings.Join(p.Tags, " "), p.Locality, p.Region, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ReportKind identifies what a user reported about a profile.
type ReportKind int

const (
	// ReportKindDeadLink marks a profile whose link no longer resolves.
	ReportKindDeadLink ReportKind = iota + 1
	// ReportKindIrrelevant marks a profile as irrelevant for a specific query.
	ReportKindIrrelevant
)

// String returns the wire name of the kind.
func (k ReportKind) String() string {
	switch k {
	case ReportKindDeadLink:
		return "dead_link"
	case ReportKindIrrelevant:
		return "irrelevant"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseReportKind maps a wire name back to a ReportKind.
func ParseReportKind(s string) (ReportKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dead_link", "dead-link", "deadlink":
		return ReportKindDeadLink, nil
	case "irrelevant":
		return ReportKindIrrelevant, nil
	default:
		return 0, ErrInvalidReportKind
	}
}

// Report is a user-submitted signal about one profile.
type Report struct {
	Id         ID
	ProfileURL string
	Kind       ReportKind
	Query      string // Only meaningful for ReportKindIrrelevant
	CreatedAt  time.Time
}

// ContentKey returns the string a report's ID is derived from.
func (r *Report) ContentKey() string {
	return r.ProfileURL + "|" + r.Kind.String() + "|" + r.Query + "|" + strconv.FormatInt(r.CreatedAt.UnixNano(), 10)
}
