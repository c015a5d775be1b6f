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


package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/embedding"
	"github.com/poiesic/dirsearch/geo"
	"github.com/poiesic/dirsearch/search"
)

// ProfilesFile is the profile metadata file inside a data directory.
const ProfilesFile = "profiles-meta.json"

// ErrDataDirRequired is returned when a loader is created without a directory.
var ErrDataDirRequired = errors.New("data directory required")

// Loader builds snapshots from one data directory.
type Loader struct {
	dir     string
	dim     int
	aliases *geo.AliasTable
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithDim sets the embedding dimension.
// Default is embedding.Dim.
func WithDim(dim int) Option {
	return func(l *Loader) error {
		if dim < 1 {
			return fmt.Errorf("invalid embedding dimension: %d", dim)
		}
		l.dim = dim
		return nil
	}
}

// WithAliases sets the geo alias table.
// Default is geo.DefaultAliasTable().
func WithAliases(aliases *geo.AliasTable) Option {
	return func(l *Loader) error {
		l.aliases = aliases
		return nil
	}
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, opts ...Option) (*Loader, error) {
	if dir == "" {
		return nil, ErrDataDirRequired
	}
	l := &Loader{
		dir:     dir,
		dim:     embedding.Dim,
		aliases: geo.DefaultAliasTable(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "corpus", "dir", dir)
	return l, nil
}

// Dir returns the data directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Path returns the path of name inside the data directory.
func (l *Loader) Path(name string) string {
	return filepath.Join(l.dir, name)
}

// Load reads the data directory and builds a fresh snapshot.
// Corrupt or inconsistent embedding files are an error. Load holds the shared
// data directory lock while reading, so it waits for a writer replacing the
// embedding files to finish.
func (l *Loader) Load(ctx context.Context) (*search.Snapshot, error) {
	unlock, err := LockShared(ctx, l.dir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	profiles, err := ReadProfiles(l.Path(ProfilesFile))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store, err := l.loadStore()
	if err != nil {
		return nil, err
	}

	snap, err := search.NewSnapshot(profiles, store, l.aliases)
	if err != nil {
		return nil, err
	}
	l.logger.Info("snapshot loaded",
		"profiles", snap.Len(),
		"locations", snap.Locations.Len(),
		"embeddings", store != nil)
	return snap, nil
}

// loadStore loads the quantized embeddings, quantizing raw vectors in memory
// when only those exist. It returns nil when there are no embeddings.
func (l *Loader) loadStore() (*embedding.Store, error) {
	codes := l.Path(embedding.CodesFile)
	scales := l.Path(embedding.ScalesFile)
	if exists(codes) || exists(scales) {
		store, err := embedding.Load(codes, scales, l.dim)
		if err != nil {
			return nil, fmt.Errorf("loading quantized embeddings: %w", err)
		}
		return store, nil
	}

	raw := l.Path(embedding.Float32File)
	if exists(raw) {
		l.logger.Warn("no quantized embeddings, quantizing raw vectors in memory", "file", raw)
		vectors, err := embedding.LoadFloat32(raw, l.dim)
		if err != nil {
			return nil, fmt.Errorf("loading raw embeddings: %w", err)
		}
		return embedding.Quantize(vectors, l.dim)
	}

	l.logger.Warn("no embeddings found, semantic ranking disabled")
	return nil, nil
}

// ReadProfiles reads a JSON array of profiles.
func ReadProfiles(path string) ([]*core.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	var profiles []*core.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return profiles, nil
}

// WriteProfiles writes profiles as a JSON array.
func WriteProfiles(path string, profiles []*core.Profile) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
