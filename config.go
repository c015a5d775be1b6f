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


package dirsearch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/dirsearch/ai"
	"github.com/poiesic/dirsearch/reembed"
	"github.com/poiesic/dirsearch/search"
	"gopkg.in/yaml.v3"
)

// DefaultReportDB is the report database directory, relative to the data directory.
const DefaultReportDB = "reports"

// ErrDataDirRequired is returned when a config names no data directory.
var ErrDataDirRequired = errors.New("data_dir is required")

// Config combines everything needed to open a Directory.
//
//	data_dir: ./data
//	report_db: ./data/reports
//	reload_interval: 10m
//	search:
//	  min_geo_matches: 5
//	  top_k: 20
//	ai:
//	  embedding_host: http://localhost:11434
//	  embedding_model: all-minilm
//	  timeout: 5s
type Config struct {
	DataDir  string `yaml:"data_dir"`
	ReportDB string `yaml:"report_db"`
	// ReloadInterval rebuilds the snapshot from disk periodically. Zero disables it.
	ReloadInterval time.Duration `yaml:"reload_interval"`
	Search         search.Config `yaml:"search"`
	// AI enables the query embedder and understander. Nil disables both.
	AI      *ai.Config      `yaml:"ai"`
	Reembed *reembed.Config `yaml:"reembed"`
}

// DefaultConfig returns a config for dataDir with AI disabled.
func DefaultConfig(dataDir string) *Config {
	return &Config{
		DataDir: dataDir,
		Search:  search.DefaultConfig(),
	}
}

// LoadConfig reads a YAML config file. Unset fields take their defaults and
// relative paths are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.DataDir = resolve(base, cfg.DataDir)
	cfg.ReportDB = resolve(base, cfg.ReportDB)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize fills defaults in place and validates the result.
func (c *Config) normalize() error {
	if c.DataDir == "" {
		return ErrDataDirRequired
	}
	if c.ReportDB == "" {
		c.ReportDB = filepath.Join(c.DataDir, DefaultReportDB)
	}
	if c.ReloadInterval < 0 {
		return fmt.Errorf("reload_interval must not be negative: %v", c.ReloadInterval)
	}
	c.Search = c.Search.WithDefaults()
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if c.AI != nil {
		fillAIDefaults(c.AI)
		if err := c.AI.Validate(); err != nil {
			return err
		}
	}
	c.Reembed = c.Reembed.WithDefaults()
	return c.Reembed.Validate()
}

// fillAIDefaults sets empty AI fields to their defaults.
func fillAIDefaults(cfg *ai.Config) {
	d := ai.DefaultConfig()
	if cfg.EmbeddingHost == "" {
		cfg.EmbeddingHost = d.EmbeddingHost
	}
	if cfg.ClassifierHost == "" {
		cfg.ClassifierHost = cfg.EmbeddingHost
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = d.EmbeddingModel
	}
	if cfg.ClassifierModel == "" {
		cfg.ClassifierModel = d.ClassifierModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = d.Timeout
	}
	cfg.Normalize()
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
