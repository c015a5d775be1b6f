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


package reembed

import (
	"fmt"
	"runtime"
	"time"

	"github.com/poiesic/dirsearch/embedding"
)

// Config tunes a reembedding run.
type Config struct {
	// BatchSize is the number of profiles sent to the embedder per request
	BatchSize int `yaml:"batch_size"`

	// ReportInterval is how often to report progress (number of profiles)
	ReportInterval int `yaml:"report_interval"`

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration `yaml:"retry_delay"`

	// Workers is the number of batches embedded concurrently
	Workers int `yaml:"workers"`

	// Dim is the expected vector width
	Dim int `yaml:"dim"`
}

// DefaultConfig returns the default reembedding configuration.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      64,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		Workers:        min(4, runtime.NumCPU()),
		Dim:            embedding.Dim,
	}
}

// WithDefaults returns a copy of c with zero fields set to their defaults.
func (c *Config) WithDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.BatchSize == 0 {
		out.BatchSize = d.BatchSize
	}
	if out.ReportInterval == 0 {
		out.ReportInterval = d.ReportInterval
	}
	if out.MaxRetries == 0 {
		out.MaxRetries = d.MaxRetries
	}
	if out.RetryDelay == 0 {
		out.RetryDelay = d.RetryDelay
	}
	if out.Workers == 0 {
		out.Workers = d.Workers
	}
	if out.Dim == 0 {
		out.Dim = d.Dim
	}
	return &out
}

// Validate checks that every field is usable.
func (c *Config) Validate() error {
	switch {
	case c.BatchSize < 1:
		return fmt.Errorf("batch size must be positive: %d", c.BatchSize)
	case c.ReportInterval < 1:
		return fmt.Errorf("report interval must be positive: %d", c.ReportInterval)
	case c.MaxRetries < 1:
		return fmt.Errorf("%w: %d", ErrInvalidMaxAttempts, c.MaxRetries)
	case c.RetryDelay < 0:
		return fmt.Errorf("retry delay must not be negative: %v", c.RetryDelay)
	case c.Workers < 1:
		return fmt.Errorf("workers must be positive: %d", c.Workers)
	case c.Dim < 1:
		return fmt.Errorf("dim must be positive: %d", c.Dim)
	}
	return nil
}
