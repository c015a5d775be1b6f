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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "dirsearch",
		Usage: "Search a directory of organisation profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				EnvVars: []string{"DIRSEARCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Data directory holding profiles and embeddings (used without --config)",
				EnvVars: []string{"DIRSEARCH_DATA_DIR"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Rank profiles against a free-text query",
				ArgsUsage: "<query...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "geo",
						Usage: "Place names to filter by, skipping place extraction",
					},
					&cli.StringFlag{
						Name:  "topic",
						Usage: "Topic text used for keyword matching",
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "OpenAI-compatible host for query embedding and understanding",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the response as JSON",
					},
				},
			},
			{
				Name:   "report",
				Usage:  "Report a dead link or an irrelevant result",
				Action: reportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Profile URL being reported",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Report kind (dead_link, irrelevant)",
						Value: "dead_link",
					},
					&cli.StringFlag{
						Name:  "query",
						Usage: "Query the profile was irrelevant for",
					},
				},
			},
			{
				Name:      "unreport",
				Usage:     "Delete reports by id",
				ArgsUsage: "<id...>",
				Action:    unreportCommand,
			},
			{
				Name:   "reports",
				Usage:  "List reports and the resulting penalties",
				Action: reportsCommand,
			},
			{
				Name:   "quantize",
				Usage:  "Quantize raw float32 embeddings into the int8 store",
				Action: quantizeCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "dim",
						Usage: "Embedding dimension",
						Value: 384,
					},
					&cli.DurationFlag{
						Name:  "lock-timeout",
						Usage: "How long to wait for the data directory lock",
						Value: 10 * time.Second,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Embed every profile and rebuild the embedding files",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (overrides config)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name (overrides config)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of profiles to process in each batch",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches embedded concurrently",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed batches",
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
					},
					&cli.DurationFlag{
						Name:  "lock-timeout",
						Usage: "How long to wait for the data directory lock",
						Value: 10 * time.Second,
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
