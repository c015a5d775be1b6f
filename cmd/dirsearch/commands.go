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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/poiesic/dirsearch"
	"github.com/poiesic/dirsearch/ai"
	"github.com/poiesic/dirsearch/ai/openai"
	"github.com/poiesic/dirsearch/core"
	"github.com/poiesic/dirsearch/corpus"
	"github.com/poiesic/dirsearch/embedding"
	"github.com/poiesic/dirsearch/feedback"
	"github.com/poiesic/dirsearch/query"
	"github.com/poiesic/dirsearch/reembed"
	"github.com/poiesic/dirsearch/search"
	"github.com/urfave/cli/v2"
)

// newEmbedder builds the embedder used by reembed.
var newEmbedder = openai.NewEmbedder

var errNoDataDir = errors.New("either --config or --data-dir is required")

// loadConfig reads --config when given, otherwise builds a default config
// for --data-dir.
func loadConfig(c *cli.Context) (*dirsearch.Config, error) {
	if path := c.String("config"); path != "" {
		return dirsearch.LoadConfig(path)
	}
	dir := c.String("data-dir")
	if dir == "" {
		return nil, errNoDataDir
	}
	return dirsearch.DefaultConfig(dir), nil
}

func openDirectory(cfg *dirsearch.Config) (*dirsearch.Directory, error) {
	d, err := dirsearch.Open(cfg, dirsearch.WithReloadInterval(0))
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	return d, nil
}

func searchCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if host := c.String("ai-host"); host != "" {
		if cfg.AI == nil {
			cfg.AI = ai.DefaultConfig()
		}
		ai.WithHost(host)(cfg.AI)
	}

	d, err := openDirectory(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	var hints *query.Hints
	if geo, topic := c.StringSlice("geo"), c.String("topic"); len(geo) > 0 || topic != "" {
		hints = &query.Hints{Geo: geo, Topic: topic}
	}

	resp, err := d.SearchWithHints(c.Context, text, hints)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResponse(c.App.Writer, resp)
	return nil
}

func printResponse(w io.Writer, resp *search.Response) {
	fmt.Fprintf(w, "%s: %d results", resp.Classification, len(resp.Results))
	if resp.TotalMatchCount > 0 {
		fmt.Fprintf(w, " of %d matches", resp.TotalMatchCount)
	}
	fmt.Fprintln(w)
	if len(resp.GeoTerms) > 0 {
		fmt.Fprintf(w, "Places: %s\n", strings.Join(resp.GeoTerms, ", "))
	}
	if len(resp.TopicWords) > 0 {
		fmt.Fprintf(w, "Topic: %s\n", strings.Join(resp.TopicWords, " "))
	}
	if resp.Note != "" {
		fmt.Fprintln(w, resp.Note)
	}
	if len(resp.Results) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range resp.Results {
		relevance := "-"
		if r.Relevance != nil {
			relevance = fmt.Sprintf("%d%%", *r.Relevance)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.Rank+1, relevance, r.Profile.Name, r.Profile.Locality, r.Profile.ProfileURL)
	}
	tw.Flush()
}

func reportCommand(c *cli.Context) error {
	kind, err := core.ParseReportKind(c.String("kind"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	d, err := openDirectory(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	added, err := d.Report(c.Context, &core.Report{
		ProfileURL: c.String("url"),
		Kind:       kind,
		Query:      c.String("query"),
	})
	if err != nil {
		return fmt.Errorf("failed to record report: %w", err)
	}

	url := added[0].ProfileURL
	fmt.Fprintf(c.App.Writer, "Reported %d (%s %s), penalty now %.3f\n",
		added[0].Id, kind, url, d.Penalties().Multiplier(url))
	return nil
}

func unreportCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one report id is required")
	}
	ids := make([]core.ID, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid report id %q: %w", arg, err)
		}
		ids = append(ids, core.ID(id))
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	d, err := openDirectory(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Unreport(c.Context, ids...); err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Deleted %d reports\n", len(ids))
	return nil
}

func reportsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	d, err := openDirectory(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	reports, err := d.Reports(c.Context)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(reports) == 0 {
		fmt.Fprintln(w, "No reports")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tPROFILE\tQUERY\tCREATED")
	for _, r := range reports {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.Id, r.Kind, r.ProfileURL, r.Query, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	tw.Flush()

	printPenalties(w, d.Penalties())
	return nil
}

func printPenalties(w io.Writer, table feedback.Table) {
	urls := make([]string, 0, len(table))
	for url := range table {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFILE\tPENALTY")
	for _, url := range urls {
		fmt.Fprintf(tw, "%s\t%.3f\n", url, table[url])
	}
	tw.Flush()
}

func quantizeCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dir := cfg.DataDir
	dim := c.Int("dim")

	unlock, err := lockDataDir(dir, c.Duration("lock-timeout"))
	if err != nil {
		return err
	}
	defer unlock()

	vectors, err := embedding.LoadFloat32(filepath.Join(dir, embedding.Float32File), dim)
	if err != nil {
		return err
	}
	store, err := embedding.Quantize(vectors, dim)
	if err != nil {
		return err
	}
	meanErr, maxErr, err := store.Fidelity(vectors)
	if err != nil {
		return err
	}

	if err := writeStore(dir, store, nil); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Quantized %d vectors (dim %d): mean cosine error %.6f, max %.6f\n",
		store.Len(), dim, meanErr, maxErr)
	return nil
}

func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dir := cfg.DataDir

	aiConfig := cfg.AI
	if aiConfig == nil {
		aiConfig = ai.DefaultConfig()
	}
	if host := c.String("embedding-host"); host != "" {
		ai.WithEmbeddingHost(host)(aiConfig)
	}
	if model := c.String("embedding-model"); model != "" {
		ai.WithEmbeddingModel(model)(aiConfig)
	}
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := newEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := cfg.Reembed.WithDefaults()
	if c.IsSet("batch-size") {
		reembedConfig.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("workers") {
		reembedConfig.Workers = c.Int("workers")
	}
	if c.IsSet("max-retries") {
		reembedConfig.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		reembedConfig.RetryDelay = c.Duration("retry-delay")
	}

	unlock, err := lockDataDir(dir, c.Duration("lock-timeout"))
	if err != nil {
		return err
	}
	defer unlock()

	profiles, err := corpus.ReadProfiles(filepath.Join(dir, corpus.ProfilesFile))
	if err != nil {
		return err
	}

	reembedder, err := reembed.NewReembedder(embedder, reembedConfig, c.App.ErrWriter)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Data directory: %s\n", dir)
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", aiConfig.EmbeddingHost)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", aiConfig.EmbeddingModel)
	fmt.Fprintln(c.App.ErrWriter)

	result, err := reembedder.Run(c.Context, profiles)
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	if err := writeStore(dir, result.Store, result.Vectors); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %d embeddings: mean cosine error %.6f, max %.6f\n",
		result.Store.Len(), result.MeanError, result.MaxError)
	return nil
}

// writeStore replaces the quantized files, and the raw vectors when given,
// through temp files so readers never see a partial write.
func writeStore(dir string, store *embedding.Store, raw [][]float32) error {
	codes := filepath.Join(dir, embedding.CodesFile)
	scales := filepath.Join(dir, embedding.ScalesFile)
	renames := map[string]string{
		tempName(codes):  codes,
		tempName(scales): scales,
	}
	if err := store.Write(tempName(codes), tempName(scales)); err != nil {
		return err
	}
	if raw != nil {
		float32s := filepath.Join(dir, embedding.Float32File)
		renames[tempName(float32s)] = float32s
		if err := embedding.WriteFloat32(tempName(float32s), raw); err != nil {
			return err
		}
	}
	return replaceFiles(renames)
}
