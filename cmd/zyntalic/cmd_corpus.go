// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"github.com/zyntalic/zyntalic/cmd/zyntalic/config"
	"github.com/zyntalic/zyntalic/pkg/logging"
	"github.com/zyntalic/zyntalic/pkg/ux"
	"github.com/zyntalic/zyntalic/services/corpus"
	"github.com/zyntalic/zyntalic/services/language/anchors"
)

// newCorpusStore connects to Weaviate when corpus.weaviate_url is
// configured, otherwise falls back to a process-local store.
func newCorpusStore(ctx context.Context, logger *logging.Logger) (corpus.Store, error) {
	weaviateURL := config.Global.Corpus.WeaviateURL
	if weaviateURL == "" {
		return corpus.NewMemoryStore(), nil
	}

	parsed, err := url.Parse(strings.Trim(weaviateURL, "\"' "))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid weaviate URL: %s", weaviateURL)
	}
	client, err := weaviate.NewClient(weaviate.Config{Host: parsed.Host, Scheme: parsed.Scheme})
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	store, err := corpus.NewWeaviateStore(ctx, client, logger.Slog())
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// newEncoder builds the same encoder the translator would use, without
// the rest of the pipeline. The second return value destroys the
// sealed API key.
func newEncoder(ctx context.Context, logger *logging.Logger) (anchors.Encoder, func()) {
	serviceURL := encoderURL
	if serviceURL == "" {
		serviceURL = config.Global.Server.EncoderURL
	}
	apiKey, destroyKey := revealAPIKey()
	return anchors.NewEncoder(ctx, serviceURL, apiKey,
		config.Global.Server.OpenAIBaseURL, logger.Slog()), destroyKey
}

// runCorpusIngest chunks, embeds and stores every text file under the
// given paths.
func runCorpusIngest(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if len(args) == 0 {
		ux.Error("Pass at least one file or directory to ingest")
		os.Exit(1)
	}
	if config.Global.Corpus.WeaviateURL == "" {
		ux.Warning("No weaviate_url configured; ingesting into a process-local store that is discarded on exit")
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(config.Global.Logging.Level),
		Service: "cli",
	})
	defer logger.Close()

	store, err := newCorpusStore(ctx, logger)
	if err != nil {
		ux.Error("Failed to open the corpus store: " + err.Error())
		os.Exit(1)
	}
	defer store.Close()

	encoder, destroyKey := newEncoder(ctx, logger)
	defer destroyKey()

	ingestor, err := corpus.NewIngestor(encoder, store, logger.Slog())
	if err != nil {
		ux.Error("Failed to build the ingestor: " + err.Error())
		os.Exit(1)
	}
	if size := config.Global.Corpus.ChunkSize; size > 0 {
		ingestor.WithSplitter(corpus.NewSplitter(size, config.Global.Corpus.ChunkOverlap))
	}

	files, err := collectTextFiles(args)
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	if len(files) == 0 {
		ux.Error("No .txt or .md files found under the given paths")
		os.Exit(1)
	}

	totalChunks, totalStored := 0, 0
	for _, path := range files {
		document := corpusDoc
		if document == "" {
			document = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		err := ux.WithSpinner(fmt.Sprintf("Ingesting %s", document), func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			result, err := ingestor.Ingest(ctx, document, corpusAnchor, string(content))
			if err != nil {
				return err
			}
			totalChunks += result.Chunks
			totalStored += result.Stored
			return nil
		})
		if err != nil {
			os.Exit(1)
		}
	}
	ux.Success(fmt.Sprintf("Ingested %d files: %d chunks, %d stored", len(files), totalChunks, totalStored))
}

// runCorpusSearch embeds the query and returns the nearest chunks.
func runCorpusSearch(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		ux.Error("Pass a query to search for")
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(config.Global.Logging.Level),
		Service: "cli",
	})
	defer logger.Close()

	store, err := newCorpusStore(ctx, logger)
	if err != nil {
		ux.Error("Failed to open the corpus store: " + err.Error())
		os.Exit(1)
	}
	defer store.Close()

	encoder, destroyKey := newEncoder(ctx, logger)
	defer destroyKey()

	vec, err := encoder.Embed(ctx, query)
	if err != nil {
		ux.Error("Failed to embed the query: " + err.Error())
		os.Exit(1)
	}
	chunks, err := store.Search(ctx, vec, searchLimit)
	if err != nil {
		ux.Error("Search failed: " + err.Error())
		os.Exit(1)
	}

	if ux.GetMode() == ux.ModeMachine {
		enc := json.NewEncoder(os.Stdout)
		for _, chunk := range chunks {
			_ = enc.Encode(chunk)
		}
		return
	}
	if len(chunks) == 0 {
		ux.Muted("No matching chunks")
		return
	}
	for _, chunk := range chunks {
		ux.KeyValue(chunk.Document, snippet(chunk.Text, 96))
	}
}

// collectTextFiles walks the given paths and returns every .txt and
// .md file, in walk order.
func collectTextFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".txt", ".md":
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return files, nil
}

func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "…"
}
