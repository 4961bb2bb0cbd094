// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// ChunkClass is the Weaviate class holding corpus chunks. Vectors come
// from our own encoder, so the class runs with vectorization disabled.
const ChunkClass = "ZyntalicChunk"

// ErrWeaviateUnavailable is returned when the Weaviate instance does
// not answer its readiness probe.
var ErrWeaviateUnavailable = errors.New("corpus: weaviate is not available")

// WeaviateStore persists chunks in a Weaviate instance.
//
// # Thread Safety
//
// Safe for concurrent use; the underlying client is.
type WeaviateStore struct {
	client *weaviate.Client
	logger *slog.Logger
}

// NewWeaviateStore wraps a connected client and verifies readiness.
// With a non-ready instance the store is still returned alongside
// ErrWeaviateUnavailable, letting callers choose degraded startup.
func NewWeaviateStore(ctx context.Context, client *weaviate.Client, logger *slog.Logger) (*WeaviateStore, error) {
	if client == nil {
		return nil, errors.New("corpus: weaviate client must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &WeaviateStore{client: client, logger: logger}

	ready, err := client.Misc().ReadyChecker().Do(ctx)
	if err != nil || !ready {
		logger.Warn("weaviate not ready", "error", err)
		return s, ErrWeaviateUnavailable
	}
	return s, nil
}

// EnsureSchema creates the chunk class if it does not exist.
func (s *WeaviateStore) EnsureSchema(ctx context.Context) error {
	exists, err := s.client.Schema().ClassExistenceChecker().WithClassName(ChunkClass).Do(ctx)
	if err != nil {
		return fmt.Errorf("check class %s: %w", ChunkClass, err)
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class:       ChunkClass,
		Description: "Embedded chunk of an anchor source text",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "document", DataType: []string{"text"}},
			{Name: "anchor", DataType: []string{"text"}},
			{Name: "chunk_index", DataType: []string{"int"}},
			{Name: "ingested_at", DataType: []string{"int"}},
		},
	}
	if err := s.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("create class %s: %w", ChunkClass, err)
	}
	s.logger.Info("created weaviate class", "class", ChunkClass)
	return nil
}

// PutChunks imports chunks in one batch, counting per-item successes
// the way the batch API reports them.
func (s *WeaviateStore) PutChunks(ctx context.Context, chunks []Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	objects := make([]*models.Object, len(chunks))
	now := time.Now().UnixMilli()
	for i, c := range chunks {
		objects[i] = &models.Object{
			Class:  ChunkClass,
			ID:     c.ID,
			Vector: c.Vector,
			Properties: map[string]interface{}{
				"content":     c.Text,
				"document":    c.Document,
				"anchor":      c.Anchor,
				"chunk_index": c.Index,
				"ingested_at": now,
			},
		}
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("batch import: %w", err)
	}

	stored := 0
	for _, item := range resp {
		if item.Result != nil && item.Result.Status != nil && *item.Result.Status == "SUCCESS" {
			stored++
			continue
		}
		if item.Result != nil && item.Result.Errors != nil {
			for _, e := range item.Result.Errors.Error {
				s.logger.Warn("weaviate batch item failed", "error", e.Message)
			}
		}
	}
	return stored, nil
}

// Search runs a near-vector query over the chunk class.
func (s *WeaviateStore) Search(ctx context.Context, vector []float32, limit int) ([]Chunk, error) {
	if limit <= 0 {
		limit = 10
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "document"},
		{Name: "anchor"},
		{Name: "chunk_index"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "id"}}},
	}

	result, err := s.client.GraphQL().Get().
		WithClassName(ChunkClass).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("near-vector search: %w", err)
	}

	return parseChunkResults(result.Data)
}

// Documents aggregates distinct document names.
func (s *WeaviateStore) Documents(ctx context.Context) ([]string, error) {
	agg, err := s.client.GraphQL().Aggregate().
		WithClassName(ChunkClass).
		WithGroupBy("document").
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate documents: %w", err)
	}

	var names []string
	aggMap, _ := agg.Data["Aggregate"].(map[string]interface{})
	groups, _ := aggMap[ChunkClass].([]interface{})
	for _, g := range groups {
		gm, ok := g.(map[string]interface{})
		if !ok {
			continue
		}
		grouped, ok := gm["groupedBy"].(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := grouped["value"].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Close is a no-op; the client holds no persistent connection.
func (s *WeaviateStore) Close() error { return nil }

// parseChunkResults walks the untyped GraphQL Get payload into chunks.
func parseChunkResults(data map[string]models.JSONObject) ([]Chunk, error) {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	rows, ok := get[ChunkClass].([]interface{})
	if !ok {
		return nil, nil
	}

	chunks := make([]Chunk, 0, len(rows))
	for _, row := range rows {
		m, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		var c Chunk
		if v, ok := m["content"].(string); ok {
			c.Text = v
		}
		if v, ok := m["document"].(string); ok {
			c.Document = v
		}
		if v, ok := m["anchor"].(string); ok {
			c.Anchor = v
		}
		if v, ok := m["chunk_index"].(float64); ok {
			c.Index = int(v)
		}
		if add, ok := m["_additional"].(map[string]interface{}); ok {
			if id, ok := add["id"].(string); ok {
				c.ID = strfmt.UUID(id)
			}
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}
