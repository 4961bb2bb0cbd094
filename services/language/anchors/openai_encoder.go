// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package anchors

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEncoder embeds text through an OpenAI-compatible embeddings API.
//
// Works against api.openai.com or any compatible local server (set
// baseURL). The model is held fixed for the run, which keeps the
// determinism contract as long as the remote model itself is stable.
//
// # Thread Safety
//
// Safe for concurrent use.
type OpenAIEncoder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	dim    int
}

// NewOpenAIEncoder creates an encoder using the given API key and
// optional base URL override. Probes one embedding to fix the dimension.
func NewOpenAIEncoder(ctx context.Context, apiKey, baseURL string) (*OpenAIEncoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: api key is empty", ErrInvalidInput)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	e := &OpenAIEncoder{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.SmallEmbedding3,
	}
	vec, err := e.Embed(ctx, "zyntalic dimension probe")
	if err != nil {
		return nil, fmt.Errorf("probe embed: %w", err)
	}
	e.dim = len(vec)
	return e, nil
}

// Embed returns the model's vector for text.
func (e *OpenAIEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	if text == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embeddings API returned no data")
	}
	return resp.Data[0].Embedding, nil
}

// Dim returns the probed dimension.
func (e *OpenAIEncoder) Dim() int { return e.dim }

// Name identifies the OpenAI-compatible backend.
func (e *OpenAIEncoder) Name() string { return "openai-encoder" }

var _ Encoder = (*OpenAIEncoder)(nil)
