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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultEmbedTimeout is the default timeout for embedding requests.
const DefaultEmbedTimeout = 30 * time.Second

// HTTPEncoder calls an external sentence-encoder service over HTTP.
//
// # Description
//
// The service exposes /embed, /batch_embed, and /health JSON endpoints
// and runs a transformer model producing dense vectors. The encoder is
// probed at construction time; an unhealthy service makes the factory
// fall back to the hash encoder instead of surfacing an error.
//
// # Thread Safety
//
// Safe for concurrent use.
type HTTPEncoder struct {
	baseURL    string
	httpClient *http.Client
	dim        int
}

// NewHTTPEncoder creates a client for the embedding service at baseURL
// (e.g. "http://localhost:8000") and probes its health and dimension.
func NewHTTPEncoder(ctx context.Context, baseURL string) (*HTTPEncoder, error) {
	e := &HTTPEncoder{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultEmbedTimeout},
	}
	if err := e.health(ctx); err != nil {
		return nil, err
	}
	// One probe embed fixes the dimension for the run.
	vec, err := e.Embed(ctx, "zyntalic dimension probe")
	if err != nil {
		return nil, fmt.Errorf("probe embed: %w", err)
	}
	e.dim = len(vec)
	return e, nil
}

type batchEmbedRequest struct {
	Texts []string `json:"texts"`
}

type batchEmbedResponse struct {
	ID        string      `json:"id"`
	Timestamp int64       `json:"timestamp"`
	Model     string      `json:"model"`
	Vectors   [][]float32 `json:"vectors"`
	Dim       int         `json:"dim"`
}

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// Embed computes the vector for one text.
func (e *HTTPEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	if text == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}
	vectors, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding service returned no vectors")
	}
	return vectors[0], nil
}

// BatchEmbed computes vectors for several texts in one request.
func (e *HTTPEncoder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts is empty", ErrInvalidInput)
	}

	bodyBytes, err := json.Marshal(batchEmbedRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := e.baseURL + "/batch_embed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp batchEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return embResp.Vectors, nil
}

// health checks the service is up and its model is loaded.
func (e *HTTPEncoder) health(ctx context.Context) error {
	if ctx == nil {
		return ErrInvalidInput
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("embedding service unhealthy: status %d: %s", resp.StatusCode, string(body))
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("embedding service not ready: %s", health.Status)
	}
	return nil
}

// Dim returns the probed dimension.
func (e *HTTPEncoder) Dim() int { return e.dim }

// Name identifies the HTTP backend.
func (e *HTTPEncoder) Name() string { return "http-encoder" }

// BaseURL returns the configured service URL.
func (e *HTTPEncoder) BaseURL() string { return e.baseURL }

var _ Encoder = (*HTTPEncoder)(nil)
