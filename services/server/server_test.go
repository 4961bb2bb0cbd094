// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg Config) Service {
	t.Helper()
	if cfg.GinMode == "" {
		cfg.GinMode = "test"
	}
	svc, err := New(cfg)
	require.NoError(t, err)
	return svc
}

func postJSON(t *testing.T, svc Service, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, svc Service, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, req)
	return w
}

// TestHealth verifies the health surface reports the pipeline shape.
func TestHealth(t *testing.T) {
	svc := newTestService(t, Config{})

	w := getJSON(t, svc, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "hash-fallback", body["encoder"])
	assert.EqualValues(t, 10, body["anchors"])
}

// TestTranslate verifies the main endpoint end to end, including the
// cache on repeat.
func TestTranslate(t *testing.T) {
	svc := newTestService(t, Config{})

	w := postJSON(t, svc, "/v1/translate", map[string]interface{}{
		"text":        "Hello world.",
		"mirror_rate": 0.8,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		RequestID string `json:"request_id"`
		Engine    string `json:"engine"`
		Cached    bool   `json:"cached"`
		Records   []struct {
			Source string `json:"source"`
			Target string `json:"target"`
			Lemma  string `json:"lemma"`
			Engine string `json:"engine"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, "core", body.Engine)
	assert.False(t, body.Cached)
	require.Len(t, body.Records, 1)
	assert.Equal(t, "Hello world.", body.Records[0].Source)
	assert.Equal(t, "hello", body.Records[0].Lemma)
	assert.NotEmpty(t, body.Records[0].Target)

	w = postJSON(t, svc, "/v1/translate", map[string]interface{}{
		"text":        "Hello world.",
		"mirror_rate": 0.8,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Cached)
}

// TestTranslate_Validation verifies bind-time rejection of bad input.
func TestTranslate_Validation(t *testing.T) {
	svc := newTestService(t, Config{})

	w := postJSON(t, svc, "/v1/translate", map[string]interface{}{
		"text": "hi", "engine": "quantum",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, svc, "/v1/translate", map[string]interface{}{
		"mirror_rate": 0.5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, svc, "/v1/translate", map[string]interface{}{
		"text": "hi", "mirror_rate": 1.5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestTranslateSentence verifies the single-sentence endpoint.
func TestTranslateSentence(t *testing.T) {
	svc := newTestService(t, Config{})

	w := postJSON(t, svc, "/v1/translate/sentence", map[string]interface{}{
		"text": "I see the river at night",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Record struct {
			Target string `json:"target"`
			Engine string `json:"engine"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "core", body.Record.Engine)
	assert.Contains(t, body.Record.Target, "⟦ctx:")
}

// TestWeighAnchors verifies the anchor inspection endpoints.
func TestWeighAnchors(t *testing.T) {
	svc := newTestService(t, Config{})

	w := postJSON(t, svc, "/v1/anchors/weigh", map[string]interface{}{
		"text": "wrath and ships and gods",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Anchors []struct {
			Name   string  `json:"name"`
			Weight float64 `json:"weight"`
		} `json:"anchors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Anchors, 3)

	w = getJSON(t, svc, "/v1/anchors")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Encoder string `json:"encoder"`
		Anchors []struct {
			Name       string `json:"name"`
			HasLexicon bool   `json:"has_lexicon"`
		} `json:"anchors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, "hash-fallback", list.Encoder)
	assert.Len(t, list.Anchors, 10)
}

// TestCorpus verifies ingestion into the memory store and listing.
func TestCorpus(t *testing.T) {
	svc := newTestService(t, Config{})

	w := getJSON(t, svc, "/v1/corpus/documents")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"documents":[]`)

	w = postJSON(t, svc, "/v1/corpus/documents", map[string]interface{}{
		"document": "Iliad",
		"anchor":   "Homer_Iliad",
		"content":  strings.Repeat("Sing, goddess, the wrath of Achilles. ", 60),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Result struct {
			Chunks int `json:"chunks"`
			Stored int `json:"stored"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Greater(t, body.Result.Stored, 0)

	w = getJSON(t, svc, "/v1/corpus/documents")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Iliad")
}

// TestAITranslate_Unconfigured verifies the gloss endpoint reports
// unavailability without an API key.
func TestAITranslate_Unconfigured(t *testing.T) {
	svc := newTestService(t, Config{})

	w := postJSON(t, svc, "/v1/ai/translate", map[string]interface{}{"text": "hi"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// TestRateLimit verifies requests beyond the bucket get 429.
func TestRateLimit(t *testing.T) {
	svc := newTestService(t, Config{RateLimitRPS: 0.001, RateLimitBurst: 1})

	w := getJSON(t, svc, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	w = getJSON(t, svc, "/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

// TestTranslateWS verifies the streaming protocol: one record frame per
// sentence, then a done frame.
func TestTranslateWS(t *testing.T) {
	svc := newTestService(t, Config{})
	ts := httptest.NewServer(svc.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/translate/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"text": "One bird sang. Two cats slept.",
	}))

	var records int
	for {
		var msg struct {
			Type  string `json:"type"`
			Count int    `json:"count"`
			Error string `json:"error"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		switch msg.Type {
		case "record":
			records++
		case "done":
			assert.Equal(t, 2, msg.Count)
			assert.Equal(t, 2, records)
			return
		case "error":
			t.Fatalf("unexpected error frame: %s", msg.Error)
		}
	}
}

// TestRequestID verifies propagation of a caller-supplied ID.
func TestRequestID(t *testing.T) {
	svc := newTestService(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}
