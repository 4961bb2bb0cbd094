// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zyntalic/zyntalic/services/language/anchors"
	"github.com/zyntalic/zyntalic/services/language/translator"
)

// DefaultMirrorRate applies when a request omits mirror_rate: mostly
// synthesized output with some source scaffolding retained.
const DefaultMirrorRate = 0.8

// TranslateRequest is the shared request body for translation
// endpoints.
type TranslateRequest struct {
	Text       string   `json:"text" binding:"required"`
	MirrorRate *float64 `json:"mirror_rate" binding:"omitempty,min=0,max=1"`
	Engine     string   `json:"engine" binding:"omitempty,engine"`
}

func (r TranslateRequest) mirrorRate() float64 {
	if r.MirrorRate == nil {
		return DefaultMirrorRate
	}
	return *r.MirrorRate
}

func (r TranslateRequest) engine() string {
	if r.Engine == "" {
		return translator.EngineCore
	}
	return r.Engine
}

// WeighRequest asks for the anchor field of a text.
type WeighRequest struct {
	Text string `json:"text" binding:"required"`
}

// IngestRequest submits an anchor source text for corpus ingestion.
type IngestRequest struct {
	Document string `json:"document" binding:"required"`
	Anchor   string `json:"anchor" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// registerRoutes wires the HTTP surface. The engine validator is
// registered against Gin's binding validator so requests with unknown
// engines fail at bind time.
func (s *service) registerRoutes() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("engine", func(fl validator.FieldLevel) bool {
			return translator.ValidEngine(fl.Field().String())
		})
	}

	s.router.GET("/health", s.handleHealth)
	if s.config.EnableMetrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := s.router.Group("/v1")
	{
		v1.POST("/translate", s.handleTranslate)
		v1.POST("/translate/sentence", s.handleTranslateSentence)
		v1.GET("/translate/ws", s.handleTranslateWS)
		v1.POST("/anchors/weigh", s.handleWeighAnchors)
		v1.GET("/anchors", s.handleListAnchors)
		v1.GET("/corpus/documents", s.handleListDocuments)
		v1.POST("/corpus/documents", s.handleIngestDocument)
		v1.POST("/ai/translate", s.handleAITranslate)
	}
}

func (s *service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"encoder": s.encoder.Name(),
		"engines": []string{
			translator.EngineCore, translator.EngineChiasmus, translator.EngineTransformer,
		},
		"anchors": len(s.translator.Weigher().Anchors()),
	})
}

func (s *service) handleTranslate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	records, cached, err := s.translate(c.Request.Context(), req)
	s.observeTranslation(req.engine(), err, cached, time.Since(start), len(records))

	span := trace.SpanFromContext(c.Request.Context())
	span.SetAttributes(
		attribute.String("translate.engine", req.engine()),
		attribute.Bool("translate.cached", cached),
		attribute.Int("translate.records", len(records)),
	)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": requestID(c),
		"engine":     req.engine(),
		"cached":     cached,
		"records":    records,
	})
}

// translate runs the pipeline through the cache when one is available.
func (s *service) translate(ctx context.Context, req TranslateRequest) ([]translator.Record, bool, error) {
	if s.cache == nil {
		records, err := s.translator.TranslateText(ctx, req.Text, req.mirrorRate(), req.engine())
		return records, false, err
	}
	return s.cache.GetOrCompute(ctx, req.engine(), req.mirrorRate(), req.Text,
		func(ctx context.Context) ([]translator.Record, error) {
			return s.translator.TranslateText(ctx, req.Text, req.mirrorRate(), req.engine())
		})
}

func (s *service) handleTranslateSentence(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	record, err := s.translator.TranslateSentence(c.Request.Context(), req.Text, req.mirrorRate(), req.engine())
	s.observeTranslation(req.engine(), err, false, time.Since(start), 1)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": requestID(c),
		"record":     record,
	})
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The server fronts trusted internal callers; origin policy is
	// enforced upstream.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is one frame of the streaming protocol.
type wsMessage struct {
	Type   string             `json:"type"` // record | done | error
	Record *translator.Record `json:"record,omitempty"`
	Count  int                `json:"count,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// handleTranslateWS streams one record per sentence as each renders,
// then a done frame. The connection stays open for further requests.
func (s *service) handleTranslateWS(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.ActiveWebsockets.Inc()
		defer s.metrics.ActiveWebsockets.Dec()
	}

	ctx := c.Request.Context()
	for {
		var req TranslateRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if req.Text == "" {
			_ = conn.WriteJSON(wsMessage{Type: "error", Error: "text is required"})
			continue
		}

		count := 0
		failed := false
		for _, sentence := range translator.SplitSentences(req.Text) {
			record, err := s.translator.TranslateSentence(ctx, sentence, req.mirrorRate(), req.engine())
			if err != nil {
				_ = conn.WriteJSON(wsMessage{Type: "error", Error: err.Error()})
				failed = true
				break
			}
			if err := conn.WriteJSON(wsMessage{Type: "record", Record: &record}); err != nil {
				return
			}
			count++
		}
		if !failed {
			if err := conn.WriteJSON(wsMessage{Type: "done", Count: count}); err != nil {
				return
			}
		}
	}
}

func (s *service) handleWeighAnchors(c *gin.Context) {
	var req WeighRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, weights, err := s.translator.Weigher().Weigh(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, anchors.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": requestID(c),
		"anchors":    weights,
	})
}

func (s *service) handleListAnchors(c *gin.Context) {
	snap := s.snapshot()
	type anchorInfo struct {
		Name       string `json:"name"`
		HasLexicon bool   `json:"has_lexicon"`
	}

	weigher := s.translator.Weigher()
	out := make([]anchorInfo, 0, len(weigher.Anchors()))
	for _, a := range weigher.Anchors() {
		_, hasLex := snap.Get(a.Name)
		out = append(out, anchorInfo{Name: a.Name, HasLexicon: hasLex})
	}

	c.JSON(http.StatusOK, gin.H{
		"encoder": s.encoder.Name(),
		"anchors": out,
	})
}

func (s *service) handleListDocuments(c *gin.Context) {
	docs, err := s.corpusStore.Documents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if docs == nil {
		docs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (s *service) handleIngestDocument(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.ingestor.Ingest(c.Request.Context(), req.Document, req.Anchor, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if s.metrics != nil {
		s.metrics.IngestedChunksTotal.Add(float64(result.Stored))
	}

	c.JSON(http.StatusCreated, gin.H{
		"request_id": requestID(c),
		"result":     result,
	})
}

// handleAITranslate renders the translation, then asks the configured
// model for an English gloss of the synthesized output. Without an API
// key the endpoint reports itself unavailable.
func (s *service) handleAITranslate(c *gin.Context) {
	if s.aiClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI gloss requires an OpenAI API key"})
		return
	}

	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, cached, err := s.translate(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	prompt := "Gloss the following constructed-language output for an English reader. " +
		"For each line, explain the word order (subject, object, verb, context clauses) " +
		"and the trailing context block.\n\n"
	for _, r := range records {
		prompt += fmt.Sprintf("source: %s\ntarget: %s\n\n", r.Source, r.Target)
	}

	resp, err := s.aiClient.CreateChatCompletion(c.Request.Context(), openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("gloss request failed: %v", err)})
		return
	}

	gloss := ""
	if len(resp.Choices) > 0 {
		gloss = resp.Choices[0].Message.Content
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": requestID(c),
		"cached":     cached,
		"records":    records,
		"gloss":      gloss,
	})
}

// statusFor maps pipeline errors to HTTP statuses: usage errors are the
// caller's fault, everything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, translator.ErrMirrorRateRange),
		errors.Is(err, translator.ErrUnknownEngine),
		errors.Is(err, translator.ErrEmptyText):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
