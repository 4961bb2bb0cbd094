// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package server exposes the synthesis pipeline over HTTP: translation
// endpoints (including a streaming websocket), anchor inspection,
// corpus ingestion, and the usual health/metrics surface.
//
// The server composes the language packages behind a Gin router. All
// heavyweight collaborators (embedding encoder, translation cache,
// vector store) degrade gracefully: the pipeline itself only needs the
// deterministic synthesizer.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/zyntalic/zyntalic/services/cache"
	"github.com/zyntalic/zyntalic/services/corpus"
	"github.com/zyntalic/zyntalic/services/language/anchors"
	"github.com/zyntalic/zyntalic/services/language/lexicon"
	"github.com/zyntalic/zyntalic/services/language/translator"
)

// Service is the server lifecycle contract.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run blocks and is
// called at most once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until it stops.
	Run() error

	// Router returns the configured Gin engine for integration tests.
	Router() *gin.Engine
}

// Config holds server configuration. Zero values select defaults.
type Config struct {
	// Port is the HTTP listen port. Default 8470.
	Port int

	// GinMode sets the Gin framework mode ("debug", "release",
	// "test"). Empty defers to the GIN_MODE environment variable.
	GinMode string

	// EmbeddingServiceURL points at a local embedding sidecar. Empty
	// tries the OpenAI key next, then the hash fallback.
	EmbeddingServiceURL string

	// OpenAIAPIKey enables the OpenAI embedding backend and the AI
	// gloss endpoint.
	OpenAIAPIKey string

	// OpenAIBaseURL overrides the OpenAI API host, for proxies and
	// compatible servers.
	OpenAIBaseURL string

	// LexiconDir is the anchor lexicon directory. Empty disables
	// lexicons.
	LexiconDir string

	// WatchLexicons reloads lexicon files on change.
	WatchLexicons bool

	// CachePath is the translation cache directory. Empty selects an
	// in-memory cache.
	CachePath string

	// CacheTTL bounds cache entry lifetime. Zero means no expiry.
	CacheTTL time.Duration

	// WeaviateURL is the corpus vector store. Empty selects the
	// in-process memory store.
	WeaviateURL string

	// OTelEndpoint is the OpenTelemetry collector endpoint. Empty
	// disables tracing.
	OTelEndpoint string

	// EnableMetrics exposes Prometheus metrics at /metrics.
	EnableMetrics bool

	// RateLimitRPS and RateLimitBurst bound request throughput.
	// Zero RPS disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// Influx configuration for the optional timing sink.
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	// Logger for server operations. Nil selects slog.Default.
	Logger *slog.Logger
}

func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 8470
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 20
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// service implements Service. All fields are read-only after New.
type service struct {
	config        Config
	logger        *slog.Logger
	router        *gin.Engine
	translator    *translator.Translator
	cache         *cache.TranslationCache
	cacheDB       *cache.DB
	corpusStore   corpus.Store
	ingestor      *corpus.Ingestor
	encoder       anchors.Encoder
	lexicons      *lexicon.Store
	watcher       *lexicon.Watcher
	aiClient      *openai.Client
	metrics       *Metrics
	influx        *InfluxSink
	tracerCleanup func(context.Context)
}

// New wires the full pipeline behind a router.
//
// # Description
//
// Initialization order: tracing, metrics, lexicons (plus watcher),
// encoder, anchor weigher, translator, cache, corpus store. Optional
// collaborators that fail to come up are logged and skipped; only the
// core pipeline is load-bearing.
func New(cfg Config) (Service, error) {
	s := &service{config: applyConfigDefaults(cfg)}
	s.logger = s.config.Logger
	ctx := context.Background()

	if s.config.OTelEndpoint != "" {
		cleanup, err := s.initTracer(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	if s.config.EnableMetrics {
		s.metrics = InitMetrics()
	}

	if err := s.initLexicons(); err != nil {
		s.logger.Warn("lexicon loading failed, continuing without lexicons", "error", err)
	}

	s.encoder = anchors.NewEncoder(ctx,
		s.config.EmbeddingServiceURL, s.config.OpenAIAPIKey, s.config.OpenAIBaseURL, s.logger)

	weigher, err := anchors.New(ctx, s.encoder, s.snapshot())
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("initialize anchor weigher: %w", err)
	}

	s.translator, err = translator.New(weigher, s.lexicons, s.logger)
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("initialize translator: %w", err)
	}

	if err := s.initCache(); err != nil {
		s.logger.Warn("translation cache unavailable, translating without cache", "error", err)
	}

	if err := s.initCorpus(ctx); err != nil {
		s.logger.Warn("corpus store degraded", "error", err)
	}

	if s.config.OpenAIAPIKey != "" {
		s.aiClient = newOpenAIClient(s.config.OpenAIAPIKey, s.config.OpenAIBaseURL)
	}

	if s.config.InfluxURL != "" {
		s.influx = NewInfluxSink(s.config.InfluxURL, s.config.InfluxToken,
			s.config.InfluxOrg, s.config.InfluxBucket)
	}

	s.initRouter()
	return s, nil
}

// Run starts the HTTP server and blocks until it stops. Resources are
// released on return.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.logger.Info("starting zyntalic server",
		"port", s.config.Port, "encoder", s.encoder.Name())
	return s.router.Run(addr)
}

// Router returns the configured Gin engine.
func (s *service) Router() *gin.Engine {
	return s.router
}

func (s *service) initLexicons() error {
	if s.config.LexiconDir == "" {
		return nil
	}
	s.lexicons = lexicon.NewStore(s.config.LexiconDir)
	if err := s.lexicons.LoadDir(); err != nil {
		return err
	}

	if s.config.WatchLexicons {
		watcher, err := lexicon.NewWatcher(s.lexicons, s.logger)
		if err != nil {
			return fmt.Errorf("create lexicon watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("start lexicon watcher: %w", err)
		}
		s.watcher = watcher
	}
	return nil
}

func (s *service) snapshot() lexicon.Snapshot {
	if s.lexicons == nil {
		return lexicon.Snapshot{}
	}
	return s.lexicons.Snapshot()
}

func (s *service) initCache() error {
	dbCfg := cache.DefaultConfig()
	dbCfg.Logger = s.logger
	if s.config.CachePath == "" {
		dbCfg = cache.InMemoryConfig()
	} else {
		dbCfg.Path = s.config.CachePath
	}

	db, err := cache.OpenDB(dbCfg)
	if err != nil {
		return err
	}
	s.cacheDB = db

	s.cache, err = cache.NewTranslationCache(db, s.config.CacheTTL, s.logger)
	if err != nil {
		db.Close()
		s.cacheDB = nil
		return err
	}
	return nil
}

// initCorpus selects the vector store. A configured but unreachable
// Weaviate degrades to the memory store rather than failing startup.
func (s *service) initCorpus(ctx context.Context) error {
	s.corpusStore = corpus.NewMemoryStore()

	var degraded error
	if s.config.WeaviateURL != "" {
		parsed, err := url.Parse(strings.Trim(s.config.WeaviateURL, "\"' "))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("invalid weaviate URL: %s", s.config.WeaviateURL)
		}
		client, err := weaviate.NewClient(weaviate.Config{Host: parsed.Host, Scheme: parsed.Scheme})
		if err != nil {
			return fmt.Errorf("create weaviate client: %w", err)
		}

		store, err := corpus.NewWeaviateStore(ctx, client, s.logger)
		if err != nil {
			degraded = err
		} else {
			if err := store.EnsureSchema(ctx); err != nil {
				degraded = err
			} else {
				s.corpusStore = store
			}
		}
	}

	ingestor, err := corpus.NewIngestor(s.encoder, s.corpusStore, s.logger)
	if err != nil {
		return err
	}
	s.ingestor = ingestor
	return degraded
}

func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(RequestID())
	if s.config.OTelEndpoint != "" {
		s.router.Use(otelgin.Middleware("zyntalic-server"))
	}
	if s.config.RateLimitRPS > 0 {
		s.router.Use(RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	}

	s.registerRoutes()
}

func (s *service) initTracer(ctx context.Context) (func(context.Context), error) {
	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("zyntalic-server")))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}
	return cleanup, nil
}

func (s *service) cleanup() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.cacheDB != nil {
		if err := s.cacheDB.Close(); err != nil {
			s.logger.Warn("cache close error", "error", err)
		}
	}
	if s.corpusStore != nil {
		if err := s.corpusStore.Close(); err != nil {
			s.logger.Warn("corpus store close error", "error", err)
		}
	}
	if s.influx != nil {
		s.influx.Close()
	}
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

func newOpenAIClient(apiKey, baseURL string) *openai.Client {
	if baseURL != "" {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		return openai.NewClientWithConfig(cfg)
	}
	return openai.NewClient(apiKey)
}

var _ Service = (*service)(nil)
