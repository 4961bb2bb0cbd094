// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Command zyntalic-server starts the Zyntalic translation HTTP server.
//
// This is the main entry point for the containerized translation service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - ZYNTALIC_PORT: HTTP server port (default: 8470)
//   - ZYNTALIC_ENCODER_URL: local embedding sidecar URL (optional)
//   - OPENAI_API_KEY: enables the OpenAI encoder and gloss endpoint (optional)
//   - OPENAI_BASE_URL: overrides the OpenAI API host (optional)
//   - ZYNTALIC_LEXICON_DIR: anchor lexicon directory (optional)
//   - ZYNTALIC_CACHE_DIR: badger cache directory (default: in-memory)
//   - ZYNTALIC_WEAVIATE_URL: corpus vector store URL (optional)
//   - ZYNTALIC_INFLUX_URL / _TOKEN / _ORG / _BUCKET: timing sink (optional)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (optional)
//   - ZYNTALIC_RATE_LIMIT_RPS: request rate limit, 0 disables (default: 0)
//
// # Usage
//
//	# Build
//	go build -o zyntalic-server ./cmd/zyntalic-server
//
//	# Run
//	./zyntalic-server
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/zyntalic/zyntalic/pkg/secrets"
	"github.com/zyntalic/zyntalic/services/server"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Seal the OpenAI key out of the environment before anything else
	// can read it.
	keyHolder, err := secrets.FromEnv("OPENAI_API_KEY")
	if err != nil {
		log.Fatalf("Failed to seal OPENAI_API_KEY: %v", err)
	}

	apiKey := ""
	if keyHolder != nil {
		apiKey, err = keyHolder.Reveal()
		if err != nil {
			log.Fatalf("Failed to reveal OPENAI_API_KEY: %v", err)
		}
		defer keyHolder.Destroy()
	}

	// Build configuration from environment variables
	cfg := server.Config{
		Port:                getEnvInt("ZYNTALIC_PORT", 8470),
		EmbeddingServiceURL: os.Getenv("ZYNTALIC_ENCODER_URL"),
		OpenAIAPIKey:        apiKey,
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		LexiconDir:          os.Getenv("ZYNTALIC_LEXICON_DIR"),
		WatchLexicons:       getEnvBool("ZYNTALIC_WATCH_LEXICONS", true),
		CachePath:           os.Getenv("ZYNTALIC_CACHE_DIR"),
		WeaviateURL:         os.Getenv("ZYNTALIC_WEAVIATE_URL"),
		OTelEndpoint:        os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		EnableMetrics:       getEnvBool("ZYNTALIC_METRICS", true),
		RateLimitRPS:        getEnvFloat("ZYNTALIC_RATE_LIMIT_RPS", 0),
		InfluxURL:           os.Getenv("ZYNTALIC_INFLUX_URL"),
		InfluxToken:         os.Getenv("ZYNTALIC_INFLUX_TOKEN"),
		InfluxOrg:           os.Getenv("ZYNTALIC_INFLUX_ORG"),
		InfluxBucket:        os.Getenv("ZYNTALIC_INFLUX_BUCKET"),
		Logger:              logger,
	}

	slog.Info("Starting zyntalic-server",
		"port", cfg.Port,
		"encoder_url", cfg.EmbeddingServiceURL,
		"openai_configured", apiKey != "",
		"lexicon_dir", cfg.LexiconDir,
		"weaviate_url", cfg.WeaviateURL,
	)

	svc, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the environment variable as bool or a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvFloat returns the environment variable as float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
