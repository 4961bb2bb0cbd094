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
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zyntalic/zyntalic/cmd/zyntalic/config"
	"github.com/zyntalic/zyntalic/pkg/logging"
	"github.com/zyntalic/zyntalic/pkg/secrets"
	"github.com/zyntalic/zyntalic/pkg/ux"
	"github.com/zyntalic/zyntalic/services/server"
)

// runServe starts the local translation server with config-file
// settings, letting flags override the port and rate limit.
func runServe(cmd *cobra.Command, args []string) {
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(config.Global.Logging.Level),
		LogDir:  config.Global.Logging.Dir,
		Service: "server",
		JSON:    true,
	})
	defer logger.Close()

	apiKey := ""
	if holder, err := secrets.FromEnv("OPENAI_API_KEY"); err == nil && holder != nil {
		if key, err := holder.Reveal(); err == nil {
			apiKey = key
		}
		defer holder.Destroy()
	}

	port := servePort
	if port == 0 {
		port = config.Global.Server.Port
	}
	serviceURL := encoderURL
	if serviceURL == "" {
		serviceURL = config.Global.Server.EncoderURL
	}
	dir := lexiconDir
	if dir == "" {
		dir = config.Global.Lexicon.Dir
	}

	cfg := server.Config{
		Port:                port,
		EmbeddingServiceURL: serviceURL,
		OpenAIAPIKey:        apiKey,
		OpenAIBaseURL:       config.Global.Server.OpenAIBaseURL,
		LexiconDir:          config.ExpandPath(dir),
		WatchLexicons:       config.Global.Lexicon.Watch,
		CachePath:           config.ExpandPath(config.Global.Cache.Dir),
		CacheTTL:            time.Duration(config.Global.Cache.TTLHours) * time.Hour,
		WeaviateURL:         config.Global.Corpus.WeaviateURL,
		OTelEndpoint:        os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		EnableMetrics:       config.Global.Server.Metrics && !noMetrics,
		RateLimitRPS:        serveRateRPS,
		InfluxURL:           os.Getenv("ZYNTALIC_INFLUX_URL"),
		InfluxToken:         os.Getenv("ZYNTALIC_INFLUX_TOKEN"),
		InfluxOrg:           os.Getenv("ZYNTALIC_INFLUX_ORG"),
		InfluxBucket:        os.Getenv("ZYNTALIC_INFLUX_BUCKET"),
		Logger:              logger.Slog(),
	}

	svc, err := server.New(cfg)
	if err != nil {
		ux.Error("Failed to create the server: " + err.Error())
		os.Exit(1)
	}

	ux.Success(fmt.Sprintf("Zyntalic server listening on :%d", port))
	if err := svc.Run(); err != nil {
		ux.Error("Server error: " + err.Error())
		os.Exit(1)
	}
}
