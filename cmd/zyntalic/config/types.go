// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package config

type ZyntalicConfig struct {
	// Server: how the local translation server runs
	Server ServerConfig `yaml:"server"`

	// Lexicon: anchor lexicon files on disk
	Lexicon LexiconConfig `yaml:"lexicon"`

	// Cache: the persistent translation cache
	Cache CacheConfig `yaml:"cache"`

	// Corpus: reference text ingestion and search
	Corpus CorpusConfig `yaml:"corpus"`

	// GCS: optional cloud upload destination for backups and logs
	GCS GCSConfig `yaml:"gcs"`

	// Logging: CLI and server log output
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port          int    `yaml:"port"`            // e.g. 8470
	EncoderURL    string `yaml:"encoder_url"`     // local embedding sidecar, empty for fallback
	OpenAIBaseURL string `yaml:"openai_base_url"` // override for proxies, empty for api.openai.com
	Metrics       bool   `yaml:"metrics"`
}

type LexiconConfig struct {
	Dir   string `yaml:"dir"` // e.g. ~/.zyntalic/lexicons
	Watch bool   `yaml:"watch"`
}

type CacheConfig struct {
	Dir      string `yaml:"dir"` // e.g. ~/.zyntalic/cache
	TTLHours int    `yaml:"ttl_hours"`
}

type CorpusConfig struct {
	WeaviateURL  string `yaml:"weaviate_url"` // empty keeps corpus in memory
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

type GCSConfig struct {
	ProjectID         string `yaml:"project_id"`
	Bucket            string `yaml:"bucket"`
	ServiceAccountKey string `yaml:"service_account_key"` // path to the SA key file
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Dir   string `yaml:"dir"`   // empty disables file logging
}

func DefaultConfig() ZyntalicConfig {
	return ZyntalicConfig{
		Server: ServerConfig{
			Port:    8470,
			Metrics: true,
		},
		Lexicon: LexiconConfig{
			Dir:   "~/.zyntalic/lexicons",
			Watch: true,
		},
		Cache: CacheConfig{
			Dir:      "~/.zyntalic/cache",
			TTLHours: 0,
		},
		Corpus: CorpusConfig{
			ChunkSize:    512,
			ChunkOverlap: 64,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.zyntalic/logs",
		},
	}
}
