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
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/zyntalic/zyntalic/cmd/zyntalic/config"
	"github.com/zyntalic/zyntalic/pkg/ux"
)

// --- Global Command Variables ---
var (
	mirrorRate   float64
	engineName   string
	outputMode   string // CLI override for output style (styled/plain/machine)
	lexiconDir   string // CLI override for lexicon.dir
	encoderURL   string // CLI override for server.encoder_url
	servePort    int
	serveRateRPS float64
	noMetrics    bool
	anchorTopK   int
	corpusDoc    string
	corpusAnchor string
	searchLimit  int
	backupOutput string
	gcsPrefix    string
	forceInit    bool

	rootCmd = &cobra.Command{
		Use:   "zyntalic",
		Short: "A cli for the Zyntalic constructed language",
		Long: `Zyntalic is a deterministic constructed-language synthesizer.
				It derives phonology, morphology and syntax from anchor texts
				and translates English into Zyntalic glyph sentences.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize output mode from flag, environment, or TTY state
			switch {
			case outputMode != "":
				ux.SetMode(ux.ParseMode(outputMode))
			case os.Getenv("ZYNTALIC_OUTPUT") != "":
				ux.SetMode(ux.ParseMode(os.Getenv("ZYNTALIC_OUTPUT")))
			case !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()):
				ux.SetMode(ux.ModeMachine)
			}

			if err := config.Load(); err != nil {
				ux.Error("Failed to load config: " + err.Error())
				os.Exit(1)
			}
		},
	}

	// --- Translation ---
	translateCmd = &cobra.Command{
		Use:     "translate [text]",
		Short:   "Translate English text into Zyntalic",
		Aliases: []string{"t"},
		Run:     runTranslate, // Defined in cmd_translate.go
	}
	replCmd = &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive translation session",
		Run:   runRepl, // Defined in cmd_repl.go
	}

	// --- Anchors ---
	anchorsCmd = &cobra.Command{
		Use:   "anchors [text]",
		Short: "List the anchor set, or weigh text against it",
		Run:   runAnchors, // Defined in cmd_anchors.go
	}

	// --- Server ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the local Zyntalic translation server",
		Run:   runServe, // Defined in cmd_serve.go
	}

	// --- Corpus ---
	corpusCmd = &cobra.Command{
		Use:   "corpus",
		Short: "Manage the reference corpus behind anchor weighing",
	}
	corpusIngestCmd = &cobra.Command{
		Use:   "ingest [file or directory path...]",
		Short: "Chunk, embed and store reference texts",
		Run:   runCorpusIngest, // Defined in cmd_corpus.go
	}
	corpusSearchCmd = &cobra.Command{
		Use:   "search [query]",
		Short: "Search the corpus by embedding similarity",
		Run:   runCorpusSearch, // Defined in cmd_corpus.go
	}

	// --- Cache ---
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and back up the translation cache",
	}
	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show translation cache size and entry count",
		Run:   runCacheStats, // Defined in cmd_cache.go
	}
	cacheBackupCmd = &cobra.Command{
		Use:   "backup [output_file]",
		Short: "Write a full cache backup to a local file",
		Run:   runCacheBackup, // Defined in cmd_cache.go
	}
	cacheUploadCmd = &cobra.Command{
		Use:   "upload [local_file_or_directory]",
		Short: "Upload cache backups to Google Cloud Storage (GCS)",
		Run:   runCacheUpload, // Defined in cmd_cache.go
	}

	// --- Setup ---
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Interactively create or update the Zyntalic config",
		Run:   runInit, // Defined in cmd_init.go
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run:   runVersion, // Defined in cmd_version.go
	}
)

// init runs when the Go program starts
func init() {
	// Global output flag
	rootCmd.PersistentFlags().StringVar(&outputMode, "output", "",
		"Output style: styled (default on a TTY), plain, or machine (scripting)")
	rootCmd.PersistentFlags().StringVar(&lexiconDir, "lexicons", "",
		"Override the anchor lexicon directory")
	rootCmd.PersistentFlags().StringVar(&encoderURL, "encoder-url", "",
		"Override the embedding sidecar URL")

	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().Float64VarP(&mirrorRate, "mirror-rate", "m", 0.8,
		"Probability of retaining source scaffolding per token, in [0,1]")
	translateCmd.Flags().StringVarP(&engineName, "engine", "e", "core",
		"Synthesis engine (core, chiasmus, transformer)")

	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Float64VarP(&mirrorRate, "mirror-rate", "m", 0.8,
		"Probability of retaining source scaffolding per token, in [0,1]")
	replCmd.Flags().StringVarP(&engineName, "engine", "e", "core",
		"Synthesis engine (core, chiasmus, transformer)")

	rootCmd.AddCommand(anchorsCmd)
	anchorsCmd.Flags().IntVarP(&anchorTopK, "top", "k", 0,
		"Number of ranked anchors to show (0 = all)")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"HTTP listen port (default from config)")
	serveCmd.Flags().Float64Var(&serveRateRPS, "rate-limit", 0,
		"Requests per second limit, 0 disables")
	serveCmd.Flags().BoolVar(&noMetrics, "no-metrics", false,
		"Disable the Prometheus /metrics endpoint")

	// corpus commands
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusIngestCmd)
	corpusIngestCmd.Flags().StringVar(&corpusDoc, "document", "",
		"Document name for ingested chunks (default: file name)")
	corpusIngestCmd.Flags().StringVar(&corpusAnchor, "anchor", "",
		"Anchor this text informs (e.g. 'iliad')")
	corpusCmd.AddCommand(corpusSearchCmd)
	corpusSearchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5,
		"Maximum number of chunks to return")

	// cache commands
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheBackupCmd)
	cacheBackupCmd.Flags().StringVarP(&backupOutput, "output", "o", "",
		"Output filename (default: zyntalic_cache_{date}.bak)")
	cacheCmd.AddCommand(cacheUploadCmd)
	cacheUploadCmd.Flags().StringVar(&gcsPrefix, "prefix", "backups",
		"Object prefix inside the GCS bucket")

	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&forceInit, "force", false,
		"Overwrite the existing config without asking")

	rootCmd.AddCommand(versionCmd)
}
