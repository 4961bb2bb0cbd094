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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zyntalic/zyntalic/cmd/zyntalic/config"
	"github.com/zyntalic/zyntalic/pkg/logging"
	"github.com/zyntalic/zyntalic/pkg/secrets"
	"github.com/zyntalic/zyntalic/pkg/ux"
	"github.com/zyntalic/zyntalic/services/language/anchors"
	"github.com/zyntalic/zyntalic/services/language/lexicon"
	"github.com/zyntalic/zyntalic/services/language/translator"
)

// runTranslate translates text passed as arguments, or piped on stdin.
func runTranslate(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			ux.Error("Failed to read stdin: " + err.Error())
			os.Exit(1)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		ux.Error("Nothing to translate: pass text as arguments or pipe it on stdin")
		os.Exit(1)
	}
	if !translator.ValidEngine(engineName) {
		ux.Error(fmt.Sprintf("Unknown engine %q (valid: core, chiasmus, transformer)", engineName))
		os.Exit(1)
	}

	tr, cleanup, err := buildTranslator(ctx)
	if err != nil {
		ux.Error("Failed to build the translator: " + err.Error())
		os.Exit(1)
	}
	defer cleanup()

	records, err := tr.TranslateText(ctx, text, mirrorRate, engineName)
	if err != nil {
		ux.Error("Translation failed: " + err.Error())
		os.Exit(1)
	}
	printRecords(records)
}

// buildTranslator assembles the local synthesis pipeline: lexicons from
// disk, the best available encoder, the anchor weigher, and the
// translator on top. The returned cleanup releases the logger and any
// sealed API key.
func buildTranslator(ctx context.Context) (*translator.Translator, func(), error) {
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(config.Global.Logging.Level),
		LogDir:  config.Global.Logging.Dir,
		Service: "cli",
	})

	var cleanups []func()
	cleanups = append(cleanups, func() { logger.Close() })
	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}

	dir := lexiconDir
	if dir == "" {
		dir = config.Global.Lexicon.Dir
	}
	var store *lexicon.Store
	snap := lexicon.Snapshot{}
	if dir != "" {
		store = lexicon.NewStore(config.ExpandPath(dir))
		if err := store.LoadDir(); err != nil {
			logger.Warn("lexicon load failed, continuing without lexicons",
				"dir", dir, "error", err)
			store = nil
		} else {
			snap = store.Snapshot()
		}
	}

	apiKey, destroyKey := revealAPIKey()
	cleanups = append(cleanups, destroyKey)

	serviceURL := encoderURL
	if serviceURL == "" {
		serviceURL = config.Global.Server.EncoderURL
	}
	enc := anchors.NewEncoder(ctx, serviceURL, apiKey, config.Global.Server.OpenAIBaseURL, logger.Slog())

	weigher, err := anchors.New(ctx, enc, snap)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	tr, err := translator.New(weigher, store, logger.Slog())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return tr, cleanup, nil
}

// revealAPIKey seals OPENAI_API_KEY out of the environment and returns
// its value plus a destroy function. Missing key yields an empty
// string.
func revealAPIKey() (string, func()) {
	holder, err := secrets.FromEnv("OPENAI_API_KEY")
	if err != nil || holder == nil {
		return "", func() {}
	}
	key, err := holder.Reveal()
	if err != nil {
		return "", holder.Destroy
	}
	return key, holder.Destroy
}

// printRecords writes one record per sentence: JSONL in machine mode,
// styled source/target pairs otherwise.
func printRecords(records []translator.Record) {
	if ux.GetMode() == ux.ModeMachine {
		enc := json.NewEncoder(os.Stdout)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				ux.Error("Failed to encode record: " + err.Error())
				os.Exit(1)
			}
		}
		return
	}

	for _, rec := range records {
		if ux.GetMode() == ux.ModePlain {
			fmt.Println(rec.Source)
			fmt.Printf("%s %s\n", ux.IconArrow, rec.Target)
			fmt.Printf("  [%s, %s]\n", rec.Engine, anchorsLine(rec))
			continue
		}
		fmt.Println(ux.Styles.Source.Render(rec.Source))
		fmt.Printf("%s %s\n", ux.IconArrow.Render(), ux.Styles.Target.Render(rec.Target))
		fmt.Printf("  %s\n", ux.Styles.Muted.Render(fmt.Sprintf("[%s, %s]", rec.Engine, anchorsLine(rec))))
	}
}

// anchorsLine formats the ranked anchors as "iliad 0.52 · tao 0.30".
func anchorsLine(rec translator.Record) string {
	parts := make([]string, 0, len(rec.Anchors))
	for _, aw := range rec.Anchors {
		parts = append(parts, fmt.Sprintf("%s %.2f", aw.Name, aw.Weight))
	}
	return strings.Join(parts, " · ")
}
