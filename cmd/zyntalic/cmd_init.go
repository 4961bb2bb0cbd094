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
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/zyntalic/zyntalic/cmd/zyntalic/config"
	"github.com/zyntalic/zyntalic/pkg/ux"
)

// runInit walks through the config interactively and writes it back to
// ~/.zyntalic/zyntalic.yaml.
func runInit(cmd *cobra.Command, args []string) {
	cfgPath, err := config.Path()
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	// PersistentPreRun already loaded (or created) the config, so edit
	// the current values rather than starting from defaults.
	cfg := config.Global

	if !forceInit {
		confirmed := true
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Update the config at %s?", cfgPath)).
			Value(&confirmed)
		if err := prompt.Run(); err != nil || !confirmed {
			ux.Muted("Aborted")
			return
		}
	}

	portStr := strconv.Itoa(cfg.Server.Port)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server port").
				Value(&portStr).
				Validate(func(s string) error {
					port, err := strconv.Atoi(s)
					if err != nil || port < 1 || port > 65535 {
						return fmt.Errorf("port must be a number between 1 and 65535")
					}
					return nil
				}),
			huh.NewInput().
				Title("Embedding sidecar URL").
				Description("Leave empty to use the deterministic hash fallback").
				Value(&cfg.Server.EncoderURL),
			huh.NewInput().
				Title("Lexicon directory").
				Value(&cfg.Lexicon.Dir),
			huh.NewConfirm().
				Title("Watch lexicon files for changes?").
				Value(&cfg.Lexicon.Watch),
			huh.NewInput().
				Title("Cache directory").
				Value(&cfg.Cache.Dir),
			huh.NewInput().
				Title("Weaviate URL").
				Description("Leave empty to keep the corpus in memory").
				Value(&cfg.Corpus.WeaviateURL),
		),
	)
	if err := form.Run(); err != nil {
		ux.Error("Setup aborted: " + err.Error())
		os.Exit(1)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := config.Save(cfg); err != nil {
		ux.Error("Failed to write the config: " + err.Error())
		os.Exit(1)
	}
	ux.Success("Config written to " + cfgPath)
}
