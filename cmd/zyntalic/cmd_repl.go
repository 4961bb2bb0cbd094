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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zyntalic/zyntalic/pkg/ux"
	"github.com/zyntalic/zyntalic/services/language/translator"
)

// runRepl loops reading English lines and printing their Zyntalic
// renderings until EOF.
func runRepl(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

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

	ux.Title("Zyntalic")
	ux.Muted(fmt.Sprintf("engine=%s mirror-rate=%.2f encoder=%s",
		engineName, mirrorRate, tr.Weigher().Encoder().Name()))
	ux.Muted("Enter English text. Ctrl+D exits.")

	reader := NewInputReader(50)
	for {
		line, err := reader.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			ux.Error("Input error: " + err.Error())
			break
		}
		if line == "" {
			continue
		}

		records, err := tr.TranslateText(ctx, line, mirrorRate, engineName)
		if err != nil {
			ux.Error("Translation failed: " + err.Error())
			continue
		}
		printRecords(records)
	}
}
