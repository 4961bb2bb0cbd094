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
	"strings"

	"github.com/spf13/cobra"

	"github.com/zyntalic/zyntalic/pkg/ux"
)

// runAnchors lists the anchor inventory when called without arguments,
// or weighs the given text against it.
func runAnchors(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	tr, cleanup, err := buildTranslator(ctx)
	if err != nil {
		ux.Error("Failed to build the anchor weigher: " + err.Error())
		os.Exit(1)
	}
	defer cleanup()
	weigher := tr.Weigher()

	if len(args) == 0 {
		ux.Title(fmt.Sprintf("Anchor inventory (%s encoder)", weigher.Encoder().Name()))
		for _, anchor := range weigher.Anchors() {
			if ux.GetMode() == ux.ModeMachine {
				fmt.Printf("%s\t%d\n", anchor.Name, len(anchor.Vector))
				continue
			}
			ux.KeyValue(anchor.Name, fmt.Sprintf("%d-dim vector", len(anchor.Vector)))
		}
		return
	}

	text := strings.Join(args, " ")
	vec, weights, err := weigher.WeighTopK(ctx, text, anchorTopK)
	if err != nil {
		ux.Error("Weighing failed: " + err.Error())
		os.Exit(1)
	}

	for _, aw := range weights {
		if ux.GetMode() == ux.ModeMachine {
			fmt.Printf("%s\t%.4f\n", aw.Name, aw.Weight)
			continue
		}
		fmt.Printf("%-24s %s\n", aw.Name, ux.WeightBar(aw.Weight, 30))
	}
	ux.Muted(fmt.Sprintf("embedded with %s (%d dims)", weigher.Encoder().Name(), len(vec)))
}
