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
	"runtime"

	"github.com/spf13/cobra"

	"github.com/zyntalic/zyntalic/pkg/ux"
)

// Set at build time via -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func runVersion(cmd *cobra.Command, args []string) {
	ux.KeyValue("Version", version)
	ux.KeyValue("Commit", commit)
	ux.KeyValue("Go", runtime.Version())
}
