// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package anchors ranks a fixed set of cultural anchor texts against
// input text by embedding similarity.
//
// An Encoder turns text into a fixed-dimension vector. The learned
// backends (HTTP embedding service, OpenAI-compatible API) are optional;
// when neither is reachable the deterministic hash encoder takes over at
// construction time and stays fixed for the life of the process, so a
// run never mixes backends.
package anchors

import (
	"context"
	"errors"
)

// ErrInvalidInput is returned for nil contexts and empty text.
var ErrInvalidInput = errors.New("anchors: invalid input")

// FallbackDim is the vector dimension of the deterministic hash encoder.
const FallbackDim = 384

// Encoder embeds text into comparable fixed-dimension vectors.
//
// Implementations must be deterministic for a fixed backend: identical
// text yields an identical vector within one process run.
type Encoder interface {
	// Embed returns the vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dim returns the encoder's output dimension.
	Dim() int

	// Name identifies the backend (for records and logs).
	Name() string
}

// Learned reports whether the encoder is a learned model rather than
// the deterministic hash fallback.
func Learned(e Encoder) bool {
	return e != nil && e.Name() != hashEncoderName
}
