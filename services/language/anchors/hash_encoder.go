// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package anchors

import (
	"context"

	"github.com/zyntalic/zyntalic/services/language/seed"
)

const hashEncoderName = "hash-fallback"

// HashEncoder is the deterministic fallback backend: it hashes the text
// to seed a generator and fills a fixed-dimension vector with uniform
// draws. Pseudo-random but input-stable: identical text always produces
// the identical vector, on any machine.
//
// # Thread Safety
//
// Safe for concurrent use; each Embed call allocates its own generator.
type HashEncoder struct {
	dim int
}

// NewHashEncoder creates the fallback encoder. dim <= 0 selects
// FallbackDim.
func NewHashEncoder(dim int) *HashEncoder {
	if dim <= 0 {
		dim = FallbackDim
	}
	return &HashEncoder{dim: dim}
}

// Embed fills the vector from a generator keyed by the text bytes.
func (e *HashEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}
	g := seed.New(text)
	vec := make([]float32, e.dim)
	for i := range vec {
		vec[i] = float32(g.Float64())
	}
	return vec, nil
}

// Dim returns the configured dimension.
func (e *HashEncoder) Dim() int { return e.dim }

// Name identifies the fallback backend.
func (e *HashEncoder) Name() string { return hashEncoderName }

var _ Encoder = (*HashEncoder)(nil)
