// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package seed derives stable numeric seeds and reproducible random
// generators from string keys.
//
// Every synthesis step in the pipeline draws randomness from a Generator
// created here. The same key produces the same draw sequence on every
// run, on every machine, which is what makes the whole pipeline a pure
// function of its inputs. Generators are cheap: create one per synthesis
// call, thread it through explicitly, discard it after use. Never share
// one across goroutines.
package seed

import (
	"encoding/binary"
	"math/rand"

	"golang.org/x/crypto/blake2b"
)

// Derive hashes a key to a stable 64-bit seed.
//
// # Description
//
// Computes an 8-byte BLAKE2b digest of the key's bytes and interprets it
// as a big-endian unsigned integer. Pure function of the key: identical
// keys yield identical seeds across processes and platforms. Any string
// is a valid key, including the empty string.
func Derive(key string) uint64 {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(key))
	return binary.BigEndian.Uint64(h.Sum(nil))
}

// Generator is a reproducible pseudo-random stream keyed by a seed string.
//
// # Thread Safety
//
// Not safe for concurrent use. A Generator belongs to exactly one
// synthesis call.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator keyed by the given string.
func New(key string) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(int64(Derive(key))))}
}

// Float64 returns the next draw in [0.0, 1.0).
func (g *Generator) Float64() float64 {
	return g.rng.Float64()
}

// Intn returns a draw in [0, n). Panics if n <= 0, matching math/rand.
func (g *Generator) Intn(n int) int {
	return g.rng.Intn(n)
}

// Chance returns true with probability p.
func (g *Generator) Chance(p float64) bool {
	return g.rng.Float64() < p
}

// Pick returns one element of items drawn uniformly. Panics on an empty
// slice; callers draw from fixed non-empty inventories.
func Pick[T any](g *Generator, items []T) T {
	return items[g.Intn(len(items))]
}
