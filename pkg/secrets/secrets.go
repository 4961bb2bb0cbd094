// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

// Package secrets holds API keys in locked memory.
//
// Keys for the embedding and gloss backends live in a memguard enclave
// so they cannot be swapped to disk or read out of a core dump. On
// systems where the mlock limit is too low the package falls back to an
// ordinary in-process holder, but only when the operator has opted in
// via ZYNTALIC_INSECURE_MEMORY=true; otherwise construction fails so
// the degradation is never silent.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/awnumar/memguard"
	"golang.org/x/sys/unix"
)

// MinMlockLimitKB is the smallest mlock limit under which the secure
// holder is considered usable. Keys are tiny; the margin covers
// memguard's guard pages and canaries.
const MinMlockLimitKB = 64

// InsecureMemoryEnv opts in to the insecure fallback holder when mlock
// limits are insufficient.
const InsecureMemoryEnv = "ZYNTALIC_INSECURE_MEMORY"

var (
	memguardInitOnce    sync.Once
	mlockSufficient     bool
	currentMlockLimitKB int64
)

// KeyHolder stores one secret and hands it back on demand.
//
// # Thread Safety
//
// Implementations are safe for concurrent use.
type KeyHolder interface {
	// Reveal returns the held secret. Errors after Destroy.
	Reveal() (string, error)

	// Destroy wipes the secret. Idempotent.
	Destroy()

	// Secure reports whether the secret lives in locked memory.
	Secure() bool
}

// NewKeyHolder seals the given key.
//
// The input string cannot itself be wiped (Go strings are immutable),
// but the sealed copy is the one that lives for the process lifetime.
// When mlock limits are insufficient and InsecureMemoryEnv is not set,
// returns an error describing how to proceed.
func NewKeyHolder(key string) (KeyHolder, error) {
	initMemguard()

	if !mlockSufficient {
		if os.Getenv(InsecureMemoryEnv) == "true" {
			slog.Warn("holding secret in unlocked memory, mlock limit insufficient",
				"current_limit_kb", currentMlockLimitKB,
				"required_kb", MinMlockLimitKB)
			return newInsecureKeyHolder(key), nil
		}
		return nil, fmt.Errorf(
			"mlock limit insufficient for secure key storage: have %d KB, need %d KB. "+
				"Raise RLIMIT_MEMLOCK or set %s=true",
			currentMlockLimitKB, MinMlockLimitKB, InsecureMemoryEnv)
	}

	return &secureKeyHolder{enclave: memguard.NewEnclave([]byte(key))}, nil
}

// FromEnv seals the value of the named environment variable and then
// unsets it so the key no longer appears in the process environment.
// A missing or empty variable returns (nil, nil).
func FromEnv(name string) (KeyHolder, error) {
	value := os.Getenv(name)
	if value == "" {
		return nil, nil
	}
	holder, err := NewKeyHolder(value)
	if err != nil {
		return nil, err
	}
	if err := os.Unsetenv(name); err != nil {
		slog.Warn("could not unset secret environment variable", "name", name, "error", err)
	}
	return holder, nil
}

// IsMlockAvailable reports whether locked memory is usable here, and
// the current limit in KB (-1 when unlimited).
func IsMlockAvailable() (bool, int64) {
	initMemguard()
	return mlockSufficient, currentMlockLimitKB
}

// Purge wipes all memguard-allocated memory. Call during shutdown;
// every live holder is invalid afterwards.
func Purge() {
	memguard.Purge()
}

// =============================================================================
// Secure holder
// =============================================================================

type secureKeyHolder struct {
	mu      sync.Mutex
	enclave *memguard.Enclave
}

func (h *secureKeyHolder) Reveal() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.enclave == nil {
		return "", fmt.Errorf("key holder already destroyed")
	}
	buf, err := h.enclave.Open()
	if err != nil {
		return "", fmt.Errorf("open key enclave: %w", err)
	}
	defer buf.Destroy()
	return buf.String(), nil
}

func (h *secureKeyHolder) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enclave = nil
}

func (h *secureKeyHolder) Secure() bool { return true }

// =============================================================================
// Insecure fallback holder
// =============================================================================

// insecureKeyHolder keeps the key in ordinary memory. Wiping is best
// effort only; the GC may have made copies.
type insecureKeyHolder struct {
	mu        sync.Mutex
	key       []byte
	destroyed bool
}

func newInsecureKeyHolder(key string) *insecureKeyHolder {
	return &insecureKeyHolder{key: []byte(key)}
}

func (h *insecureKeyHolder) Reveal() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.destroyed {
		return "", fmt.Errorf("key holder already destroyed")
	}
	return string(h.key), nil
}

func (h *insecureKeyHolder) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.key {
		h.key[i] = 0
	}
	h.key = nil
	h.destroyed = true
}

func (h *insecureKeyHolder) Secure() bool { return false }

// =============================================================================
// mlock probing
// =============================================================================

func initMemguard() {
	memguardInitOnce.Do(func() {
		memguard.CatchInterrupt()
		mlockSufficient, currentMlockLimitKB = checkMlockLimit()
		if !mlockSufficient {
			slog.Warn("mlock limit below secure key storage threshold",
				"current_limit_kb", currentMlockLimitKB,
				"required_kb", MinMlockLimitKB)
		}
	})
}

// checkMlockLimit queries RLIMIT_MEMLOCK. An unreadable limit is
// treated as sufficient; memguard will fail loudly if it is not.
func checkMlockLimit() (bool, int64) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rlimit); err != nil {
		slog.Warn("could not determine mlock limit", "error", err)
		return true, -1
	}
	if rlimit.Cur == unix.RLIM_INFINITY {
		return true, -1
	}
	limitKB := int64(rlimit.Cur / 1024)
	return limitKB >= MinMlockLimitKB, limitKB
}
