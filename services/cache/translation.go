// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/sync/singleflight"

	"github.com/zyntalic/zyntalic/services/language/translator"
)

// keyBytes is the truncated digest length: 96 bits is plenty for cache
// keys and keeps the keyspace compact.
const keyBytes = 12

// Entry is one cached translation: the records plus the time they were
// stored.
type Entry struct {
	Records  []translator.Record `json:"records"`
	CachedAt time.Time           `json:"cached_at"`
}

// Stats summarizes cache state.
type Stats struct {
	Entries   int   `json:"entries"`
	LSMBytes  int64 `json:"lsm_bytes"`
	VLogBytes int64 `json:"vlog_bytes"`
}

// TranslationCache stores translation results keyed by the full
// parameter set (engine, mirror rate, source text).
//
// # Thread Safety
//
// Safe for concurrent use. Concurrent misses on the same key collapse
// into a single synthesis via singleflight.
type TranslationCache struct {
	db     *DB
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewTranslationCache wraps an open store. A zero ttl means entries
// never expire — safe here because synthesis is deterministic.
func NewTranslationCache(db *DB, ttl time.Duration, logger *slog.Logger) (*TranslationCache, error) {
	if db == nil {
		return nil, errors.New("db must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationCache{db: db, ttl: ttl, logger: logger}, nil
}

// Key derives the cache key for a translation request. The mirror rate
// is rendered at fixed precision so float formatting noise cannot split
// the keyspace.
func Key(engine string, mirrorRate float64, source string) string {
	sum := blake2s.Sum256([]byte(fmt.Sprintf("%s|%.4f|%s", engine, mirrorRate, source)))
	return hex.EncodeToString(sum[:keyBytes])
}

// Get looks up a cached translation. A miss returns found=false with a
// nil error.
func (c *TranslationCache) Get(ctx context.Context, engine string, mirrorRate float64, source string) ([]translator.Record, bool, error) {
	var entry Entry
	err := c.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key(engine, mirrorRate, source)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return entry.Records, true, nil
}

// Put stores a translation result.
func (c *TranslationCache) Put(ctx context.Context, engine string, mirrorRate float64, source string, records []translator.Record) error {
	payload, err := json.Marshal(Entry{Records: records, CachedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	err = c.db.WithTxn(ctx, func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(Key(engine, mirrorRate, source)), payload)
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// GetOrCompute returns the cached translation or runs compute and
// stores its result. Concurrent calls for the same key share one
// compute. The second return reports a cache hit.
//
// A failed Put is logged but does not fail the call; the computed
// records are still returned.
func (c *TranslationCache) GetOrCompute(ctx context.Context, engine string, mirrorRate float64, source string, compute func(context.Context) ([]translator.Record, error)) ([]translator.Record, bool, error) {
	if records, found, err := c.Get(ctx, engine, mirrorRate, source); err != nil {
		return nil, false, err
	} else if found {
		return records, true, nil
	}

	key := Key(engine, mirrorRate, source)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Recheck under the flight: another caller may have filled the
		// entry while this one waited.
		if records, found, err := c.Get(ctx, engine, mirrorRate, source); err == nil && found {
			return records, nil
		}

		records, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Put(ctx, engine, mirrorRate, source, records); err != nil {
			c.logger.Warn("failed to cache translation", "error", err)
		}
		return records, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]translator.Record), false, nil
}

// Stats counts entries and reports on-disk sizes.
func (c *TranslationCache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			s.Entries++
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	s.LSMBytes, s.VLogBytes = c.db.Size()
	return s, nil
}

// Backup streams a full backup to w, returning the version timestamp of
// the last written entry.
func (c *TranslationCache) Backup(ctx context.Context, w io.Writer) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context cancelled: %w", err)
	}
	since, err := c.db.Backup(w, 0)
	if err != nil {
		return 0, fmt.Errorf("cache backup: %w", err)
	}
	return since, nil
}
