// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cache

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyntalic/zyntalic/services/language/translator"
)

func newTestCache(t *testing.T) *TranslationCache {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c, err := NewTranslationCache(db, 0, nil)
	require.NoError(t, err)
	return c
}

func sampleRecords() []translator.Record {
	return []translator.Record{{
		Source: "Hello world.",
		Target: "한 word ⟦ctx:han=한; verb=hello; args=1; type=main⟧",
		Lemma:  "hello",
		Engine: translator.EngineCore,
	}}
}

// TestKey verifies the key separates every request parameter.
func TestKey(t *testing.T) {
	base := Key("core", 0.5, "hello")
	assert.Len(t, base, keyBytes*2)
	assert.NotEqual(t, base, Key("chiasmus", 0.5, "hello"))
	assert.NotEqual(t, base, Key("core", 0.6, "hello"))
	assert.NotEqual(t, base, Key("core", 0.5, "goodbye"))

	// Fixed precision makes float noise irrelevant.
	assert.Equal(t, Key("core", 0.5, "x"), Key("core", 0.50000001, "x"))
}

// TestGetPut verifies the round trip and miss behavior.
func TestGetPut(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "core", 0.8, "Hello world.")
	require.NoError(t, err)
	assert.False(t, found)

	want := sampleRecords()
	require.NoError(t, c.Put(ctx, "core", 0.8, "Hello world.", want))

	got, found, err := c.Get(ctx, "core", 0.8, "Hello world.")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	// A different mirror rate is a different entry.
	_, found, err = c.Get(ctx, "core", 0.7, "Hello world.")
	require.NoError(t, err)
	assert.False(t, found)
}

// TestGetOrCompute verifies compute-on-miss, hit-on-repeat, and error
// passthrough.
func TestGetOrCompute(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var calls int32
	compute := func(context.Context) ([]translator.Record, error) {
		atomic.AddInt32(&calls, 1)
		return sampleRecords(), nil
	}

	got, hit, err := c.GetOrCompute(ctx, "core", 0.8, "Hello world.", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, sampleRecords(), got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	got, hit, err = c.GetOrCompute(ctx, "core", 0.8, "Hello world.", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, sampleRecords(), got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	wantErr := errors.New("backend down")
	_, _, err = c.GetOrCompute(ctx, "core", 0.8, "other text", func(context.Context) ([]translator.Record, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

// TestGetOrCompute_Concurrent verifies concurrent misses for one key
// collapse into a single compute.
func TestGetOrCompute_Concurrent(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var calls int32
	gate := make(chan struct{})
	compute := func(context.Context) ([]translator.Record, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return sampleRecords(), nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([][]translator.Record, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, _, err := c.GetOrCompute(ctx, "core", 0.8, "shared text", compute)
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}
	close(gate)
	wg.Wait()

	// The flight may occasionally split across goroutine scheduling,
	// but it must stay well below one compute per caller.
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
	for _, got := range results {
		assert.Equal(t, sampleRecords(), got)
	}
}

// TestStats verifies entry counting.
func TestStats(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	s, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Entries)

	require.NoError(t, c.Put(ctx, "core", 0.8, "one", sampleRecords()))
	require.NoError(t, c.Put(ctx, "core", 0.8, "two", sampleRecords()))

	s, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries)
}

// TestBackup verifies a backup stream is produced for a populated
// cache.
func TestBackup(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "core", 0.8, "one", sampleRecords()))

	var buf bytes.Buffer
	_, err := c.Backup(ctx, &buf)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

// TestWithTxn_ContextCancelled verifies cancelled contexts short-circuit
// transactions.
func TestWithTxn_ContextCancelled(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = db.WithTxn(ctx, func(txn *badger.Txn) error { return nil })
	require.Error(t, err)

	err = db.WithReadTxn(ctx, func(txn *badger.Txn) error { return nil })
	require.Error(t, err)
}
