// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding attribution requirements.

package lexicon

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for further events
// before reloading a changed lexicon file.
const DefaultDebounce = 250 * time.Millisecond

// Watcher hot-reloads lexicon files as they change on disk.
//
// # Description
//
// Watches the store's directory with fsnotify and batches events per
// file through a debounce window, so an editor's write-rename dance
// triggers one reload instead of several. Reloads go through
// Store.Reload, which preserves snapshot semantics for readers.
//
// # Thread Safety
//
// Safe for concurrent use. Reloads happen on a single goroutine.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher over the store's directory. The directory
// must exist before Start is called.
func NewWatcher(store *Store, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		store:    store,
		watcher:  fsw,
		logger:   logger,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Returns immediately; reloads happen in the
// background until Stop.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("watch %s: %w", w.store.Dir(), err)
	}
	go w.run()
	w.logger.Info("lexicon watcher started", "dir", w.store.Dir())
	return nil
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		_ = w.watcher.Close()
		<-w.done
	})
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			anchor := strings.TrimSuffix(filepath.Base(ev.Name), ".json")
			pending[anchor] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case <-timerCh:
			for anchor := range pending {
				if err := w.store.Reload(anchor); err != nil {
					w.logger.Warn("lexicon reload failed", "anchor", anchor, "error", err)
					continue
				}
				w.logger.Info("lexicon reloaded", "anchor", anchor)
			}
			pending = make(map[string]struct{})
			timerCh = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("lexicon watcher error", "error", err)
		}
	}
}
