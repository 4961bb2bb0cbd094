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
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/zyntalic/zyntalic/cmd/zyntalic/config"
	"github.com/zyntalic/zyntalic/cmd/zyntalic/gcs"
	"github.com/zyntalic/zyntalic/pkg/logging"
	"github.com/zyntalic/zyntalic/pkg/ux"
	"github.com/zyntalic/zyntalic/services/cache"
)

// openCache opens the on-disk translation cache from the configured
// directory.
func openCache(logger *logging.Logger) (*cache.DB, *cache.TranslationCache, error) {
	dir := config.ExpandPath(config.Global.Cache.Dir)
	if dir == "" {
		return nil, nil, fmt.Errorf("no cache.dir configured; run 'zyntalic init'")
	}

	dbCfg := cache.DefaultConfig()
	dbCfg.Path = dir
	dbCfg.Logger = logger.Slog()

	db, err := cache.OpenDB(dbCfg)
	if err != nil {
		return nil, nil, err
	}
	tc, err := cache.NewTranslationCache(db, 0, logger.Slog())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, tc, nil
}

// runCacheStats prints entry count and on-disk size.
func runCacheStats(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	logger := logging.New(logging.Config{Level: logging.LevelWarn, Service: "cli"})
	defer logger.Close()

	db, tc, err := openCache(logger)
	if err != nil {
		ux.Error("Failed to open the cache: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()

	stats, err := tc.Stats(ctx)
	if err != nil {
		ux.Error("Failed to read cache stats: " + err.Error())
		os.Exit(1)
	}

	ux.KeyValue("Path", db.Path())
	ux.KeyValue("Entries", fmt.Sprintf("%d", stats.Entries))
	ux.KeyValue("LSM size", humanBytes(stats.LSMBytes))
	ux.KeyValue("Value log", humanBytes(stats.VLogBytes))
}

// runCacheBackup streams a full backup to a local file.
func runCacheBackup(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	logger := logging.New(logging.Config{Level: logging.LevelWarn, Service: "cli"})
	defer logger.Close()

	db, tc, err := openCache(logger)
	if err != nil {
		ux.Error("Failed to open the cache: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()

	out := backupOutput
	if out == "" && len(args) > 0 {
		out = args[0]
	}
	if out == "" {
		out = fmt.Sprintf("zyntalic_cache_%s.bak", time.Now().Format("2006-01-02"))
	}

	file, err := os.Create(out)
	if err != nil {
		ux.Error("Failed to create the backup file: " + err.Error())
		os.Exit(1)
	}
	defer file.Close()

	version, err := tc.Backup(ctx, file)
	if err != nil {
		ux.Error("Backup failed: " + err.Error())
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("Backup written to %s (version %d)", out, version))
}

// runCacheUpload pushes a backup file or directory to the configured
// GCS bucket.
func runCacheUpload(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if len(args) == 0 {
		ux.Error("Pass a local file or directory to upload")
		os.Exit(1)
	}
	gcsCfg := config.Global.GCS
	if gcsCfg.Bucket == "" || gcsCfg.ServiceAccountKey == "" {
		ux.Error("GCS is not configured; set gcs.bucket and gcs.service_account_key in the config")
		os.Exit(1)
	}

	client, err := gcs.NewClient(ctx, gcsCfg.ProjectID, gcsCfg.Bucket,
		config.ExpandPath(gcsCfg.ServiceAccountKey))
	if err != nil {
		ux.Error("Failed to create the GCS client: " + err.Error())
		os.Exit(1)
	}
	defer client.Close()

	local := args[0]
	info, err := os.Stat(local)
	if err != nil {
		ux.Error("Cannot read " + local + ": " + err.Error())
		os.Exit(1)
	}

	err = ux.WithSpinner(fmt.Sprintf("Uploading %s to gs://%s/%s", local, gcsCfg.Bucket, gcsPrefix),
		func() error {
			if info.IsDir() {
				return client.UploadDir(ctx, local, gcsPrefix)
			}
			return client.UploadFile(ctx, local, filepath.Join(gcsPrefix, filepath.Base(local)))
		})
	if err != nil {
		os.Exit(1)
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
