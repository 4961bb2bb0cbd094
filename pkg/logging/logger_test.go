// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_DefaultConfig(t *testing.T) {
	logger := New(Config{})
	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.slog == nil {
		t.Error("logger.slog is nil")
	}
	defer logger.Close()
}

func TestNew_WithLogDir(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{
		LogDir:  tmpDir,
		Service: "test",
		Quiet:   true,
	})
	defer logger.Close()

	if logger.file == nil {
		t.Fatal("logger.file is nil when LogDir specified")
	}

	files, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(files) == 0 {
		t.Error("No log file created in LogDir")
	}
	if !strings.HasPrefix(files[0].Name(), "test_") {
		t.Errorf("Log file %q should carry the service prefix", files[0].Name())
	}
}

func TestNew_WithLogDir_NoService(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{LogDir: tmpDir, Quiet: true})
	defer logger.Close()

	files, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	found := false
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "zyntalic_") {
			found = true
		}
	}
	if !found {
		t.Error("Expected log file with 'zyntalic_' prefix")
	}
}

func TestNew_WithLogDir_InvalidPath(t *testing.T) {
	logger := New(Config{
		LogDir: "/proc/nonexistent/deep/path/that/should/fail",
		Quiet:  true,
	})
	defer logger.Close()

	// Still usable, just without file logging.
	if logger.file != nil {
		t.Error("logger.file should be nil for invalid path")
	}
	logger.Info("still works")
}

func TestDefault(t *testing.T) {
	logger := Default()
	defer logger.Close()

	if logger.config.Level != LevelInfo {
		t.Errorf("Default level = %v, want LevelInfo", logger.config.Level)
	}
	if logger.config.Service != "zyntalic" {
		t.Errorf("Default service = %v, want zyntalic", logger.config.Service)
	}
}

func TestLogger_FileContent(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  tmpDir,
		Service: "file-test",
		Quiet:   true,
	})

	logger.Info("translated text", "sentences", 3)
	logger.Close()

	files, _ := os.ReadDir(tmpDir)
	if len(files) == 0 {
		t.Fatal("No log file created")
	}
	content, err := os.ReadFile(filepath.Join(tmpDir, files[0].Name()))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	// File output is always JSON.
	if !strings.Contains(string(content), "translated text") {
		t.Error("Log file should contain the message")
	}
	if !strings.Contains(string(content), "\"sentences\":3") {
		t.Error("Log file should contain the attribute in JSON form")
	}
	if !strings.Contains(string(content), "\"service\":\"file-test\"") {
		t.Error("Log file should carry the service attribute")
	}
}

func TestLogger_With_SharesResources(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New(Config{LogDir: tmpDir, Service: "test", Quiet: true})
	defer logger.Close()

	child := logger.With("request_id", "abc123")
	if child.file != logger.file {
		t.Error("Child logger should share the file handle")
	}
	child.Info("child message")
}

func TestLogger_Close_NoResources(t *testing.T) {
	logger := New(Config{Quiet: true})
	if err := logger.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
}

func TestMultiHandler_Handle(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	mh := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&buf1, opts),
		slog.NewJSONHandler(&buf2, opts),
	}}

	record := slog.Record{}
	record.Level = slog.LevelInfo
	record.Message = "fan out"

	if err := mh.Handle(context.Background(), record); err != nil {
		t.Errorf("Handle() returned error: %v", err)
	}
	if buf1.Len() == 0 || buf2.Len() == 0 {
		t.Error("Both handlers should receive the record")
	}
}

func TestMultiHandler_LevelFiltering(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	mh := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	if !mh.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Debug should be enabled while one handler accepts it")
	}

	record := slog.Record{}
	record.Level = slog.LevelInfo
	_ = mh.Handle(context.Background(), record)

	if buf1.Len() == 0 {
		t.Error("debug handler should have content")
	}
	if buf2.Len() != 0 {
		t.Error("error-only handler should be empty")
	}
}

func TestMultiHandler_Handle_Error(t *testing.T) {
	mh := &multiHandler{handlers: []slog.Handler{
		&errorHandler{err: errors.New("handler error")},
	}}

	record := slog.Record{}
	record.Level = slog.LevelInfo
	if err := mh.Handle(context.Background(), record); err == nil {
		t.Error("Expected error from Handle()")
	}
}

type errorHandler struct {
	err error
}

func (h *errorHandler) Enabled(ctx context.Context, level slog.Level) bool { return true }

func (h *errorHandler) Handle(ctx context.Context, r slog.Record) error { return h.err }

func (h *errorHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }

func (h *errorHandler) WithGroup(name string) slog.Handler { return h }

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/logs", filepath.Join(home, "logs")},
		{"~/.zyntalic/logs", filepath.Join(home, ".zyntalic/logs")},
		{"~", home},
		{"/var/log", "/var/log"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
