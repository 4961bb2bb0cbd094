// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestSpinner_StartStop verifies start and stop are idempotent.
func TestSpinner_StartStop(t *testing.T) {
	original := GetMode()
	defer SetMode(original)
	SetMode(ModeMachine)

	s := NewSpinner("working")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

// TestSpinner_StyledLifecycle verifies the animation goroutine exits on
// stop in styled mode.
func TestSpinner_StyledLifecycle(t *testing.T) {
	original := GetMode()
	defer SetMode(original)
	SetMode(ModeStyled)

	s := NewSpinner("loading").WithType(SpinnerCompass)
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.UpdateMessage("still loading")

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

// TestWithSpinner verifies the error from the wrapped function is
// passed through.
func TestWithSpinner(t *testing.T) {
	original := GetMode()
	defer SetMode(original)
	SetMode(ModeMachine)

	err := WithSpinner("succeeds", func() error { return nil })
	assert.NoError(t, err)

	wantErr := errors.New("boom")
	err = WithSpinner("fails", func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}
