// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseMode verifies flag values map to the right mode.
func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"plain", ModePlain},
		{"machine", ModeMachine},
		{"styled", ModeStyled},
		{"", ModeStyled},
		{"bogus", ModeStyled},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMode(tt.input), "ParseMode(%q)", tt.input)
	}
}

// TestSetMode verifies the global mode switch round-trips.
func TestSetMode(t *testing.T) {
	original := GetMode()
	defer SetMode(original)

	SetMode(ModeMachine)
	assert.Equal(t, ModeMachine, GetMode())

	SetMode(ModePlain)
	assert.Equal(t, ModePlain, GetMode())
}

// TestIcon_Render verifies icons come back unstyled outside styled mode.
func TestIcon_Render(t *testing.T) {
	original := GetMode()
	defer SetMode(original)

	SetMode(ModePlain)
	assert.Equal(t, "✓", IconSuccess.Render())
	assert.Equal(t, "✗", IconError.Render())

	SetMode(ModeMachine)
	assert.Equal(t, "⟦", IconGlyph.Render())
}

// TestWeightBar verifies bar proportions across modes.
func TestWeightBar(t *testing.T) {
	original := GetMode()
	defer SetMode(original)

	SetMode(ModeMachine)
	assert.Equal(t, "0.5000", WeightBar(0.5, 10))

	SetMode(ModePlain)
	bar := WeightBar(0.5, 10)
	assert.Equal(t, 5, strings.Count(bar, "█"))
	assert.Equal(t, 5, strings.Count(bar, "░"))
	assert.Contains(t, bar, "50.0%")

	// Weights above 1 clamp to a full bar.
	full := WeightBar(1.5, 10)
	assert.Equal(t, 10, strings.Count(full, "█"))
	assert.Equal(t, 0, strings.Count(full, "░"))

	empty := WeightBar(0, 10)
	assert.Equal(t, 0, strings.Count(empty, "█"))
	assert.Equal(t, 10, strings.Count(empty, "░"))
}

// TestRepeatChar verifies negative counts yield an empty string.
func TestRepeatChar(t *testing.T) {
	assert.Equal(t, "", repeatChar('x', 0))
	assert.Equal(t, "", repeatChar('x', -3))
	assert.Equal(t, "xxx", repeatChar('x', 3))
}
