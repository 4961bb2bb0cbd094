// Copyright (C) 2026 Zyntalic Project (dev@zyntalic.org)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the Zyntalic CLI.
//
// Styling respects an output mode: Styled for interactive terminals,
// Plain for dumb terminals, Machine for pipes and scripts. The CLI
// selects the mode from isatty detection and the --output flag; this
// package only renders.
package ux

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Mode selects how much styling output carries.
type Mode int

const (
	// ModeStyled renders colors, icons and boxes.
	ModeStyled Mode = iota

	// ModePlain keeps icons but drops colors and boxes.
	ModePlain

	// ModeMachine emits prefix-tagged lines for scripts and drops
	// decorative output entirely.
	ModeMachine
)

var (
	modeMu      sync.RWMutex
	currentMode = ModeStyled
)

// SetMode switches the global output mode.
func SetMode(m Mode) {
	modeMu.Lock()
	currentMode = m
	modeMu.Unlock()
}

// GetMode returns the current output mode.
func GetMode() Mode {
	modeMu.RLock()
	defer modeMu.RUnlock()
	return currentMode
}

// ParseMode maps a flag value to a Mode. Unknown values get Styled.
func ParseMode(s string) Mode {
	switch s {
	case "plain":
		return ModePlain
	case "machine":
		return ModeMachine
	default:
		return ModeStyled
	}
}

// Zyntalic color palette - hanji paper inks and violet dusk
var (
	ColorVioletBright  = lipgloss.Color("#B794F6") // Bright violet - highlights
	ColorVioletPrimary = lipgloss.Color("#9F7AEA") // Primary violet - brand color
	ColorVioletDeep    = lipgloss.Color("#6B46C1") // Deep violet - borders
	ColorIndigo        = lipgloss.Color("#4C51BF") // Indigo - secondary elements
	ColorInk           = lipgloss.Color("#2D3748") // Ink - muted text
	ColorParchment     = lipgloss.Color("#D6BCFA") // Parchment lavender - soft accents

	// Semantic colors
	ColorSuccess = lipgloss.Color("#68D391") // Green for success
	ColorWarning = lipgloss.Color("#F6E05E") // Amber for warnings
	ColorError   = lipgloss.Color("#FC8181") // Red for errors
	ColorMuted   = lipgloss.Color("#718096") // Grey for muted text
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	// Translation record parts
	Source lipgloss.Style
	Target lipgloss.Style
	Anchor lipgloss.Style
	Tail   lipgloss.Style

	Box lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorVioletBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorVioletPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorVioletBright).Bold(true),

	Source: lipgloss.NewStyle().Foreground(ColorMuted),
	Target: lipgloss.NewStyle().Foreground(ColorParchment).Bold(true),
	Anchor: lipgloss.NewStyle().Foreground(ColorIndigo),
	Tail:   lipgloss.NewStyle().Foreground(ColorVioletDeep),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorVioletDeep).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
	IconGlyph   Icon = "⟦"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	if GetMode() != ModeStyled {
		return string(i)
	}
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// Title prints a styled title line.
func Title(text string) {
	switch GetMode() {
	case ModeMachine:
		return
	case ModePlain:
		fmt.Println(text)
	default:
		fmt.Println(Styles.Title.Render(text))
	}
}

// Success prints a success message with checkmark.
func Success(text string) {
	switch GetMode() {
	case ModeMachine:
		fmt.Fprintf(os.Stdout, "OK: %s\n", text)
	case ModePlain:
		fmt.Printf("%s %s\n", IconSuccess, text)
	default:
		fmt.Printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message.
func Warning(text string) {
	switch GetMode() {
	case ModeMachine:
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
	case ModePlain:
		fmt.Printf("%s %s\n", IconWarning, text)
	default:
		fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message.
func Error(text string) {
	switch GetMode() {
	case ModeMachine:
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
	case ModePlain:
		fmt.Printf("%s %s\n", IconError, text)
	default:
		fmt.Printf("%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational message.
func Info(text string) {
	switch GetMode() {
	case ModeMachine:
		fmt.Println(text)
	case ModePlain:
		fmt.Println(text)
	default:
		fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
	}
}

// Muted prints secondary text; dropped in machine mode.
func Muted(text string) {
	switch GetMode() {
	case ModeMachine:
		return
	case ModePlain:
		fmt.Println(text)
	default:
		fmt.Println(Styles.Muted.Render(text))
	}
}

// Box prints content in a rounded box with a title.
func Box(title, content string) {
	if GetMode() != ModeStyled {
		fmt.Printf("%s: %s\n", title, content)
		return
	}
	boxStyle := Styles.Box.Width(72)
	fmt.Println(boxStyle.Render(Styles.Title.Render(title) + "\n" + content))
}

// KeyValue prints an aligned key/value line.
func KeyValue(key, value string) {
	switch GetMode() {
	case ModeMachine:
		fmt.Printf("%s=%s\n", key, value)
	case ModePlain:
		fmt.Printf("%-16s %s\n", key, value)
	default:
		fmt.Printf("%s %s\n", Styles.Muted.Render(fmt.Sprintf("%-16s", key)), value)
	}
}

// WeightBar renders a proportional bar for an anchor weight in [0,1].
func WeightBar(weight float64, width int) string {
	if GetMode() == ModeMachine {
		return fmt.Sprintf("%.4f", weight)
	}
	filled := int(weight * float64(width))
	if filled > width {
		filled = width
	}
	bar := repeatChar('█', filled) + repeatChar('░', width-filled)
	if GetMode() == ModePlain {
		return fmt.Sprintf("%s %5.1f%%", bar, weight*100)
	}
	return fmt.Sprintf("%s %s", Styles.Anchor.Render(bar),
		Styles.Muted.Render(fmt.Sprintf("%5.1f%%", weight*100)))
}

func repeatChar(c rune, n int) string {
	if n <= 0 {
		return ""
	}
	result := make([]rune, n)
	for i := range result {
		result[i] = c
	}
	return string(result)
}
