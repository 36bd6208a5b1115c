// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme resolves the appearance preference into concrete styles.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"chatdeck/internal/model"
)

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve maps the preference to an effective appearance. The system
// preference consults the terminal background at call time, so cycling
// through it re-detects rather than caching a stale answer.
func Resolve(pref model.Theme) model.Theme {
	if pref != model.ThemeSystem {
		return pref
	}
	if termenv.HasDarkBackground() {
		return model.ThemeDark
	}
	return model.ThemeLight
}

// =============================================================================
// PALETTES
// =============================================================================

// Palette holds the raw colors for one effective appearance.
type Palette struct {
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	ErrorFg   lipgloss.Color
	Surface   lipgloss.Color
	Border    lipgloss.Color
}

var darkPalette = Palette{
	Primary: lipgloss.Color("#7c6ff0"),
	Accent:  lipgloss.Color("#45c7e0"),
	Text:    lipgloss.Color("#e6e6f0"),
	Muted:   lipgloss.Color("#6b6b80"),
	ErrorFg: lipgloss.Color("#f06a7f"),
	Surface: lipgloss.Color("#23232e"),
	Border:  lipgloss.Color("#3a3a4c"),
}

var lightPalette = Palette{
	Primary: lipgloss.Color("#5b4bd4"),
	Accent:  lipgloss.Color("#0d7e99"),
	Text:    lipgloss.Color("#24242e"),
	Muted:   lipgloss.Color("#8a8a9a"),
	ErrorFg: lipgloss.Color("#c22f47"),
	Surface: lipgloss.Color("#ececf4"),
	Border:  lipgloss.Color("#c5c5d4"),
}

// PaletteFor returns the palette for a preference after resolution.
func PaletteFor(pref model.Theme) Palette {
	if Resolve(pref) == model.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// =============================================================================
// STYLES
// =============================================================================

// Styles holds the styled components used by the chat view.
type Styles struct {
	IsDark bool

	Header    lipgloss.Style
	Title     lipgloss.Style
	ModelTag  lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	SystemLabel    lipgloss.Style
	MessageBody    lipgloss.Style
	StreamCursor   lipgloss.Style

	StatusBar    lipgloss.Style
	Spinner      lipgloss.Style
	LoadingText  lipgloss.Style
	ErrorBox     lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	InputBox lipgloss.Style
}

// NewStyles builds the style set for a preference.
func NewStyles(pref model.Theme) Styles {
	p := PaletteFor(pref)
	isDark := Resolve(pref) == model.ThemeDark

	return Styles{
		IsDark: isDark,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),

		ModelTag: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),

		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		SystemLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Muted),

		MessageBody: lipgloss.NewStyle().
			Foreground(p.Text),

		StreamCursor: lipgloss.NewStyle().
			Foreground(p.Primary).
			Blink(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(p.Border).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().
			Foreground(p.Primary),

		LoadingText: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		ErrorBox: lipgloss.NewStyle().
			Foreground(p.ErrorFg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.ErrorFg).
			Padding(0, 1),

		ShortcutKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),

		ShortcutDesc: lipgloss.NewStyle().
			Foreground(p.Muted),

		InputBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
	}
}
