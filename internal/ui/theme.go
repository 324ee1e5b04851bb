// Package ui provides the GlassQuote desktop application.
package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// GlassQuoteTheme wraps the default Fyne theme with compact sizing and a
// fixed light/dark variant chosen in settings.
type GlassQuoteTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewGlassQuoteTheme creates a theme for the "system", "light" or "dark"
// preference. Unknown values follow the system.
func NewGlassQuoteTheme(preference string) *GlassQuoteTheme {
	t := &GlassQuoteTheme{base: theme.DefaultTheme()}
	t.SetPreference(preference)
	return t
}

// SetPreference updates the variant.
func (t *GlassQuoteTheme) SetPreference(preference string) {
	t.system = false
	switch preference {
	case "light":
		t.variant = theme.VariantLight
	case "dark":
		t.variant = theme.VariantDark
	default:
		t.system = true
	}
}

func (t *GlassQuoteTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.system {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

func (t *GlassQuoteTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *GlassQuoteTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *GlassQuoteTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return t.base.Size(name)
	}
}
