// Package ui provides the ShelfPlan desktop editor.
//
// This file defines a compact Fyne theme so a full rack fits on screen next
// to the catalog.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ShelfPlanTheme wraps the default Fyne theme with compact sizing and an
// optional fixed light or dark variant.
type ShelfPlanTheme struct {
	base    fyne.Theme
	variant *fyne.ThemeVariant // nil follows the system
}

// NewShelfPlanTheme creates a theme that follows the system variant.
func NewShelfPlanTheme() *ShelfPlanTheme {
	return &ShelfPlanTheme{base: theme.DefaultTheme()}
}

// NewShelfPlanThemeWithVariant creates a theme fixed to a light or dark variant.
func NewShelfPlanThemeWithVariant(variant fyne.ThemeVariant) *ShelfPlanTheme {
	t := NewShelfPlanTheme()
	t.SetVariant(variant)
	return t
}

// themeFromConfig maps the "light", "dark" and "system" preference values.
func themeFromConfig(name string) *ShelfPlanTheme {
	switch name {
	case "light":
		return NewShelfPlanThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewShelfPlanThemeWithVariant(theme.VariantDark)
	default:
		return NewShelfPlanTheme()
	}
}

// SetVariant fixes the theme to variant.
func (t *ShelfPlanTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = &variant
}

// Color delegates to the base theme, using the fixed variant if one is set.
func (t *ShelfPlanTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.variant != nil {
		variant = *t.variant
	}
	return t.base.Color(name, variant)
}

func (t *ShelfPlanTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *ShelfPlanTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *ShelfPlanTheme) Size(name fyne.ThemeSizeName) float32 {
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
