// Package ui renders the simulation scene and the interactive control panel.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds shared styling for panels and labels.
type Theme struct {
	Padding        int32
	LineHeight     int32
	FontSize       int32
	HeaderFontSize int32
	LabelWidth     int32
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
}

// DefaultTheme returns the standard dark theme.
func DefaultTheme() Theme {
	return Theme{
		Padding:        10,
		LineHeight:     22,
		FontSize:       14,
		HeaderFontSize: 16,
		LabelWidth:     130,
		PanelBg:        rl.Color{R: 20, G: 24, B: 34, A: 230},
		PanelBorder:    rl.Color{R: 70, G: 80, B: 100, A: 255},
		SectionHeader:  rl.Color{R: 240, G: 200, B: 90, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
	}
}

// Renderer handles UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line and returns the
// new Y position.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawTemperature draws a labeled temperature in Kelvin and Celsius.
func (r *Renderer) DrawTemperature(x, y int32, label string, kelvin float64) int32 {
	return r.DrawLabelValue(x, y, label, fmt.Sprintf("%.1f K (%.1f °C)", kelvin, kelvin-273.15))
}
