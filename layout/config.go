package layout

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"mathcanvas/core"
)

// Config holds the typesetting constants of an Engine.
type Config struct {
	ExponentScale  float64 // scale applied to exponents
	SubscriptScale float64 // scale applied to variable subscripts
	DivisionScale  float64 // scale applied to numerators and denominators

	DivisionPadding float64 // vertical gap on each side of a fraction bar
	BarThickness    float64 // fraction bar thickness

	// ExponentOverlap is the fraction of the text height by which an
	// exponent's bottom edge reaches below the top of a one-line base.
	ExponentOverlap float64
	// SubscriptOffset is the fraction of the base glyph height at which a
	// subscript's top edge sits.
	SubscriptOffset float64

	// CellGrid marks a character grid: glyphs keep their size at every
	// scale, and padding and bar thickness are counted in whole cells.
	CellGrid bool

	BlinkInterval time.Duration

	Foreground  core.Color
	CursorColor core.Color
	Placeholder core.Color
}

// DefaultConfig returns settings for pixel based painters.
func DefaultConfig() Config {
	fg := colorful.Color{R: 0, G: 0, B: 0}
	return Config{
		ExponentScale:   0.6,
		SubscriptScale:  0.6,
		DivisionScale:   0.9,
		DivisionPadding: 4,
		BarThickness:    2,
		ExponentOverlap: 0.5,
		SubscriptOffset: 0.5,
		BlinkInterval:   500 * time.Millisecond,
		Foreground:      fg,
		CursorColor:     colorful.Color{R: 0.12, G: 0.44, B: 0.92},
		Placeholder:     fg.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.8),
	}
}

// CellConfig returns settings for character grids, where every glyph is
// one row tall and scale factors cannot shrink text.
func CellConfig() Config {
	cfg := DefaultConfig()
	cfg.DivisionPadding = 0
	cfg.BarThickness = 1
	cfg.ExponentOverlap = 0
	cfg.SubscriptOffset = 1
	cfg.CellGrid = true
	cfg.Foreground = colorful.Color{R: 0.9, G: 0.9, B: 0.9}
	cfg.Placeholder = colorful.Color{R: 0.4, G: 0.4, B: 0.4}
	return cfg
}
