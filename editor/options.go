package editor

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"mathcanvas/core"
)

// Options configures a Board.
type Options struct {
	Scale        float64
	HistoryLimit int

	// A press and release whose camera moved less than this is a click.
	ClickDistance float64

	// Grid lines are drawn every GridSpacing units; zero disables the grid.
	GridSpacing float64

	GridColor    core.Color
	CommentColor core.Color
	ErrorColor   core.Color
}

// DefaultOptions returns the settings used by pixel hosts.
func DefaultOptions() Options {
	return Options{
		Scale:         1,
		HistoryLimit:  100,
		ClickDistance: 2,
		GridSpacing:   50,
		GridColor:     colorful.Color{R: 0.88, G: 0.88, B: 0.88},
		CommentColor:  colorful.Color{R: 0.35, G: 0.35, B: 0.35},
		ErrorColor:    colorful.Color{R: 0.85, G: 0.15, B: 0.15},
	}
}

// CellOptions returns the settings used by terminal hosts: no grid and
// any drag shorter than one cell counts as a click.
func CellOptions() Options {
	o := DefaultOptions()
	o.ClickDistance = 1
	o.GridSpacing = 0
	o.CommentColor = colorful.Color{R: 0.55, G: 0.55, B: 0.55}
	o.ErrorColor = colorful.Color{R: 0.95, G: 0.35, B: 0.35}
	return o
}
