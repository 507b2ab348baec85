// Package core contains the fundamental types shared by the mathcanvas parser,
// layout engine and painters.
package core

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Point represents a position on the canvas. Y grows downward.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is an axis aligned rectangle anchored at its top-left corner.
type Rect struct {
	Min  Point
	Size Size
}

// Max returns the bottom-right corner of the rectangle.
func (r Rect) Max() Point {
	return Point{X: r.Min.X + r.Size.Width, Y: r.Min.Y + r.Size.Height}
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X < max.X &&
		p.Y >= r.Min.Y && p.Y < max.Y
}

// Color is the color type accepted by every painter.
type Color = colorful.Color

// Font selects the face a piece of text is drawn with.
type Font int

const (
	// FontSymbol is used for numerals, operators and brackets.
	FontSymbol Font = iota
	// FontVariable is used for variable names.
	FontVariable
)

// String returns the font selector name.
func (f Font) String() string {
	switch f {
	case FontSymbol:
		return "symbol"
	case FontVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// TextMetrics measures text. Implementations must return identical sizes for
// identical inputs, since the layout engine measures and paints in two passes.
type TextMetrics interface {
	MeasureText(text string, font Font, scale float64) Size
}

// Painter draws primitives at screen positions. Text positions are the
// top-left corner of the box reported by the matching TextMetrics.
type Painter interface {
	DrawText(text string, pos Point, font Font, scale float64, color Color)
	DrawLine(from, to Point, thickness float64, color Color)
	FillRect(r Rect, color Color)
}
