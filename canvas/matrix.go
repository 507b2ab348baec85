package canvas

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"mathcanvas/core"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// continuation marks the second cell of a wide grapheme.
const continuation = '\x00'

// MatrixCanvas is a rune matrix with an optional color per cell.
//
// MatrixCanvas is NOT safe for concurrent writes. Set, DrawText, the line
// drawing methods and Clear must be serialized by the caller.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
type MatrixCanvas struct {
	matrix [][]rune
	colors [][]*core.Color
	width  int
	height int
}

// NewMatrixCanvas creates a blank canvas with the specified dimensions.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}

	matrix := make([][]rune, height)
	colors := make([][]*core.Color, height)
	for y := 0; y < height; y++ {
		matrix[y] = make([]rune, width)
		colors[y] = make([]*core.Color, width)
		for x := 0; x < width; x++ {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		colors: colors,
		width:  width,
		height: height,
	}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Matrix returns direct access to the underlying rune matrix.
func (c *MatrixCanvas) Matrix() [][]rune {
	return c.matrix
}

func (c *MatrixCanvas) inside(p Cell) bool {
	return p.X >= 0 && p.X < c.width && p.Y >= 0 && p.Y < c.height
}

// Get returns the character at the given position, or a space when the
// position is out of bounds.
func (c *MatrixCanvas) Get(p Cell) rune {
	if !c.inside(p) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// ColorAt returns the color of a cell, if one was set.
func (c *MatrixCanvas) ColorAt(p Cell) (core.Color, bool) {
	if !c.inside(p) || c.colors[p.Y][p.X] == nil {
		return core.Color{}, false
	}
	return *c.colors[p.Y][p.X], true
}

// Set places an uncolored character.
func (c *MatrixCanvas) Set(p Cell, char rune) error {
	return c.set(p, char, nil)
}

// SetWithColor places a character with a specific color.
func (c *MatrixCanvas) SetWithColor(p Cell, char rune, color core.Color) error {
	return c.set(p, char, &color)
}

func (c *MatrixCanvas) set(p Cell, char rune, color *core.Color) error {
	if !c.inside(p) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = char
	c.colors[p.Y][p.X] = color
	return nil
}

// Clear resets the canvas to uncolored spaces.
func (c *MatrixCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.matrix[y][x] = ' '
			c.colors[y][x] = nil
		}
	}
}

// String returns the canvas as plain text, one line per row.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			r := c.matrix[y][x]
			if r == continuation {
				continue
			}
			sb.WriteRune(r)
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// TrimmedString is String without trailing spaces on any row or blank
// rows at the bottom.
func (c *MatrixCanvas) TrimmedString() string {
	lines := strings.Split(c.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	for len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// DrawText writes text starting at (x, y), one grapheme cluster per cell
// or two cells for wide clusters. A cell holds the cluster's first rune, so
// combining marks are dropped. Text running off either edge is clipped.
func (c *MatrixCanvas) DrawText(x, y int, text string, color *core.Color) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}

	currentX := x
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		width := runewidth.StringWidth(cluster)
		if width == 0 {
			continue
		}

		runes := []rune(cluster)
		if currentX >= 0 && currentX+width <= c.width {
			c.matrix[y][currentX] = runes[0]
			c.colors[y][currentX] = color
			if width == 2 {
				c.matrix[y][currentX+1] = continuation
				c.colors[y][currentX+1] = color
			}
		}

		currentX += width
		if currentX >= c.width {
			break
		}
	}
	return nil
}

// DrawHorizontalLine fills cells x1 through x2 inclusive on row y.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int, char rune, color *core.Color) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	x1 = max(x1, 0)
	x2 = min(x2, c.width-1)

	for x := x1; x <= x2; x++ {
		c.matrix[y][x] = char
		c.colors[y][x] = color
	}
	return nil
}

// DrawVerticalLine fills cells y1 through y2 inclusive in column x.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int, char rune, color *core.Color) error {
	if x < 0 || x >= c.width {
		return ErrOutOfBounds
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	y1 = max(y1, 0)
	y2 = min(y2, c.height-1)

	for y := y1; y <= y2; y++ {
		c.matrix[y][x] = char
		c.colors[y][x] = color
	}
	return nil
}
