package canvas

import (
	"math"

	"github.com/mattn/go-runewidth"

	"mathcanvas/core"
)

// Glyphs used for stretched brackets and fraction bars.
var (
	openBracket  = [3]rune{'⎛', '⎜', '⎝'}
	closeBracket = [3]rune{'⎞', '⎟', '⎠'}
)

const (
	barRune         = '─'
	placeholderRune = '□'
)

// CellMetrics measures text in terminal cells. Every glyph is one row tall
// whatever the scale, except brackets, which grow to the requested scale
// so the layout can stretch them around tall content.
type CellMetrics struct{}

// MeasureText implements core.TextMetrics.
func (CellMetrics) MeasureText(text string, font core.Font, scale float64) core.Size {
	h := 1.0
	if isBracket(text) {
		h = float64(bracketRows(scale))
	}
	return core.Size{Width: float64(runewidth.StringWidth(text)), Height: h}
}

func isBracket(text string) bool {
	return text == "(" || text == ")"
}

func bracketRows(scale float64) int {
	return max(1, int(math.Round(scale)))
}

// cell snaps a layout coordinate to the cell containing it.
func cell(v float64) int {
	return int(math.Floor(v + 1e-9))
}

// CellPainter implements core.Painter on a MatrixCanvas. Layout
// coordinates are snapped down to whole cells.
type CellPainter struct {
	Canvas *MatrixCanvas
	// Offset is added to every coordinate before snapping.
	Offset Cell
}

// NewCellPainter paints onto c.
func NewCellPainter(c *MatrixCanvas) *CellPainter {
	return &CellPainter{Canvas: c}
}

func (p *CellPainter) at(pos core.Point) Cell {
	return Cell{X: cell(pos.X) + p.Offset.X, Y: cell(pos.Y) + p.Offset.Y}
}

// DrawText implements core.Painter.
func (p *CellPainter) DrawText(text string, pos core.Point, font core.Font, scale float64, color core.Color) {
	at := p.at(pos)
	if rows := bracketRows(scale); isBracket(text) && rows > 1 {
		glyphs := openBracket
		if text == ")" {
			glyphs = closeBracket
		}
		for i := 0; i < rows; i++ {
			g := glyphs[1]
			switch i {
			case 0:
				g = glyphs[0]
			case rows - 1:
				g = glyphs[2]
			}
			p.Canvas.SetWithColor(Cell{X: at.X, Y: at.Y + i}, g, color)
		}
		return
	}
	p.Canvas.DrawText(at.X, at.Y, text, &color)
}

// DrawLine implements core.Painter. Horizontal lines cover the cells from
// the start up to, not including, the cell at the end coordinate; vertical
// lines likewise.
func (p *CellPainter) DrawLine(from, to core.Point, thickness float64, color core.Color) {
	a, b := p.at(from), p.at(to)
	switch {
	case a.Y == b.Y:
		if b.X > a.X {
			b.X--
		}
		p.Canvas.DrawHorizontalLine(a.X, a.Y, b.X, barRune, &color)
	case a.X == b.X:
		if b.Y > a.Y {
			b.Y--
		}
		p.Canvas.DrawVerticalLine(a.X, a.Y, b.Y, '│', &color)
	}
}

// FillRect implements core.Painter with placeholder boxes.
func (p *CellPainter) FillRect(r core.Rect, color core.Color) {
	origin := p.at(r.Min)
	w, h := int(math.Ceil(r.Size.Width)), int(math.Ceil(r.Size.Height))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Canvas.SetWithColor(Cell{X: origin.X + x, Y: origin.Y + y}, placeholderRune, color)
		}
	}
}
