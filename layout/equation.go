package layout

import (
	"mathcanvas/core"
	"mathcanvas/expr"
)

// MeasureEquation measures every side and returns the size of the whole
// row, sides separated by " = " and aligned on their deepest midline.
func (e *Engine) MeasureEquation(sides []*expr.Arena, scale float64) core.Size {
	for _, a := range sides {
		e.Measure(a, scale)
	}
	return rowSize(e.equationParts(sides, scale))
}

// EquationMidline returns the shared midline of measured sides.
func (e *Engine) EquationMidline(sides []*expr.Arena, scale float64) float64 {
	return rowMid(e.equationParts(sides, scale))
}

// PaintEquation paints measured sides left to right from origin.
func (e *Engine) PaintEquation(p core.Painter, sides []*expr.Arena, scale float64, origin core.Point) error {
	for _, a := range sides {
		if err := checkMeasured(a); err != nil {
			return err
		}
	}

	parts := e.equationParts(sides, scale)
	mid := rowMid(parts)
	cursor := e.CursorVisible(e.Now())
	x := origin.X
	side := 0
	for _, part := range parts {
		at := core.Point{X: x, Y: origin.Y + mid - part.mid}
		if part.node == expr.NoNode {
			p.DrawText(part.text, at, core.FontSymbol, scale, e.cfg.Foreground)
		} else {
			e.paint(p, sides[side], part.node, scale, at, cursor)
			side++
		}
		x += part.size.Width
	}
	return nil
}

func (e *Engine) equationParts(sides []*expr.Arena, scale float64) []rowPart {
	parts := make([]rowPart, 0, 2*len(sides))
	for i, a := range sides {
		if i > 0 {
			parts = append(parts, e.textPart(EqualsSeparator, scale))
		}
		parts = append(parts, e.nodePart(a, a.Root(), scale))
	}
	return parts
}
